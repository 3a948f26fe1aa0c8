package usecase

import (
	"context"
	"fmt"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// ListSessionsUseCase returns the peers the caller has private conversations
// with.
type ListSessionsUseCase struct {
	Repo repository.MessageRepository
}

func NewListSessionsUseCase(repo repository.MessageRepository) *ListSessionsUseCase {
	return &ListSessionsUseCase{Repo: repo}
}

func (uc *ListSessionsUseCase) Execute(ctx context.Context, userID string) ([]chat.Peer, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	peers, err := uc.Repo.Sessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return peers, nil
}
