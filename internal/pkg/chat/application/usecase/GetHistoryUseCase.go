package usecase

import (
	"context"
	"fmt"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// GetHistoryInput selects a history window: nil PartnerID for the public
// room, otherwise both directions of the private pair.
type GetHistoryInput struct {
	UserID    string
	PartnerID *string
}

// GetHistoryUseCase fetches message history in ascending timestamp order.
type GetHistoryUseCase struct {
	Repo repository.MessageRepository
}

func NewGetHistoryUseCase(repo repository.MessageRepository) *GetHistoryUseCase {
	return &GetHistoryUseCase{Repo: repo}
}

func (uc *GetHistoryUseCase) Execute(ctx context.Context, in GetHistoryInput) ([]chat.Message, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	msgs, err := uc.Repo.History(ctx, in.UserID, in.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
