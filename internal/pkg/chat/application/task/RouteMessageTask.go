package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/pkg/chat/application/usecase"
	chatAdapter "go-parley/internal/pkg/chat/persistence/repository/adapter"
	identityAdapter "go-parley/internal/pkg/identity/persistence/repository/adapter"
)

// RouteMessageTaskType is the queue task name for routing a message submitted
// over the REST API.
const RouteMessageTaskType = "chat:route_message"

// RouteMessageTaskPayload is the JSON payload transported via the queue,
// kept decoupled from domain types.
type RouteMessageTaskPayload struct {
	SenderID   string  `json:"senderId"`
	ReceiverID *string `json:"receiverId"`
	Content    string  `json:"content"`
}

// RegisterRouteMessageTask binds the handler to the worker server. The
// handler runs the same message router as the socket path, so REST-submitted
// messages are persisted and reach live connections identically.
func RegisterRouteMessageTask(srv qport.Server, pool *pgxpool.Pool, dispatch usecase.Dispatcher) {
	srv.Register(RouteMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p RouteMessageTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// Malformed payload: retrying cannot help.
			return err
		}

		uc := usecase.NewRouteMessageUseCase(
			chatAdapter.NewPgMessageRepository(pool),
			identityAdapter.NewPgIdentityRepository(pool),
			dispatch,
		)

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		_, err := uc.Execute(ctx, usecase.RouteMessageInput{
			SenderID:   p.SenderID,
			ReceiverID: p.ReceiverID,
			Content:    p.Content,
		})
		return err
	})
}
