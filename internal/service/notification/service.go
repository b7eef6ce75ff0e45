package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hadirly/hadirly-backend-go/internal/domain/notification"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/sse"
)

// SSESink pushes state-change events to the recipient's open SSE streams.
// Delivery is best-effort: events for recipients with no open stream are
// dropped, and a send never fails the producing operation.
type SSESink struct {
	hub    *sse.Hub
	logger *slog.Logger
}

func NewSSESink(hub *sse.Hub, logger *slog.Logger) notification.Sink {
	return &SSESink{hub: hub, logger: logger}
}

// Notify implements notification.Sink.
func (s *SSESink) Notify(ctx context.Context, event notification.Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	s.hub.Publish(event.RecipientID, sse.Event{
		UserID: event.RecipientID,
		Event:  string(event.Type),
		Data:   event,
	})

	s.logger.DebugContext(ctx, "notification published",
		slog.String("event_id", event.ID),
		slog.String("recipient_id", event.RecipientID),
		slog.String("type", string(event.Type)),
		slog.Int("subscribers", s.hub.SubscriberCount(event.RecipientID)),
	)
}
