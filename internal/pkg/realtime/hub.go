package realtime

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

// HubPublisher delivers events to subscribers connected to this process only.
type HubPublisher struct {
	hub *sse.Hub
}

func NewHubPublisher(hub *sse.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

// Publish never fails; a recipient without an open stream simply misses the
// live event and reads it from storage later.
func (p *HubPublisher) Publish(ctx context.Context, recipientID string, event string, payload interface{}) error {
	delivered := p.hub.Publish(recipientID, sse.Event{
		UserID: recipientID,
		Event:  event,
		Data:   payload,
	})
	slog.DebugContext(ctx, "Realtime event published", "recipient_id", recipientID, "event", event, "delivered", delivered)
	return nil
}
