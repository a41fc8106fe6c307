package notification

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

//go:generate mockgen -source=service.go -destination=mock/service_mock.go -package=mock

// Publisher delivers an event to a recipient's live sessions. Delivery is
// advisory; callers treat errors as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, recipientID string, event string, payload interface{}) error
}

// Emitter is the narrow dependency other services use to raise notifications.
// now stamps the stored notification.
type Emitter interface {
	Notify(ctx context.Context, req CreateNotificationRequest, now time.Time) (NotificationResponse, error)
}

// Service defines the notification service interface
type Service interface {
	Emitter

	GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, notificationID string, userID string) (NotificationResponse, error)
	MarkAllAsRead(ctx context.Context, userID string) (int, error)

	// SSE subscription on this instance
	Subscribe(ctx context.Context, userID string) (<-chan sse.Event, func())
}
