package notification

import (
	"context"
)

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*Notification, int, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)

	// MarkAsRead flags one notification owned by userID. Returns
	// ErrNotificationNotFound when the id does not exist for that user.
	MarkAsRead(ctx context.Context, id string, userID string) (*Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int, error)
}
