package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
)

type NotificationRepository struct {
	mu            sync.Mutex
	notifications map[string]*notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{notifications: make(map[string]*notification.Notification)}
}

func cloneNotification(n *notification.Notification) *notification.Notification {
	out := *n
	out.RelatedID = copyString(n.RelatedID)
	if n.Metadata != nil {
		out.Metadata = make(map[string]interface{}, len(n.Metadata))
		for k, v := range n.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications[n.ID] = cloneNotification(n)
	return nil
}

func (r *NotificationRepository) GetByUserID(ctx context.Context, userID string, pageNum, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*notification.Notification
	for _, n := range r.notifications {
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		matched = append(matched, cloneNotification(n))
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	start, end := page(len(matched), pageNum, pageSize)
	return matched[start:end], len(matched), nil
}

func (r *NotificationRepository) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id string, userID string) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return nil, notification.ErrNotificationNotFound
	}
	n.IsRead = true
	n.UpdatedAt = time.Now()
	return cloneNotification(n), nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	now := time.Now()
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.UpdatedAt = now
			updated++
		}
	}
	return updated, nil
}
