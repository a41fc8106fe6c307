package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

type service struct {
	repo      notification.Repository
	publisher notification.Publisher
	hub       *sse.Hub
}

// NewNotificationService wires storage, the live-delivery publisher and the
// local hub used by SSE streams on this instance.
func NewNotificationService(repo notification.Repository, publisher notification.Publisher, hub *sse.Hub) notification.Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		hub:       hub,
	}
}

// Notify persists the notification and then attempts live delivery. Only a
// storage failure is returned; delivery failures are logged.
func (s *service) Notify(ctx context.Context, req notification.CreateNotificationRequest, now time.Time) (notification.NotificationResponse, error) {
	if err := req.Validate(); err != nil {
		return notification.NotificationResponse{}, err
	}

	n := &notification.Notification{
		ID:        uuid.New().String(),
		UserID:    req.RecipientID,
		Title:     req.Title,
		Message:   req.Message,
		Type:      req.Type,
		RelatedID: req.RelatedID,
		IsRead:    false,
		Metadata:  req.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return notification.NotificationResponse{}, fmt.Errorf("failed to create notification: %w", err)
	}

	resp := notification.ToResponse(n)
	if err := s.publisher.Publish(ctx, n.UserID, notification.EventNewNotification, resp); err != nil {
		slog.WarnContext(ctx, "Realtime delivery failed", "notification_id", n.ID, "recipient_id", n.UserID, "error", err)
	}

	return resp, nil
}

// GetNotifications retrieves paginated notifications for a user
func (s *service) GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByUserID(ctx, userID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unread count: %w", err)
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.ToResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// GetUnreadCount returns the count of unread notifications
func (s *service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return count, nil
}

// MarkAsRead marks one of the user's notifications as read
func (s *service) MarkAsRead(ctx context.Context, notificationID string, userID string) (notification.NotificationResponse, error) {
	n, err := s.repo.MarkAsRead(ctx, notificationID, userID)
	if err != nil {
		return notification.NotificationResponse{}, err
	}
	return notification.ToResponse(n), nil
}

// MarkAllAsRead marks all notifications as read for a user
func (s *service) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	updated, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return updated, nil
}

// Subscribe attaches an SSE stream of this instance to the user's events
func (s *service) Subscribe(ctx context.Context, userID string) (<-chan sse.Event, func()) {
	events, cleanup := s.hub.Subscribe(userID)
	slog.DebugContext(ctx, "SSE stream opened", "user_id", userID, "user_streams", s.hub.SubscriberCount(userID))

	return events, func() {
		cleanup()
		slog.DebugContext(ctx, "SSE stream closed", "user_id", userID, "user_streams", s.hub.SubscriberCount(userID))
	}
}
