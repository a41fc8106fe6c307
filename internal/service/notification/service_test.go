package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification/mock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/realtime"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func approval(recipient string) notification.CreateNotificationRequest {
	related := "leave-1"
	return notification.CreateNotificationRequest{
		RecipientID: recipient,
		Title:       "Leave Approved",
		Message:     "Your leave request from 2024-03-10 to 2024-03-12 has been approved.",
		Type:        notification.TypeLeaveApproval,
		RelatedID:   &related,
		Metadata:    map[string]interface{}{"leaveId": related},
	}
}

func TestNotify_PersistsThenPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mock.NewMockPublisher(ctrl)
	repo := memory.NewNotificationRepository()
	svc := NewNotificationService(repo, publisher, sse.NewHub())
	ctx := context.Background()

	publisher.EXPECT().
		Publish(gomock.Any(), "emp-1", notification.EventNewNotification, gomock.Any()).
		DoAndReturn(func(ctx context.Context, recipientID, event string, payload any) error {
			// Already stored when published
			count, err := repo.GetUnreadCount(ctx, recipientID)
			require.NoError(t, err)
			assert.Equal(t, 1, count)

			resp, ok := payload.(notification.NotificationResponse)
			require.True(t, ok)
			assert.Equal(t, "Leave Approved", resp.Title)
			assert.False(t, resp.IsRead)
			return nil
		})

	resp, err := svc.Notify(ctx, approval("emp-1"), now)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "emp-1", resp.UserID)
	assert.True(t, resp.CreatedAt.Equal(now))
}

func TestNotify_PublishFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mock.NewMockPublisher(ctrl)
	repo := memory.NewNotificationRepository()
	svc := NewNotificationService(repo, publisher, sse.NewHub())
	ctx := context.Background()

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis unavailable"))

	_, err := svc.Notify(ctx, approval("emp-1"), now)
	require.NoError(t, err)

	list, err := svc.GetNotifications(ctx, "emp-1", 1, 20, false)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestNotify_InvalidRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mock.NewMockPublisher(ctrl)
	svc := NewNotificationService(memory.NewNotificationRepository(), publisher, sse.NewHub())

	req := approval("emp-1")
	req.Type = "MARKETING"
	_, err := svc.Notify(context.Background(), req, now)
	assert.Error(t, err)
}

func TestNotify_DeliversToLocalSubscriber(t *testing.T) {
	hub := sse.NewHub()
	svc := NewNotificationService(memory.NewNotificationRepository(), realtime.NewHubPublisher(hub), hub)
	ctx := context.Background()

	events, cleanup := svc.Subscribe(ctx, "emp-1")
	defer cleanup()
	assert.Equal(t, 1, hub.SubscriberCount("emp-1"))

	resp, err := svc.Notify(ctx, approval("emp-1"), now)
	require.NoError(t, err)

	event := <-events
	assert.Equal(t, notification.EventNewNotification, event.Event)
	delivered, ok := event.Data.(notification.NotificationResponse)
	require.True(t, ok)
	assert.Equal(t, resp.ID, delivered.ID)
}

func TestMarkAsRead(t *testing.T) {
	hub := sse.NewHub()
	svc := NewNotificationService(memory.NewNotificationRepository(), realtime.NewHubPublisher(hub), hub)
	ctx := context.Background()

	first, err := svc.Notify(ctx, approval("emp-1"), now)
	require.NoError(t, err)
	_, err = svc.Notify(ctx, approval("emp-1"), now)
	require.NoError(t, err)

	_, err = svc.MarkAsRead(ctx, first.ID, "emp-2")
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)

	read, err := svc.MarkAsRead(ctx, first.ID, "emp-1")
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	count, err := svc.GetUnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	updated, err := svc.MarkAllAsRead(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	list, err := svc.GetNotifications(ctx, "emp-1", 0, 0, true)
	require.NoError(t, err)
	assert.Empty(t, list.Notifications)
	assert.Equal(t, 0, list.UnreadCount)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 20, list.PageSize)
}

func TestSubscribe_CleanupDetachesStream(t *testing.T) {
	hub := sse.NewHub()
	svc := NewNotificationService(memory.NewNotificationRepository(), realtime.NewHubPublisher(hub), hub)
	ctx := context.Background()

	_, first := svc.Subscribe(ctx, "emp-1")
	_, second := svc.Subscribe(ctx, "emp-1")
	assert.Equal(t, 2, hub.SubscriberCount("emp-1"))

	first()
	first()
	assert.Equal(t, 1, hub.TotalSubscribers())

	second()
	assert.Equal(t, 0, hub.TotalSubscribers())
}
