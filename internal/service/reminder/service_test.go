package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification/mock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func at(hour int) time.Time {
	return time.Date(2024, 1, 15, hour, 0, 0, 0, time.UTC)
}

func setup(t *testing.T) (*Service, *memory.Store, *mock.MockEmitter) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	for _, e := range []employee.Employee{
		{ID: "emp-1", Name: "Alice", Email: "alice@example.com", Role: user.RoleEmployee, IsActive: true},
		{ID: "emp-2", Name: "Bob", Email: "bob@example.com", Role: user.RoleEmployee, IsActive: true},
		{ID: "emp-3", Name: "Carol", Email: "carol@example.com", Role: user.RoleEmployee, IsActive: true},
		{ID: "emp-4", Name: "Dave", Email: "dave@example.com", Role: user.RoleEmployee, IsActive: false},
	} {
		_, err := store.Employees.Create(ctx, e)
		require.NoError(t, err)
	}

	// Alice checked in, Bob is on approved leave, Carol has nothing
	_, err := store.Attendance.CheckIn(ctx, attendance.NewCheckIn("emp-1", at(9)))
	require.NoError(t, err)

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	req, err := store.LeaveRequests.CreateIfNoOverlap(ctx, leave.LeaveRequest{EmployeeID: "emp-2", StartDate: day, EndDate: day, Reason: "x", LeaveType: leave.LeaveTypeSick})
	require.NoError(t, err)
	_, err = store.LeaveRequests.UpdateStatus(ctx, req.ID, leave.StatusApproved, "admin", day)
	require.NoError(t, err)

	emitter := mock.NewMockEmitter(gomock.NewController(t))
	svc := NewService(store.Attendance, store.Employees, store.LeaveRequests, emitter, Config{
		CheckInHour:  10,
		CheckOutHour: 20,
		Location:     time.UTC,
	})
	return svc, store, emitter
}

func TestCheckInReminders(t *testing.T) {
	svc, store, emitter := setup(t)
	ctx := context.Background()

	// Too early: nothing happens
	sent, err := svc.CheckInReminders(ctx, at(9))
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	emitter.EXPECT().
		Notify(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req notification.CreateNotificationRequest, stamped time.Time) (notification.NotificationResponse, error) {
			assert.Equal(t, "emp-3", req.RecipientID)
			assert.Equal(t, notification.TypeAttendance, req.Type)
			assert.Equal(t, "Reminder: Please check in", req.Title)
			assert.True(t, stamped.Equal(at(10)))
			return notification.NotificationResponse{}, nil
		}).Times(1)

	sent, err = svc.CheckInReminders(ctx, at(10))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// Second run is a no-op
	sent, err = svc.CheckInReminders(ctx, at(11))
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	bob, err := store.Attendance.GetByEmployeeAndDay(ctx, "emp-2", day)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOnLeave, bob.Status)
	assert.Equal(t, attendance.StateNotStarted, bob.State())

	carol, err := store.Attendance.GetByEmployeeAndDay(ctx, "emp-3", day)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, carol.Status)
	assert.True(t, carol.CheckInReminderSent)

	_, err = store.Attendance.GetByEmployeeAndDay(ctx, "emp-4", day)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	// A late check-in still works on top of the placeholder
	late, err := store.Attendance.CheckIn(ctx, attendance.NewCheckIn("emp-3", at(12)))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, late.Status)
}

func TestCheckOutReminders(t *testing.T) {
	svc, _, emitter := setup(t)
	ctx := context.Background()

	sent, err := svc.CheckOutReminders(ctx, at(19))
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	emitter.EXPECT().
		Notify(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req notification.CreateNotificationRequest, stamped time.Time) (notification.NotificationResponse, error) {
			assert.Equal(t, "emp-1", req.RecipientID)
			assert.Equal(t, "Reminder: Please check out", req.Title)
			assert.Equal(t, "2024-01-15", req.Metadata["date"])
			assert.True(t, stamped.Equal(at(20)))
			return notification.NotificationResponse{}, nil
		}).Times(1)

	sent, err = svc.CheckOutReminders(ctx, at(20))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sent, err = svc.CheckOutReminders(ctx, at(21))
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}
