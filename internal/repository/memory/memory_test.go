package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepository_ConcurrentCheckIn(t *testing.T) {
	repo := NewAttendanceRepository(nil)
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	var ok, conflict int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CheckIn(context.Background(), attendance.NewCheckIn("emp-1", now))
			switch err {
			case nil:
				atomic.AddInt32(&ok, 1)
			case attendance.ErrAlreadyCheckedIn:
				atomic.AddInt32(&conflict, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(19), conflict)
}

func TestAttendanceRepository_CheckInFillsPlaceholder(t *testing.T) {
	repo := NewAttendanceRepository(nil)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC)
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	created, err := repo.CreatePlaceholder(ctx, attendance.Attendance{EmployeeID: "emp-1", Day: day, Status: attendance.StatusAbsent, CheckInReminderSent: true})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreatePlaceholder(ctx, attendance.Attendance{EmployeeID: "emp-1", Day: day, Status: attendance.StatusAbsent})
	require.NoError(t, err)
	assert.False(t, created)

	record, err := repo.CheckIn(ctx, attendance.NewCheckIn("emp-1", now))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, record.Status)
	assert.True(t, record.CheckInReminderSent)
	require.NotNil(t, record.CheckIn)
}

func TestAttendanceRepository_UpdateForDayErrorLeavesRecordUntouched(t *testing.T) {
	repo := NewAttendanceRepository(nil)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	_, err := repo.CheckIn(ctx, attendance.NewCheckIn("emp-1", now))
	require.NoError(t, err)

	_, err = repo.UpdateForDay(ctx, "emp-1", now.Truncate(24*time.Hour), func(a *attendance.Attendance) error {
		a.Breaks = append(a.Breaks, attendance.Break{Start: now})
		return attendance.ErrBreakAlreadyActive
	})
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyActive)

	stored, err := repo.GetByEmployeeAndDay(ctx, "emp-1", now.Truncate(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stored.Breaks)
}

func TestAttendanceRepository_MarkCheckOutReminderSentOnce(t *testing.T) {
	repo := NewAttendanceRepository(nil)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	record, err := repo.CheckIn(ctx, attendance.NewCheckIn("emp-1", now))
	require.NoError(t, err)

	flipped, err := repo.MarkCheckOutReminderSent(ctx, record.ID)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = repo.MarkCheckOutReminderSent(ctx, record.ID)
	require.NoError(t, err)
	assert.False(t, flipped)

	pending, err := repo.ListPendingCheckOut(ctx, record.Day)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestLeaveRequestRepository_ConcurrentOverlapAdmitsOne(t *testing.T) {
	repo := NewLeaveRequestRepository(nil)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	var ok int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateIfNoOverlap(context.Background(), leave.LeaveRequest{
				EmployeeID: "emp-1",
				StartDate:  start,
				EndDate:    end,
				Reason:     "trip",
				LeaveType:  leave.LeaveTypeCasual,
			})
			if err == nil {
				atomic.AddInt32(&ok, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok)
}

func TestLeaveRequestRepository_UpdateStatusOnlyFromPending(t *testing.T) {
	repo := NewLeaveRequestRepository(nil)
	ctx := context.Background()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	created, err := repo.CreateIfNoOverlap(ctx, leave.LeaveRequest{EmployeeID: "emp-1", StartDate: day, EndDate: day, Reason: "x", LeaveType: leave.LeaveTypeSick})
	require.NoError(t, err)

	decided, err := repo.UpdateStatus(ctx, created.ID, leave.StatusRejected, "admin-1", day)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, decided.Status)

	_, err = repo.UpdateStatus(ctx, created.ID, leave.StatusApproved, "admin-1", day)
	assert.ErrorIs(t, err, leave.ErrAlreadyDecided)

	_, err = repo.UpdateStatus(ctx, "missing", leave.StatusApproved, "admin-1", day)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	// A rejected request no longer blocks the same dates
	_, err = repo.CreateIfNoOverlap(ctx, leave.LeaveRequest{EmployeeID: "emp-1", StartDate: day, EndDate: day, Reason: "x", LeaveType: leave.LeaveTypeSick})
	assert.NoError(t, err)
}
