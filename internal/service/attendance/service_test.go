package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 15, hour, minute, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (attendance.AttendanceService, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	for _, e := range []employee.Employee{
		{ID: "emp-1", Name: "Alice", Email: "alice@example.com", Department: strPtr("Engineering"), Role: user.RoleEmployee, IsActive: true},
		{ID: "emp-2", Name: "Bob", Email: "bob@example.com", Role: user.RoleEmployee, IsActive: true},
	} {
		_, err := store.Employees.Create(context.Background(), e)
		require.NoError(t, err)
	}

	return NewAttendanceService(store.Attendance, store.Employees, time.UTC), store
}

func TestAttendanceService_FullDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.CheckIn(ctx, "emp-1", at(9, 0))
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StateCheckedIn), resp.State)
	assert.Equal(t, "2024-01-15", resp.Date)

	resp, err = svc.StartBreak(ctx, "emp-1", attendance.StartBreakRequest{BreakType: attendance.BreakTypeLunch}, at(12, 0))
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StateOnBreak), resp.State)

	resp, err = svc.EndBreak(ctx, "emp-1", at(12, 45))
	require.NoError(t, err)
	assert.Equal(t, 45, resp.TotalBreakMinutes)
	require.Len(t, resp.Breaks, 1)
	assert.Equal(t, "LUNCH_BREAK", resp.Breaks[0].BreakType)

	resp, err = svc.CheckOut(ctx, "emp-1", at(18, 0))
	require.NoError(t, err)
	require.NotNil(t, resp.WorkingMinutes)
	assert.Equal(t, 495, *resp.WorkingMinutes)
	assert.Equal(t, string(attendance.StateCheckedOut), resp.State)
}

func TestAttendanceService_StateErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CheckOut(ctx, "emp-1", at(9, 0))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = svc.StartBreak(ctx, "emp-1", attendance.StartBreakRequest{}, at(9, 0))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = svc.CheckIn(ctx, "emp-1", at(9, 0))
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, "emp-1", at(9, 5))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	_, err = svc.EndBreak(ctx, "emp-1", at(10, 0))
	assert.ErrorIs(t, err, attendance.ErrNoActiveBreak)

	_, err = svc.StartBreak(ctx, "emp-1", attendance.StartBreakRequest{}, at(10, 0))
	require.NoError(t, err)

	_, err = svc.StartBreak(ctx, "emp-1", attendance.StartBreakRequest{}, at(10, 5))
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyActive)

	_, err = svc.CheckOut(ctx, "emp-1", at(10, 10))
	assert.ErrorIs(t, err, attendance.ErrBreakInProgress)

	today, err := svc.GetMyToday(ctx, "emp-1", at(10, 11))
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StateOnBreak), today.State)
	require.NotNil(t, today.Attendance)
	assert.Nil(t, today.Attendance.CheckOut)
}

func TestAttendanceService_InvalidBreakType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "emp-1", at(9, 0))
	require.NoError(t, err)

	_, err = svc.StartBreak(ctx, "emp-1", attendance.StartBreakRequest{BreakType: "NAP"}, at(10, 0))
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestAttendanceService_UnknownEmployee(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CheckIn(context.Background(), "ghost", at(9, 0))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_InactiveEmployeeCannotCheckIn(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := store.Employees.Create(ctx, employee.Employee{
		ID: "emp-9", Name: "Former", Email: "former@example.com", Role: user.RoleEmployee, IsActive: false,
	})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, "emp-9", at(9, 0))
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)

	_, err = store.Attendance.GetByEmployeeAndDay(ctx, "emp-9", at(0, 0))
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceService_ConcurrentCheckInSingleWinner(t *testing.T) {
	svc, _ := newTestService(t)

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(context.Background(), "emp-1", at(9, 0))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, succeeded)
}

func TestAttendanceService_NextDayStartsFresh(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "emp-1", at(9, 0))
	require.NoError(t, err)
	_, err = svc.CheckOut(ctx, "emp-1", at(17, 0))
	require.NoError(t, err)

	tomorrow := at(9, 0).AddDate(0, 0, 1)
	today, err := svc.GetMyToday(ctx, "emp-1", tomorrow)
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StateNotStarted), today.State)
	assert.NotNil(t, today.Reminder)

	_, err = svc.CheckIn(ctx, "emp-1", tomorrow)
	assert.NoError(t, err)
}

func TestAttendanceService_TodayOverviewAndList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "emp-1", at(9, 0))
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, "emp-2", at(9, 30))
	require.NoError(t, err)
	_, err = svc.StartBreak(ctx, "emp-2", attendance.StartBreakRequest{}, at(11, 0))
	require.NoError(t, err)

	overview, err := svc.GetTodayOverview(ctx, at(11, 5))
	require.NoError(t, err)
	assert.Equal(t, 2, overview.Total)
	assert.Equal(t, 1, overview.CheckedIn)
	assert.Equal(t, 1, overview.OnBreak)
	assert.Equal(t, 0, overview.CheckedOut)

	list, err := svc.List(ctx, attendance.AttendanceFilter{Department: strPtr("Engineering"), Date: strPtr("2024-01-15")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, "1-1 of 1", list.Showing)
	require.Len(t, list.Attendances, 1)
	assert.Equal(t, "Alice", *list.Attendances[0].EmployeeName)

	history, err := svc.GetMyHistory(ctx, "emp-2", attendance.MyAttendanceFilter{StartDate: strPtr("2024-01-01"), EndDate: strPtr("2024-01-15")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), history.TotalCount)

	empty, err := svc.GetMyHistory(ctx, "emp-2", attendance.MyAttendanceFilter{StartDate: strPtr("2024-01-16")})
	require.NoError(t, err)
	assert.Equal(t, "0 of 0", empty.Showing)

	_, err = svc.List(ctx, attendance.AttendanceFilter{Date: strPtr("15/01/2024")})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestAttendanceService_GetEmployeeAttendance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetEmployeeAttendance(ctx, "emp-1", nil, at(12, 0))
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	_, err = svc.CheckIn(ctx, "emp-1", at(9, 0))
	require.NoError(t, err)

	resp, err := svc.GetEmployeeAttendance(ctx, "emp-1", strPtr("2024-01-15"), at(20, 0).AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, "emp-1", resp.EmployeeID)

	_, err = svc.GetEmployeeAttendance(ctx, "ghost", nil, at(12, 0))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_DayFollowsConfiguredZone(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	store := memory.NewStore()
	_, err := store.Employees.Create(context.Background(), employee.Employee{
		ID: "emp-1", Name: "Alice", Email: "alice@example.com", Role: user.RoleEmployee, IsActive: true,
	})
	require.NoError(t, err)
	svc := NewAttendanceService(store.Attendance, store.Employees, jakarta)
	ctx := context.Background()

	// 20:00 UTC on the 15th is 03:00 on the 16th in WIB
	lateUTC := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)
	resp, err := svc.CheckIn(ctx, "emp-1", lateUTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-16", resp.Date)

	today, err := svc.GetMyToday(ctx, "emp-1", lateUTC.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-16", today.Date)
	assert.Equal(t, string(attendance.StateCheckedIn), today.State)

	resp, err = svc.CheckOut(ctx, "emp-1", lateUTC.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-16", resp.Date)
}
