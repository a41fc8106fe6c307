package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations.
// Every mutating call takes the current time once; "today" is derived from it.
type AttendanceService interface {
	CheckIn(ctx context.Context, employeeID string, now time.Time) (AttendanceResponse, error)
	CheckOut(ctx context.Context, employeeID string, now time.Time) (AttendanceResponse, error)
	StartBreak(ctx context.Context, employeeID string, req StartBreakRequest, now time.Time) (AttendanceResponse, error)
	EndBreak(ctx context.Context, employeeID string, now time.Time) (AttendanceResponse, error)

	// GetMyToday returns the caller's record for today, if any
	GetMyToday(ctx context.Context, employeeID string, now time.Time) (TodayResponse, error)

	// GetTodayOverview lists all records of today (admin)
	GetTodayOverview(ctx context.Context, now time.Time) (TodayOverview, error)

	// GetMyHistory retrieves attendance records for the authenticated employee
	GetMyHistory(ctx context.Context, employeeID string, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// List retrieves attendance records with filters (admin)
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetEmployeeAttendance returns one employee's record for a date, defaulting to today
	GetEmployeeAttendance(ctx context.Context, employeeID string, date *string, now time.Time) (AttendanceResponse, error)
}
