package report

import (
	"context"
	"time"
)

// ReportRepository defines the interface for report data access. All ranges
// are half-open [from, to).
type ReportRepository interface {
	GetAttendanceSummary(ctx context.Context, employeeID string, from, to time.Time) (AttendanceSummary, error)

	// GetApprovedLeaveDays sums inclusive days of approved requests starting in the range
	GetApprovedLeaveDays(ctx context.Context, employeeID string, from, to time.Time) (int, error)

	GetDailyOverview(ctx context.Context, day time.Time) (DailyOverview, error)
	GetDepartmentBreakdown(ctx context.Context, day time.Time) ([]DepartmentAttendance, error)
	CountPendingLeaves(ctx context.Context) (int, error)

	GetMonthlyAttendance(ctx context.Context, from, to time.Time, department *string) ([]MonthlyAttendanceEmployee, error)
	GetAttendanceRows(ctx context.Context, from, to time.Time, department *string) ([]AttendanceRow, error)
}
