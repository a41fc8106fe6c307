package report

import (
	"context"
	"io"
	"time"
)

// ReportService defines the interface for read-only reporting
type ReportService interface {
	// GetEmployeeStats summarizes the current month and year for one employee
	GetEmployeeStats(ctx context.Context, employeeID string, now time.Time) (EmployeeStatsResponse, error)

	// GetDashboard returns today's company-wide figures (admin)
	GetDashboard(ctx context.Context, now time.Time) (DashboardResponse, error)

	// Generate Monthly Attendance Report, stamped with now
	GenerateMonthlyAttendanceReport(ctx context.Context, req MonthlyAttendanceReportRequest, now time.Time) (MonthlyAttendanceReport, error)

	// ExportMonthlyAttendance writes the monthly report as an XLSX workbook
	ExportMonthlyAttendance(ctx context.Context, req MonthlyAttendanceReportRequest, now time.Time, w io.Writer) error
}
