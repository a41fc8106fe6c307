package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// MONTHLY ATTENDANCE REPORT
// ========================================

type MonthlyAttendanceReportRequest struct {
	Month      int     `json:"month"`
	Year       int     `json:"year"`
	Department *string `json:"department,omitempty"`
}

// Validate bounds the year by the one following now
func (r *MonthlyAttendanceReportRequest) Validate(now time.Time) error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := now.Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyAttendanceReport struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	Employees []MonthlyAttendanceEmployee `json:"employees"`
}

// MonthlyAttendanceEmployee aggregates one employee's month.
type MonthlyAttendanceEmployee struct {
	EmployeeID        string  `json:"employee_id"`
	EmployeeName      string  `json:"employee_name"`
	Department        string  `json:"department"`
	PresentDays       int     `json:"present_days"`
	AbsentDays        int     `json:"absent_days"`
	OnLeaveDays       int     `json:"on_leave_days"`
	TotalWorkMinutes  int     `json:"total_work_minutes"`
	TotalBreakMinutes int     `json:"total_break_minutes"`
	AvgWorkMinutes    float64 `json:"avg_work_minutes"`
}

// AttendanceRow is one employee-day in the spreadsheet export.
type AttendanceRow struct {
	EmployeeName      string
	EmployeeEmail     string
	Department        string
	Day               time.Time
	CheckIn           *time.Time
	CheckOut          *time.Time
	BreakCount        int
	TotalBreakMinutes int
	WorkingMinutes    *int
	Status            string
}

// ========================================
// EMPLOYEE STATS
// ========================================

type AttendanceSummary struct {
	PresentDays      int
	AbsentDays       int
	CompletedDays    int
	TotalWorkMinutes int
}

type EmployeeStatsResponse struct {
	EmployeeID        string  `json:"employee_id"`
	Month             string  `json:"month"`
	Year              int     `json:"year"`
	PresentDays       int     `json:"present_days"`
	AbsentDays        int     `json:"absent_days"`
	AvgWorkMinutes    float64 `json:"avg_work_minutes"`
	AvgWorkHours      float64 `json:"avg_work_hours"`
	ApprovedLeaveDays int     `json:"approved_leave_days"`
}

// ========================================
// ADMIN DASHBOARD
// ========================================

type DailyOverview struct {
	TotalEmployees int
	CheckedIn      int
	OnBreak        int
	CheckedOut     int
	OnLeave        int
}

type DepartmentAttendance struct {
	Department string `json:"department"`
	Employees  int    `json:"employees"`
	Present    int    `json:"present"`
	OnLeave    int    `json:"on_leave"`
}

type DashboardResponse struct {
	Date           string                 `json:"date"`
	TotalEmployees int                    `json:"total_employees"`
	Present        int                    `json:"present"`
	OnBreak        int                    `json:"on_break"`
	CheckedOut     int                    `json:"checked_out"`
	OnLeave        int                    `json:"on_leave"`
	Absent         int                    `json:"absent"`
	PendingLeaves  int                    `json:"pending_leaves"`
	Departments    []DepartmentAttendance `json:"departments"`
}
