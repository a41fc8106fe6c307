package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type StartBreakRequest struct {
	BreakType BreakType `json:"break_type" validate:"omitempty,oneof=SHORT_BREAK LUNCH_BREAK COFFEE_BREAK"`
}

func (r *StartBreakRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.BreakType == "" {
		r.BreakType = BreakTypeShort
	}
	return nil
}

type BreakResponse struct {
	Start           string  `json:"start"`
	End             *string `json:"end,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	BreakType       string  `json:"break_type"`
}

type AttendanceResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       *string         `json:"employee_name,omitempty"`
	EmployeeEmail      *string         `json:"employee_email,omitempty"`
	EmployeeDepartment *string         `json:"employee_department,omitempty"`
	Date               string          `json:"date"`
	CheckIn            *string         `json:"check_in,omitempty"`
	CheckOut           *string         `json:"check_out,omitempty"`
	Breaks             []BreakResponse `json:"breaks"`
	TotalBreakMinutes  int             `json:"total_break_minutes"`
	WorkingMinutes     *int            `json:"working_minutes,omitempty"`
	Status             string          `json:"status"`
	State              string          `json:"state"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

// ToResponse converts the record into its API shape
func (a Attendance) ToResponse() AttendanceResponse {
	breaks := make([]BreakResponse, 0, len(a.Breaks))
	for _, b := range a.Breaks {
		breaks = append(breaks, BreakResponse{
			Start:           b.Start.Format(time.RFC3339),
			End:             formatTime(b.End),
			DurationMinutes: b.DurationMinutes,
			BreakType:       string(b.BreakType),
		})
	}

	return AttendanceResponse{
		ID:                 a.ID,
		EmployeeID:         a.EmployeeID,
		EmployeeName:       a.EmployeeName,
		EmployeeEmail:      a.EmployeeEmail,
		EmployeeDepartment: a.EmployeeDepartment,
		Date:               a.Day.Format(timeutil.DateLayout),
		CheckIn:            formatTime(a.CheckIn),
		CheckOut:           formatTime(a.CheckOut),
		Breaks:             breaks,
		TotalBreakMinutes:  a.TotalBreakMinutes,
		WorkingMinutes:     a.WorkingMinutes,
		Status:             string(a.Status),
		State:              string(a.State()),
		CreatedAt:          a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          a.UpdatedAt.Format(time.RFC3339),
	}
}

// TodayResponse describes the caller's own employee-day. Attendance is nil
// until the first check-in.
type TodayResponse struct {
	Date       string              `json:"date"`
	State      string              `json:"state"`
	Attendance *AttendanceResponse `json:"attendance"`
	Reminder   *string             `json:"reminder,omitempty"`
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Department *string `json:"department,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	errs := validator.Pagination(&f.Page, &f.Limit)

	if f.Status != nil {
		validStatuses := []string{string(StatusPresent), string(StatusAbsent), string(StatusOnLeave)}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: PRESENT, ABSENT, ON_LEAVE",
			})
		}
	}

	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MyAttendanceFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *MyAttendanceFilter) Validate() error {
	errs := validator.Pagination(&f.Page, &f.Limit)
	errs = append(errs, validateDates(nil, f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateDates(date, startDate, endDate *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	fields := []struct {
		name  string
		value *string
	}{
		{"date", date},
		{"start_date", startDate},
		{"end_date", endDate},
	}
	for _, f := range fields {
		if f.value == nil || *f.value == "" {
			continue
		}
		if _, valid := validator.IsValidDate(*f.value); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   f.name,
				Message: f.name + " must be in YYYY-MM-DD format",
			})
		}
	}
	return errs
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// TodayOverview is the admin view of every record for the current day.
type TodayOverview struct {
	Date        string               `json:"date"`
	Total       int                  `json:"total"`
	CheckedIn   int                  `json:"checked_in"`
	OnBreak     int                  `json:"on_break"`
	CheckedOut  int                  `json:"checked_out"`
	Attendances []AttendanceResponse `json:"attendances"`
}
