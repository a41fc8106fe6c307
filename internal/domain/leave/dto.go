package leave

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// LEAVE REQUEST DTOs
// ========================================

type ApplyLeaveRequest struct {
	StartDate string    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string    `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string    `json:"reason" validate:"required,max=500"`
	LeaveType LeaveType `json:"leave_type" validate:"required,oneof=SICK_LEAVE CASUAL_LEAVE EARNED_LEAVE MATERNITY_LEAVE PATERNITY_LEAVE OTHER"`
}

func (r *ApplyLeaveRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	return validator.Struct(r)
}

type DecideLeaveRequest struct {
	Status Status `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

func (r *DecideLeaveRequest) Validate() error {
	return validator.Struct(r)
}

type LeaveRequestResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       *string `json:"employee_name,omitempty"`
	EmployeeEmail      *string `json:"employee_email,omitempty"`
	EmployeeDepartment *string `json:"employee_department,omitempty"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	TotalDays          int     `json:"total_days"`
	Reason             string  `json:"reason"`
	LeaveType          string  `json:"leave_type"`
	Status             string  `json:"status"`
	ApprovedBy         *string `json:"approved_by,omitempty"`
	DecidedAt          *string `json:"decided_at,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

type LeaveRequestFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveRequestFilter) Validate() error {
	errs := validator.Pagination(&f.Page, &f.Limit)
	errs = append(errs, validateStatus(f.Status)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MyLeaveRequestFilter struct {
	Status *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *MyLeaveRequestFilter) Validate() error {
	errs := validator.Pagination(&f.Page, &f.Limit)
	errs = append(errs, validateStatus(f.Status)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateStatus(status *string) validator.ValidationErrors {
	if status == nil {
		return nil
	}
	valid := []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}
	if !validator.IsInSlice(*status, valid) {
		return validator.ValidationErrors{{
			Field:   "status",
			Message: "status must be one of: PENDING, APPROVED, REJECTED",
		}}
	}
	return nil
}

type ListLeaveRequestResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	Showing       string                 `json:"showing"`
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// TodayLeaveResponse lists approved leaves covering the current day.
type TodayLeaveResponse struct {
	Date          string                 `json:"date"`
	Total         int                    `json:"total"`
	Departments   []DepartmentCount      `json:"departments"`
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}

type StatusStatResponse struct {
	Status    string `json:"status"`
	Count     int    `json:"count"`
	TotalDays int    `json:"total_days"`
}

type LeaveStatsResponse struct {
	Year  int                  `json:"year"`
	Stats []StatusStatResponse `json:"stats"`
}
