package employee

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
	Role       string  `json:"role"`
	IsActive   bool    `json:"is_active"`
	CreatedAt  string  `json:"created_at"`
}

type EmployeeFilter struct {
	Department *string `json:"department,omitempty"`
	Search     *string `json:"search,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	if errs := validator.Pagination(&f.Page, &f.Limit); len(errs) > 0 {
		return errs
	}
	return nil
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

// CreateEmployeeRequest registers an employee profile. Login credentials are
// provisioned by the identity provider, not here.
type CreateEmployeeRequest struct {
	Name       string  `json:"name" validate:"required,max=255"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=100"`
	Position   *string `json:"position,omitempty" validate:"omitempty,max=100"`
	Role       string  `json:"role,omitempty" validate:"omitempty,oneof=ADMIN EMPLOYEE"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Role == "" {
		r.Role = string(user.RoleEmployee)
	}
	return validator.Struct(r)
}

// UpdateEmployeeRequest is a partial update; nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=100"`
	Position   *string `json:"position,omitempty" validate:"omitempty,max=100"`
	Role       *string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN EMPLOYEE"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	if r.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &normalized
	}
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Name == nil && r.Email == nil && r.Department == nil && r.Position == nil && r.Role == nil && r.IsActive == nil {
		return validator.ValidationErrors{{Field: "body", Message: "at least one field must be provided"}}
	}
	return nil
}

// Apply copies the set fields onto e
func (r UpdateEmployeeRequest) Apply(e *Employee) {
	if r.Name != nil {
		e.Name = *r.Name
	}
	if r.Email != nil {
		e.Email = *r.Email
	}
	if r.Department != nil {
		e.Department = r.Department
	}
	if r.Position != nil {
		e.Position = r.Position
	}
	if r.Role != nil {
		e.Role = user.Role(*r.Role)
	}
	if r.IsActive != nil {
		e.IsActive = *r.IsActive
	}
}

// AttendanceRate summarizes the recent history window. TotalDays is capped
// by the employee's tenure so new joiners are not penalized.
type AttendanceRate struct {
	TotalDays      int `json:"total_days"`
	PresentDays    int `json:"present_days"`
	AttendanceRate int `json:"attendance_rate"`
}

type EmployeeDetailResponse struct {
	Employee        EmployeeResponse                `json:"employee"`
	TodayAttendance *attendance.AttendanceResponse  `json:"today_attendance"`
	History         []attendance.AttendanceResponse `json:"history"`
	Stats           AttendanceRate                  `json:"stats"`
}
