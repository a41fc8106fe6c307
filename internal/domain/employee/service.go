package employee

import (
	"context"
	"time"
)

type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// GetEmployee returns the profile with today's record, the last seven
	// days of history and the attendance rate over that window
	GetEmployee(ctx context.Context, id string, now time.Time) (EmployeeDetailResponse, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeactivateEmployee is a soft delete. History is kept and the employee
	// drops out of reminders and dashboards.
	DeactivateEmployee(ctx context.Context, id, actorID string) (EmployeeResponse, error)
}
