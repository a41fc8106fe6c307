package employee

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// Employee is the identity record attendance and leave rows point at.
// Accounts are provisioned outside this service.
type Employee struct {
	ID         string
	Name       string
	Email      string
	Department *string
	Position   *string
	Role       user.Role
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DepartmentOrDefault returns the department name used in breakdowns.
func (e Employee) DepartmentOrDefault() string {
	if e.Department == nil || *e.Department == "" {
		return UnassignedDepartment
	}
	return *e.Department
}

// UnassignedDepartment groups employees without a department.
const UnassignedDepartment = "Unassigned"
