package leave

import (
	"context"
	"time"
)

type ListQuery struct {
	EmployeeID *string
	Status     *Status
	Page       int
	Limit      int
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	// CreateIfNoOverlap inserts a PENDING request unless a PENDING or APPROVED
	// request of the same employee overlaps it, in which case it returns
	// ErrOverlappingRequest. Check and insert are serialized per employee.
	CreateIfNoOverlap(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// UpdateStatus moves a PENDING request to status. Returns
	// ErrLeaveRequestNotFound or ErrAlreadyDecided without mutating anything.
	UpdateStatus(ctx context.Context, id string, status Status, approvedBy string, decidedAt time.Time) (LeaveRequest, error)

	List(ctx context.Context, query ListQuery) ([]LeaveRequest, int64, error)

	// ListApprovedOn returns approved requests covering day, joined with
	// employee details, optionally limited to one department.
	ListApprovedOn(ctx context.Context, day time.Time, department *string) ([]LeaveRequest, error)

	// StatsByStatus groups an employee's requests starting in [from, to).
	StatsByStatus(ctx context.Context, employeeID string, from, to time.Time) ([]StatusStat, error)
}
