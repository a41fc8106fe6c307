package leave

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
)

type LeaveType string

const (
	LeaveTypeSick      LeaveType = "SICK_LEAVE"
	LeaveTypeCasual    LeaveType = "CASUAL_LEAVE"
	LeaveTypeEarned    LeaveType = "EARNED_LEAVE"
	LeaveTypeMaternity LeaveType = "MATERNITY_LEAVE"
	LeaveTypePaternity LeaveType = "PATERNITY_LEAVE"
	LeaveTypeOther     LeaveType = "OTHER"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsDecision reports whether s is a valid outcome of an admin decision.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// LeaveRequest entity. StartDate and EndDate are inclusive calendar dates
// normalized to midnight.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	LeaveType  LeaveType
	Status     Status
	ApprovedBy *string
	DecidedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined fields
	EmployeeName       *string
	EmployeeEmail      *string
	EmployeeDepartment *string
}

// BlocksOverlap reports whether the request takes part in overlap checks.
// Rejected requests never block a new application.
func (l LeaveRequest) BlocksOverlap() bool {
	return l.Status == StatusPending || l.Status == StatusApproved
}

// Overlaps applies the closed-interval test against [start, end].
func (l LeaveRequest) Overlaps(start, end time.Time) bool {
	return !l.StartDate.After(end) && !l.EndDate.Before(start)
}

// Days is the inclusive number of calendar days covered.
func (l LeaveRequest) Days() int {
	return timeutil.InclusiveDays(l.StartDate, l.EndDate)
}

// StatusStat aggregates requests of one status.
type StatusStat struct {
	Status    Status
	Count     int
	TotalDays int
}
