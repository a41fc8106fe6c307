package leave

import (
	"context"
	"time"
)

type LeaveService interface {
	// Apply validates and stores a new PENDING request for employeeID
	Apply(ctx context.Context, employeeID string, req ApplyLeaveRequest, now time.Time) (LeaveRequestResponse, error)

	// Decide approves or rejects a PENDING request and notifies the employee
	Decide(ctx context.Context, requestID string, req DecideLeaveRequest, adminID string, now time.Time) (LeaveRequestResponse, error)

	GetLeaveRequest(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	ListMyLeaveRequests(ctx context.Context, employeeID string, filter MyLeaveRequestFilter) (ListLeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	GetTodayOnLeave(ctx context.Context, department *string, now time.Time) (TodayLeaveResponse, error)
	GetMyStats(ctx context.Context, employeeID string, now time.Time) (LeaveStatsResponse, error)
}
