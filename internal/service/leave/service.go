package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	emitter  notification.Emitter
	location *time.Location
}

func NewLeaveService(
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	emitter notification.Emitter,
	location *time.Location,
) leave.LeaveService {
	if location == nil {
		location = time.Local
	}
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepo,
		EmployeeRepository:     employeeRepo,
		emitter:                emitter,
		location:               location,
	}
}

// Apply implements leave.LeaveService.
func (s *LeaveServiceImpl) Apply(ctx context.Context, employeeID string, req leave.ApplyLeaveRequest, now time.Time) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	startDate, err := timeutil.ParseDate(req.StartDate, s.location)
	if err != nil {
		return leave.LeaveRequestResponse{}, dateError("start_date")
	}
	endDate, err := timeutil.ParseDate(req.EndDate, s.location)
	if err != nil {
		return leave.LeaveRequestResponse{}, dateError("end_date")
	}

	if startDate.After(endDate) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidRange
	}

	today, _ := timeutil.DayWindow(now.In(s.location))
	if startDate.Before(today) {
		return leave.LeaveRequestResponse{}, leave.ErrPastDate
	}

	applicant, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !applicant.IsActive {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	created, err := s.LeaveRequestRepository.CreateIfNoOverlap(ctx, leave.LeaveRequest{
		EmployeeID: employeeID,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     req.Reason,
		LeaveType:  req.LeaveType,
		Status:     leave.StatusPending,
	})
	if err != nil {
		if errors.Is(err, leave.ErrOverlappingRequest) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.InfoContext(ctx, "Leave request submitted", "leave_request_id", created.ID, "employee_id", employeeID, "days", created.Days())
	return mapLeaveRequestToResponse(created), nil
}

// Decide implements leave.LeaveService.
func (s *LeaveServiceImpl) Decide(ctx context.Context, requestID string, req leave.DecideLeaveRequest, adminID string, now time.Time) (leave.LeaveRequestResponse, error) {
	if !req.Status.IsDecision() {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDecision
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	decided, err := s.LeaveRequestRepository.UpdateStatus(ctx, requestID, req.Status, adminID, now)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) || errors.Is(err, leave.ErrAlreadyDecided) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	slog.InfoContext(ctx, "Leave request decided", "leave_request_id", decided.ID, "status", decided.Status, "admin_id", adminID)

	// The decision is committed; a failed notification must not undo it.
	if _, err := s.emitter.Notify(ctx, decisionNotification(decided), now); err != nil {
		slog.ErrorContext(ctx, "Failed to notify leave decision", "leave_request_id", decided.ID, "error", err)
	}

	return mapLeaveRequestToResponse(decided), nil
}

func decisionNotification(request leave.LeaveRequest) notification.CreateNotificationRequest {
	title, verb, notifType := "Leave Approved", "approved", notification.TypeLeaveApproval
	if request.Status == leave.StatusRejected {
		title, verb, notifType = "Leave Rejected", "rejected", notification.TypeLeaveRejection
	}

	startDate := request.StartDate.Format(timeutil.DateLayout)
	endDate := request.EndDate.Format(timeutil.DateLayout)
	relatedID := request.ID

	return notification.CreateNotificationRequest{
		RecipientID: request.EmployeeID,
		Title:       title,
		Message:     fmt.Sprintf("Your leave request from %s to %s has been %s.", startDate, endDate, verb),
		Type:        notifType,
		RelatedID:   &relatedID,
		Metadata: map[string]interface{}{
			"leaveId":   request.ID,
			"startDate": startDate,
			"endDate":   endDate,
			"leaveType": string(request.LeaveType),
			"status":    string(request.Status),
		},
	}
}

// GetLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return mapLeaveRequestToResponse(request), nil
}

// ListMyLeaveRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMyLeaveRequests(ctx context.Context, employeeID string, filter leave.MyLeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	query := leave.ListQuery{
		EmployeeID: &employeeID,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	if filter.Status != nil {
		status := leave.Status(*filter.Status)
		query.Status = &status
	}
	return s.list(ctx, query)
}

// ListLeaveRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	query := leave.ListQuery{
		EmployeeID: filter.EmployeeID,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	if filter.Status != nil {
		status := leave.Status(*filter.Status)
		query.Status = &status
	}
	return s.list(ctx, query)
}

func (s *LeaveServiceImpl) list(ctx context.Context, query leave.ListQuery) (leave.ListLeaveRequestResponse, error) {
	requests, total, err := s.LeaveRequestRepository.List(ctx, query)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, mapLeaveRequestToResponse(r))
	}

	totalPages := int(math.Ceil(float64(total) / float64(query.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (query.Page-1)*query.Limit+1, min(query.Page*query.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return leave.ListLeaveRequestResponse{
		TotalCount:    total,
		Page:          query.Page,
		Limit:         query.Limit,
		TotalPages:    totalPages,
		Showing:       showing,
		LeaveRequests: responses,
	}, nil
}

// GetTodayOnLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) GetTodayOnLeave(ctx context.Context, department *string, now time.Time) (leave.TodayLeaveResponse, error) {
	today, _ := timeutil.DayWindow(now.In(s.location))

	requests, err := s.LeaveRequestRepository.ListApprovedOn(ctx, today, department)
	if err != nil {
		return leave.TodayLeaveResponse{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}

	counts := make(map[string]int)
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		dept := employee.UnassignedDepartment
		if r.EmployeeDepartment != nil && *r.EmployeeDepartment != "" {
			dept = *r.EmployeeDepartment
		}
		counts[dept]++
		responses = append(responses, mapLeaveRequestToResponse(r))
	}

	departments := make([]leave.DepartmentCount, 0, len(counts))
	for name, count := range counts {
		departments = append(departments, leave.DepartmentCount{Department: name, Count: count})
	}
	sort.Slice(departments, func(i, j int) bool { return departments[i].Department < departments[j].Department })

	return leave.TodayLeaveResponse{
		Date:          today.Format(timeutil.DateLayout),
		Total:         len(responses),
		Departments:   departments,
		LeaveRequests: responses,
	}, nil
}

// GetMyStats implements leave.LeaveService.
func (s *LeaveServiceImpl) GetMyStats(ctx context.Context, employeeID string, now time.Time) (leave.LeaveStatsResponse, error) {
	from, to := timeutil.YearWindow(now.In(s.location))

	stats, err := s.LeaveRequestRepository.StatsByStatus(ctx, employeeID, from, to)
	if err != nil {
		return leave.LeaveStatsResponse{}, fmt.Errorf("failed to get leave stats: %w", err)
	}

	// Always report every status, zero-filled
	byStatus := make(map[leave.Status]leave.StatusStat, len(stats))
	for _, st := range stats {
		byStatus[st.Status] = st
	}

	resp := leave.LeaveStatsResponse{Year: from.Year()}
	for _, status := range []leave.Status{leave.StatusPending, leave.StatusApproved, leave.StatusRejected} {
		st := byStatus[status]
		resp.Stats = append(resp.Stats, leave.StatusStatResponse{
			Status:    string(status),
			Count:     st.Count,
			TotalDays: st.TotalDays,
		})
	}
	return resp, nil
}

func dateError(field string) error {
	return validator.ValidationErrors{{
		Field:   field,
		Message: field + " must be in YYYY-MM-DD format",
	}}
}

func mapLeaveRequestToResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	var decidedAt *string
	if r.DecidedAt != nil {
		formatted := r.DecidedAt.Format(time.RFC3339)
		decidedAt = &formatted
	}

	return leave.LeaveRequestResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		EmployeeName:       r.EmployeeName,
		EmployeeEmail:      r.EmployeeEmail,
		EmployeeDepartment: r.EmployeeDepartment,
		StartDate:          r.StartDate.Format(timeutil.DateLayout),
		EndDate:            r.EndDate.Format(timeutil.DateLayout),
		TotalDays:          r.Days(),
		Reason:             r.Reason,
		LeaveType:          string(r.LeaveType),
		Status:             string(r.Status),
		ApprovedBy:         r.ApprovedBy,
		DecidedAt:          decidedAt,
		CreatedAt:          r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          r.UpdatedAt.Format(time.RFC3339),
	}
}
