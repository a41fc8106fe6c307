package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/google/uuid"
)

type LeaveRequestRepository struct {
	mu        sync.Mutex
	requests  map[string]leave.LeaveRequest
	employees *EmployeeRepository
}

func NewLeaveRequestRepository(employees *EmployeeRepository) *LeaveRequestRepository {
	return &LeaveRequestRepository{
		requests:  make(map[string]leave.LeaveRequest),
		employees: employees,
	}
}

func (r *LeaveRequestRepository) join(l leave.LeaveRequest) leave.LeaveRequest {
	l.ApprovedBy = copyString(l.ApprovedBy)
	l.DecidedAt = copyTime(l.DecidedAt)
	if e, ok := r.employees.lookup(l.EmployeeID); ok {
		name, email, dept := e.Name, e.Email, e.DepartmentOrDefault()
		l.EmployeeName = &name
		l.EmployeeEmail = &email
		l.EmployeeDepartment = &dept
	}
	return l
}

func (r *LeaveRequestRepository) CreateIfNoOverlap(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.requests {
		if existing.EmployeeID != request.EmployeeID || !existing.BlocksOverlap() {
			continue
		}
		if existing.Overlaps(request.StartDate, request.EndDate) {
			return leave.LeaveRequest{}, leave.ErrOverlappingRequest
		}
	}

	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	now := time.Now()
	request.Status = leave.StatusPending
	request.CreatedAt = now
	request.UpdatedAt = now
	r.requests[request.ID] = request
	return r.join(request), nil
}

func (r *LeaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.join(l), nil
}

func (r *LeaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.Status, approvedBy string, decidedAt time.Time) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if l.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrAlreadyDecided
	}

	decided := decidedAt
	admin := approvedBy
	l.Status = status
	l.ApprovedBy = &admin
	l.DecidedAt = &decided
	l.UpdatedAt = time.Now()
	r.requests[id] = l
	return r.join(l), nil
}

func (r *LeaveRequestRepository) List(ctx context.Context, query leave.ListQuery) ([]leave.LeaveRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []leave.LeaveRequest
	for _, l := range r.requests {
		if query.EmployeeID != nil && l.EmployeeID != *query.EmployeeID {
			continue
		}
		if query.Status != nil && l.Status != *query.Status {
			continue
		}
		matched = append(matched, r.join(l))
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	start, end := page(len(matched), query.Page, query.Limit)
	return matched[start:end], int64(len(matched)), nil
}

func (r *LeaveRequestRepository) ListApprovedOn(ctx context.Context, day time.Time, department *string) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []leave.LeaveRequest
	for _, l := range r.requests {
		if l.Status != leave.StatusApproved || !l.Overlaps(day, day) {
			continue
		}
		joined := r.join(l)
		if department != nil && (joined.EmployeeDepartment == nil || *joined.EmployeeDepartment != *department) {
			continue
		}
		out = append(out, joined)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

func (r *LeaveRequestRepository) StatsByStatus(ctx context.Context, employeeID string, from, to time.Time) ([]leave.StatusStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byStatus := make(map[leave.Status]*leave.StatusStat)
	for _, l := range r.requests {
		if l.EmployeeID != employeeID || l.StartDate.Before(from) || !l.StartDate.Before(to) {
			continue
		}
		stat, ok := byStatus[l.Status]
		if !ok {
			stat = &leave.StatusStat{Status: l.Status}
			byStatus[l.Status] = stat
		}
		stat.Count++
		stat.TotalDays += l.Days()
	}

	out := make([]leave.StatusStat, 0, len(byStatus))
	for _, s := range byStatus {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (r *LeaveRequestRepository) all() []leave.LeaveRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]leave.LeaveRequest, 0, len(r.requests))
	for _, l := range r.requests {
		out = append(out, r.join(l))
	}
	return out
}
