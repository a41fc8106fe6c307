package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type AttendanceRepository struct {
	mu        sync.Mutex
	records   map[string]attendance.Attendance
	employees *EmployeeRepository
}

// NewAttendanceRepository creates the store. employees may be nil, in which
// case joined employee fields stay empty.
func NewAttendanceRepository(employees *EmployeeRepository) *AttendanceRepository {
	return &AttendanceRepository{
		records:   make(map[string]attendance.Attendance),
		employees: employees,
	}
}

func cloneAttendance(a attendance.Attendance) attendance.Attendance {
	out := a
	out.CheckIn = copyTime(a.CheckIn)
	out.CheckOut = copyTime(a.CheckOut)
	out.WorkingMinutes = copyInt(a.WorkingMinutes)
	out.Breaks = make([]attendance.Break, len(a.Breaks))
	for i, b := range a.Breaks {
		out.Breaks[i] = attendance.Break{
			Start:           b.Start,
			End:             copyTime(b.End),
			DurationMinutes: copyInt(b.DurationMinutes),
			BreakType:       b.BreakType,
		}
	}
	return out
}

func (r *AttendanceRepository) join(a attendance.Attendance) attendance.Attendance {
	if e, ok := r.employees.lookup(a.EmployeeID); ok {
		name, email, dept := e.Name, e.Email, e.DepartmentOrDefault()
		a.EmployeeName = &name
		a.EmployeeEmail = &email
		a.EmployeeDepartment = &dept
	}
	return a
}

func (r *AttendanceRepository) CheckIn(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey(a.EmployeeID, a.Day)
	now := time.Now()

	existing, ok := r.records[key]
	if ok {
		if existing.CheckIn != nil {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		existing.CheckIn = copyTime(a.CheckIn)
		existing.Status = attendance.StatusPresent
		existing.UpdatedAt = now
		r.records[key] = existing
		return cloneAttendance(existing), nil
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Breaks == nil {
		a.Breaks = []attendance.Break{}
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	r.records[key] = cloneAttendance(a)
	return cloneAttendance(a), nil
}

func (r *AttendanceRepository) UpdateForDay(ctx context.Context, employeeID string, day time.Time, fn func(*attendance.Attendance) error) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey(employeeID, day)
	existing, ok := r.records[key]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	working := cloneAttendance(existing)
	if err := fn(&working); err != nil {
		return attendance.Attendance{}, err
	}
	working.UpdatedAt = time.Now()
	r.records[key] = cloneAttendance(working)
	return working, nil
}

func (r *AttendanceRepository) GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.records[dayKey(employeeID, day)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.join(cloneAttendance(a)), nil
}

func (r *AttendanceRepository) ListByDay(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []attendance.Attendance
	for _, a := range r.records {
		if a.Day.Equal(day) {
			out = append(out, r.join(cloneAttendance(a)))
		}
	}
	sortByCheckIn(out)
	return out, nil
}

func (r *AttendanceRepository) List(ctx context.Context, query attendance.ListQuery) ([]attendance.Attendance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []attendance.Attendance
	for _, a := range r.records {
		if query.EmployeeID != nil && a.EmployeeID != *query.EmployeeID {
			continue
		}
		if query.From != nil && a.Day.Before(*query.From) {
			continue
		}
		if query.To != nil && !a.Day.Before(*query.To) {
			continue
		}
		if query.Status != nil && a.Status != *query.Status {
			continue
		}
		joined := r.join(cloneAttendance(a))
		if query.Department != nil && (joined.EmployeeDepartment == nil || *joined.EmployeeDepartment != *query.Department) {
			continue
		}
		matched = append(matched, joined)
	}

	// Newest day first, then by check-in
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Day.Equal(matched[j].Day) {
			return matched[i].Day.After(matched[j].Day)
		}
		return matched[i].EmployeeID < matched[j].EmployeeID
	})

	start, end := page(len(matched), query.Page, query.Limit)
	return matched[start:end], int64(len(matched)), nil
}

func (r *AttendanceRepository) CreatePlaceholder(ctx context.Context, a attendance.Attendance) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey(a.EmployeeID, a.Day)
	if _, ok := r.records[key]; ok {
		return false, nil
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Breaks == nil {
		a.Breaks = []attendance.Break{}
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.records[key] = cloneAttendance(a)
	return true, nil
}

func (r *AttendanceRepository) ListPendingCheckOut(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []attendance.Attendance
	for _, a := range r.records {
		if a.Day.Equal(day) && a.CheckIn != nil && a.CheckOut == nil && !a.CheckOutReminderSent {
			out = append(out, cloneAttendance(a))
		}
	}
	sortByCheckIn(out)
	return out, nil
}

func (r *AttendanceRepository) MarkCheckOutReminderSent(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, a := range r.records {
		if a.ID != id {
			continue
		}
		if a.CheckOutReminderSent {
			return false, nil
		}
		a.CheckOutReminderSent = true
		a.UpdatedAt = time.Now()
		r.records[key] = a
		return true, nil
	}
	return false, attendance.ErrAttendanceNotFound
}

// all returns a snapshot of every record, used by the report repository.
func (r *AttendanceRepository) all() []attendance.Attendance {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]attendance.Attendance, 0, len(r.records))
	for _, a := range r.records {
		out = append(out, r.join(cloneAttendance(a)))
	}
	return out
}

func sortByCheckIn(list []attendance.Attendance) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].CheckIn, list[j].CheckIn
		switch {
		case a == nil && b == nil:
			return list[i].EmployeeID < list[j].EmployeeID
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}
