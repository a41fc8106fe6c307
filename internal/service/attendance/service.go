package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	location *time.Location
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	location *time.Location,
) attendance.AttendanceService {
	if location == nil {
		location = time.Local
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		location:             location,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string, now time.Time) (attendance.AttendanceResponse, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !emp.IsActive {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeInactive
	}

	// The business day follows the configured zone, not the caller's clock
	now = now.In(a.location)
	record, err := a.AttendanceRepository.CheckIn(ctx, attendance.NewCheckIn(employeeID, now))
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check in: %w", err)
	}

	slog.InfoContext(ctx, "Employee checked in", "employee_id", employeeID, "attendance_id", record.ID)
	return record.ToResponse(), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string, now time.Time) (attendance.AttendanceResponse, error) {
	now = now.In(a.location)
	record, err := a.mutateToday(ctx, employeeID, now, func(rec *attendance.Attendance) error {
		return rec.Checkout(now)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.InfoContext(ctx, "Employee checked out", "employee_id", employeeID, "working_minutes", *record.WorkingMinutes)
	return record.ToResponse(), nil
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, employeeID string, req attendance.StartBreakRequest, now time.Time) (attendance.AttendanceResponse, error) {
	now = now.In(a.location)
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.mutateToday(ctx, employeeID, now, func(rec *attendance.Attendance) error {
		return rec.StartBreak(now, req.BreakType)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return record.ToResponse(), nil
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context, employeeID string, now time.Time) (attendance.AttendanceResponse, error) {
	now = now.In(a.location)
	record, err := a.mutateToday(ctx, employeeID, now, func(rec *attendance.Attendance) error {
		return rec.EndBreak(now)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return record.ToResponse(), nil
}

// mutateToday runs fn against today's record inside the repository's atomic
// update. A missing record means the employee never checked in.
func (a *AttendanceServiceImpl) mutateToday(ctx context.Context, employeeID string, now time.Time, fn func(*attendance.Attendance) error) (attendance.Attendance, error) {
	day, _ := timeutil.DayWindow(now)

	record, err := a.AttendanceRepository.UpdateForDay(ctx, employeeID, day, fn)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		if isDomainError(err) {
			return attendance.Attendance{}, err
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return record, nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		attendance.ErrNotCheckedIn,
		attendance.ErrAlreadyCheckedOut,
		attendance.ErrBreakInProgress,
		attendance.ErrBreakAlreadyActive,
		attendance.ErrNoActiveBreak,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetMyToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyToday(ctx context.Context, employeeID string, now time.Time) (attendance.TodayResponse, error) {
	now = now.In(a.location)
	day, _ := timeutil.DayWindow(now)
	resp := attendance.TodayResponse{
		Date:  day.Format(timeutil.DateLayout),
		State: string(attendance.StateNotStarted),
	}

	record, err := a.AttendanceRepository.GetByEmployeeAndDay(ctx, employeeID, day)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if err == nil {
		mapped := record.ToResponse()
		resp.Attendance = &mapped
		resp.State = string(record.State())
	}

	if resp.State == string(attendance.StateNotStarted) {
		reminder := "You have not checked in today"
		resp.Reminder = &reminder
	}
	return resp, nil
}

// GetTodayOverview implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayOverview(ctx context.Context, now time.Time) (attendance.TodayOverview, error) {
	now = now.In(a.location)
	day, _ := timeutil.DayWindow(now)

	records, err := a.AttendanceRepository.ListByDay(ctx, day)
	if err != nil {
		return attendance.TodayOverview{}, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	overview := attendance.TodayOverview{
		Date:        day.Format(timeutil.DateLayout),
		Total:       len(records),
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for i := range records {
		switch records[i].State() {
		case attendance.StateCheckedIn:
			overview.CheckedIn++
		case attendance.StateOnBreak:
			overview.OnBreak++
		case attendance.StateCheckedOut:
			overview.CheckedOut++
		}
		overview.Attendances = append(overview.Attendances, records[i].ToResponse())
	}
	return overview, nil
}

// GetMyHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyHistory(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	query := attendance.ListQuery{
		EmployeeID: &employeeID,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	if err := a.applyRange(&query, nil, filter.StartDate, filter.EndDate); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return a.list(ctx, query)
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	query := attendance.ListQuery{
		EmployeeID: filter.EmployeeID,
		Department: filter.Department,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	if filter.Status != nil {
		status := attendance.Status(*filter.Status)
		query.Status = &status
	}
	if err := a.applyRange(&query, filter.Date, filter.StartDate, filter.EndDate); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return a.list(ctx, query)
}

// GetEmployeeAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetEmployeeAttendance(ctx context.Context, employeeID string, date *string, now time.Time) (attendance.AttendanceResponse, error) {
	now = now.In(a.location)
	if _, err := a.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day, _ := timeutil.DayWindow(now)
	if date != nil && *date != "" {
		parsed, err := timeutil.ParseDate(*date, a.location)
		if err != nil {
			return attendance.AttendanceResponse{}, dateError("date")
		}
		day = parsed
	}

	record, err := a.AttendanceRepository.GetByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return record.ToResponse(), nil
}

func (a *AttendanceServiceImpl) list(ctx context.Context, query attendance.ListQuery) (attendance.ListAttendanceResponse, error) {
	attendances, total, err := a.AttendanceRepository.List(ctx, query)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	// Map to response
	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, att.ToResponse())
	}

	totalPages := int(math.Ceil(float64(total) / float64(query.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (query.Page-1)*query.Limit+1, min(query.Page*query.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        query.Page,
		Limit:       query.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// applyRange resolves date strings into the half-open range of the query.
// A single date wins over start/end.
func (a *AttendanceServiceImpl) applyRange(query *attendance.ListQuery, date, startDate, endDate *string) error {
	if date != nil && *date != "" {
		day, err := timeutil.ParseDate(*date, a.location)
		if err != nil {
			return dateError("date")
		}
		from, to := timeutil.DayWindow(day)
		query.From, query.To = &from, &to
		return nil
	}

	if startDate != nil && *startDate != "" {
		from, err := timeutil.ParseDate(*startDate, a.location)
		if err != nil {
			return dateError("start_date")
		}
		query.From = &from
	}
	if endDate != nil && *endDate != "" {
		end, err := timeutil.ParseDate(*endDate, a.location)
		if err != nil {
			return dateError("end_date")
		}
		_, to := timeutil.DayWindow(end)
		query.To = &to
	}
	return nil
}

func dateError(field string) error {
	return validator.ValidationErrors{{
		Field:   field,
		Message: field + " must be in YYYY-MM-DD format",
	}}
}
