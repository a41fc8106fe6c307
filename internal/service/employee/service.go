package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
)

// historyDays is the window of the detail view, today included
const historyDays = 7

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	location       *time.Location
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, attendanceRepo attendance.AttendanceRepository, location *time.Location) employee.EmployeeService {
	if location == nil {
		location = time.Local
	}
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepo,
		attendanceRepo:     attendanceRepo,
		location:           location,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.EmployeeRepository.Create(ctx, employee.Employee{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Position:   req.Position,
		Role:       user.Role(req.Role),
		IsActive:   true,
	})
	if err != nil {
		if errors.Is(err, employee.ErrEmailExists) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.InfoContext(ctx, "Employee created", "employee_id", created.ID, "role", created.Role)
	return mapEmployeeToResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string, now time.Time) (employee.EmployeeDetailResponse, error) {
	e, err := s.get(ctx, id)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	now = now.In(s.location)
	today, tomorrow := timeutil.DayWindow(now)
	from := today.AddDate(0, 0, -(historyDays - 1))

	records, _, err := s.attendanceRepo.List(ctx, attendance.ListQuery{
		EmployeeID: &id,
		From:       &from,
		To:         &tomorrow,
		Page:       1,
		Limit:      historyDays,
	})
	if err != nil {
		return employee.EmployeeDetailResponse{}, fmt.Errorf("failed to get attendance history: %w", err)
	}

	detail := employee.EmployeeDetailResponse{
		Employee: mapEmployeeToResponse(e),
		History:  make([]attendance.AttendanceResponse, 0, len(records)),
	}

	todayKey := today.Format(timeutil.DateLayout)
	present := 0
	for i := range records {
		resp := records[i].ToResponse()
		detail.History = append(detail.History, resp)
		if resp.Date == todayKey {
			todayResp := resp
			detail.TodayAttendance = &todayResp
		}
		if records[i].Status == attendance.StatusPresent && records[i].CheckIn != nil {
			present++
		}
	}

	detail.Stats = attendanceRate(present, tenureDays(e.CreatedAt.In(s.location), today))
	return detail, nil
}

// tenureDays counts calendar days from joining through today, capped at the
// history window
func tenureDays(joined, today time.Time) int {
	days := timeutil.InclusiveDays(timeutil.StartOfDay(joined), today)
	switch {
	case days < 1:
		return 1
	case days > historyDays:
		return historyDays
	}
	return days
}

func attendanceRate(present, total int) employee.AttendanceRate {
	rate := 0
	if total > 0 {
		rate = int(math.Round(float64(present) / float64(total) * 100))
	}
	return employee.AttendanceRate{
		TotalDays:      total,
		PresentDays:    present,
		AttendanceRate: rate,
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.EmployeeRepository.List(ctx, employee.ListQuery{
		Department: filter.Department,
		Search:     filter.Search,
		Page:       filter.Page,
		Limit:      filter.Limit,
	})
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, mapEmployeeToResponse(e))
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Employees:  responses,
	}, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := s.get(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	req.Apply(&e)

	return s.save(ctx, e)
}

// DeactivateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeactivateEmployee(ctx context.Context, id, actorID string) (employee.EmployeeResponse, error) {
	if id == actorID {
		return employee.EmployeeResponse{}, employee.ErrSelfDeactivation
	}

	e, err := s.get(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !e.IsActive {
		return mapEmployeeToResponse(e), nil
	}

	e.IsActive = false
	resp, err := s.save(ctx, e)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.InfoContext(ctx, "Employee deactivated", "employee_id", id, "by", actorID)
	return resp, nil
}

func (s *EmployeeServiceImpl) get(ctx context.Context, id string) (employee.Employee, error) {
	e, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

func (s *EmployeeServiceImpl) save(ctx context.Context, e employee.Employee) (employee.EmployeeResponse, error) {
	updated, err := s.EmployeeRepository.Update(ctx, e)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) || errors.Is(err, employee.ErrEmailExists) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return mapEmployeeToResponse(updated), nil
}

func mapEmployeeToResponse(e employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		Role:       string(e.Role),
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}
