package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
)

// ReportRepository computes aggregates over the other memory stores.
type ReportRepository struct {
	employees  *EmployeeRepository
	attendance *AttendanceRepository
	leaves     *LeaveRequestRepository
}

func NewReportRepository(employees *EmployeeRepository, attendance *AttendanceRepository, leaves *LeaveRequestRepository) *ReportRepository {
	return &ReportRepository{employees: employees, attendance: attendance, leaves: leaves}
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *ReportRepository) GetAttendanceSummary(ctx context.Context, employeeID string, from, to time.Time) (report.AttendanceSummary, error) {
	var summary report.AttendanceSummary
	for _, a := range r.attendance.all() {
		if a.EmployeeID != employeeID || !inRange(a.Day, from, to) {
			continue
		}
		switch a.Status {
		case attendance.StatusPresent:
			summary.PresentDays++
		case attendance.StatusAbsent:
			summary.AbsentDays++
		}
		if a.CheckOut != nil && a.WorkingMinutes != nil {
			summary.CompletedDays++
			summary.TotalWorkMinutes += *a.WorkingMinutes
		}
	}
	return summary, nil
}

func (r *ReportRepository) GetApprovedLeaveDays(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	total := 0
	for _, l := range r.leaves.all() {
		if l.EmployeeID == employeeID && l.Status == leave.StatusApproved && inRange(l.StartDate, from, to) {
			total += l.Days()
		}
	}
	return total, nil
}

func (r *ReportRepository) onLeave(day time.Time) map[string]bool {
	out := make(map[string]bool)
	for _, l := range r.leaves.all() {
		if l.Status == leave.StatusApproved && l.Overlaps(day, day) {
			out[l.EmployeeID] = true
		}
	}
	return out
}

func (r *ReportRepository) GetDailyOverview(ctx context.Context, day time.Time) (report.DailyOverview, error) {
	active, err := r.employees.ListActive(ctx)
	if err != nil {
		return report.DailyOverview{}, err
	}

	overview := report.DailyOverview{
		TotalEmployees: len(active),
		OnLeave:        len(r.onLeave(day)),
	}
	for _, a := range r.attendance.all() {
		if !a.Day.Equal(day) {
			continue
		}
		switch a.State() {
		case attendance.StateCheckedIn:
			overview.CheckedIn++
		case attendance.StateOnBreak:
			overview.OnBreak++
		case attendance.StateCheckedOut:
			overview.CheckedOut++
		}
	}
	return overview, nil
}

func (r *ReportRepository) GetDepartmentBreakdown(ctx context.Context, day time.Time) ([]report.DepartmentAttendance, error) {
	active, err := r.employees.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool)
	for _, a := range r.attendance.all() {
		if a.Day.Equal(day) && a.CheckIn != nil {
			present[a.EmployeeID] = true
		}
	}
	onLeave := r.onLeave(day)

	byDept := make(map[string]*report.DepartmentAttendance)
	for _, e := range active {
		name := e.DepartmentOrDefault()
		d, ok := byDept[name]
		if !ok {
			d = &report.DepartmentAttendance{Department: name}
			byDept[name] = d
		}
		d.Employees++
		if present[e.ID] {
			d.Present++
		}
		if onLeave[e.ID] {
			d.OnLeave++
		}
	}

	out := make([]report.DepartmentAttendance, 0, len(byDept))
	for _, d := range byDept {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out, nil
}

func (r *ReportRepository) CountPendingLeaves(ctx context.Context) (int, error) {
	count := 0
	for _, l := range r.leaves.all() {
		if l.Status == leave.StatusPending {
			count++
		}
	}
	return count, nil
}

func (r *ReportRepository) GetMonthlyAttendance(ctx context.Context, from, to time.Time, department *string) ([]report.MonthlyAttendanceEmployee, error) {
	active, err := r.employees.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*report.MonthlyAttendanceEmployee)
	completed := make(map[string]int)
	var order []string
	for _, e := range active {
		if department != nil && e.DepartmentOrDefault() != *department {
			continue
		}
		rows[e.ID] = &report.MonthlyAttendanceEmployee{
			EmployeeID:   e.ID,
			EmployeeName: e.Name,
			Department:   e.DepartmentOrDefault(),
		}
		order = append(order, e.ID)
	}

	for _, a := range r.attendance.all() {
		row, ok := rows[a.EmployeeID]
		if !ok || !inRange(a.Day, from, to) {
			continue
		}
		switch a.Status {
		case attendance.StatusPresent:
			row.PresentDays++
		case attendance.StatusAbsent:
			row.AbsentDays++
		case attendance.StatusOnLeave:
			row.OnLeaveDays++
		}
		row.TotalBreakMinutes += a.TotalBreakMinutes
		if a.WorkingMinutes != nil {
			row.TotalWorkMinutes += *a.WorkingMinutes
			completed[a.EmployeeID]++
		}
	}

	out := make([]report.MonthlyAttendanceEmployee, 0, len(order))
	for _, id := range order {
		row := rows[id]
		if n := completed[id]; n > 0 {
			row.AvgWorkMinutes = float64(row.TotalWorkMinutes) / float64(n)
		}
		out = append(out, *row)
	}
	return out, nil
}

func (r *ReportRepository) GetAttendanceRows(ctx context.Context, from, to time.Time, department *string) ([]report.AttendanceRow, error) {
	var out []report.AttendanceRow
	for _, a := range r.attendance.all() {
		if !inRange(a.Day, from, to) {
			continue
		}
		dept := employee.UnassignedDepartment
		if a.EmployeeDepartment != nil {
			dept = *a.EmployeeDepartment
		}
		if department != nil && dept != *department {
			continue
		}
		row := report.AttendanceRow{
			Department:        dept,
			Day:               a.Day,
			CheckIn:           a.CheckIn,
			CheckOut:          a.CheckOut,
			BreakCount:        len(a.Breaks),
			TotalBreakMinutes: a.TotalBreakMinutes,
			WorkingMinutes:    a.WorkingMinutes,
			Status:            string(a.Status),
		}
		if a.EmployeeName != nil {
			row.EmployeeName = *a.EmployeeName
		}
		if a.EmployeeEmail != nil {
			row.EmployeeEmail = *a.EmployeeEmail
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].EmployeeName < out[j].EmployeeName
	})
	return out, nil
}
