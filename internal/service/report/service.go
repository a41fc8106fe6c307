package report

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// dashboardTimeout bounds a shared dashboard aggregation
const dashboardTimeout = 30 * time.Second

type ReportServiceImpl struct {
	reportRepo   report.ReportRepository
	employeeRepo employee.EmployeeRepository
	location     *time.Location
	sf           *singleflight.Group
}

func NewReportService(reportRepo report.ReportRepository, employeeRepo employee.EmployeeRepository, location *time.Location) report.ReportService {
	if location == nil {
		location = time.Local
	}
	return &ReportServiceImpl{
		reportRepo:   reportRepo,
		employeeRepo: employeeRepo,
		location:     location,
		sf:           &singleflight.Group{},
	}
}

// GetEmployeeStats runs the month and year aggregates in parallel
func (s *ReportServiceImpl) GetEmployeeStats(ctx context.Context, employeeID string, now time.Time) (report.EmployeeStatsResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return report.EmployeeStatsResponse{}, err
	}

	now = now.In(s.location)
	monthStart, monthEnd := timeutil.MonthWindow(now)
	yearStart, yearEnd := timeutil.YearWindow(now)

	var (
		summary   report.AttendanceSummary
		leaveDays int
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		summary, err = s.reportRepo.GetAttendanceSummary(gCtx, employeeID, monthStart, monthEnd)
		if err != nil {
			return fmt.Errorf("failed to get attendance summary: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		leaveDays, err = s.reportRepo.GetApprovedLeaveDays(gCtx, employeeID, yearStart, yearEnd)
		if err != nil {
			return fmt.Errorf("failed to get approved leave days: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.EmployeeStatsResponse{}, err
	}

	var avgMinutes float64
	if summary.CompletedDays > 0 {
		avgMinutes = float64(summary.TotalWorkMinutes) / float64(summary.CompletedDays)
	}

	return report.EmployeeStatsResponse{
		EmployeeID:        employeeID,
		Month:             monthStart.Format("2006-01"),
		Year:              yearStart.Year(),
		PresentDays:       summary.PresentDays,
		AbsentDays:        summary.AbsentDays,
		AvgWorkMinutes:    round2(avgMinutes),
		AvgWorkHours:      round2(avgMinutes / 60),
		ApprovedLeaveDays: leaveDays,
	}, nil
}

// GetDashboard returns today's company-wide figures. Concurrent callers for
// the same day share one aggregation, which runs detached from any single
// caller's cancellation.
func (s *ReportServiceImpl) GetDashboard(ctx context.Context, now time.Time) (report.DashboardResponse, error) {
	today, _ := timeutil.DayWindow(now.In(s.location))

	v, err, _ := s.sf.Do("dashboard:"+today.Format(timeutil.DateLayout), func() (interface{}, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dashboardTimeout)
		defer cancel()
		return s.buildDashboard(sharedCtx, today)
	})
	if err != nil {
		return report.DashboardResponse{}, err
	}
	return v.(report.DashboardResponse), nil
}

// buildDashboard runs the three aggregates in parallel
func (s *ReportServiceImpl) buildDashboard(ctx context.Context, today time.Time) (report.DashboardResponse, error) {
	var (
		overview    report.DailyOverview
		departments []report.DepartmentAttendance
		pending     int
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. State counts
	g.Go(func() error {
		var err error
		overview, err = s.reportRepo.GetDailyOverview(gCtx, today)
		return err
	})

	// 2. Department breakdown
	g.Go(func() error {
		var err error
		departments, err = s.reportRepo.GetDepartmentBreakdown(gCtx, today)
		return err
	})

	// 3. Pending leave queue
	g.Go(func() error {
		var err error
		pending, err = s.reportRepo.CountPendingLeaves(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return report.DashboardResponse{}, fmt.Errorf("failed to build dashboard: %w", err)
	}

	present := overview.CheckedIn + overview.OnBreak + overview.CheckedOut
	absent := overview.TotalEmployees - present - overview.OnLeave
	if absent < 0 {
		absent = 0
	}
	if departments == nil {
		departments = []report.DepartmentAttendance{}
	}

	return report.DashboardResponse{
		Date:           today.Format(timeutil.DateLayout),
		TotalEmployees: overview.TotalEmployees,
		Present:        present,
		OnBreak:        overview.OnBreak,
		CheckedOut:     overview.CheckedOut,
		OnLeave:        overview.OnLeave,
		Absent:         absent,
		PendingLeaves:  pending,
		Departments:    departments,
	}, nil
}

// GenerateMonthlyAttendanceReport generates the monthly attendance report
func (s *ReportServiceImpl) GenerateMonthlyAttendanceReport(ctx context.Context, req report.MonthlyAttendanceReportRequest, now time.Time) (report.MonthlyAttendanceReport, error) {
	now = now.In(s.location)
	if err := req.Validate(now); err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	periodStart, periodEnd := s.period(req)

	employees, err := s.reportRepo.GetMonthlyAttendance(ctx, periodStart, periodEnd, req.Department)
	if err != nil {
		return report.MonthlyAttendanceReport{}, fmt.Errorf("failed to get attendance data: %w", err)
	}
	if employees == nil {
		employees = []report.MonthlyAttendanceEmployee{}
	}

	return report.MonthlyAttendanceReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: periodStart.Format(timeutil.DateLayout),
		PeriodEnd:   periodEnd.AddDate(0, 0, -1).Format(timeutil.DateLayout),
		GeneratedAt: now.Format(time.RFC3339),
		Employees:   employees,
	}, nil
}

// ExportMonthlyAttendance writes the summary and the daily rows as two sheets
func (s *ReportServiceImpl) ExportMonthlyAttendance(ctx context.Context, req report.MonthlyAttendanceReportRequest, now time.Time, w io.Writer) error {
	summary, err := s.GenerateMonthlyAttendanceReport(ctx, req, now)
	if err != nil {
		return err
	}

	periodStart, periodEnd := s.period(req)
	rows, err := s.reportRepo.GetAttendanceRows(ctx, periodStart, periodEnd, req.Department)
	if err != nil {
		return fmt.Errorf("failed to get attendance rows: %w", err)
	}

	summarySheet := export.Sheet{
		Name:  "Summary",
		Title: "Monthly Attendance Report",
		Subtitle: []string{
			fmt.Sprintf("Period: %s to %s", summary.PeriodStart, summary.PeriodEnd),
			fmt.Sprintf("Generated: %s", summary.GeneratedAt),
		},
		Headers: []string{"Employee", "Department", "Present", "Absent", "On Leave", "Work Minutes", "Break Minutes", "Avg Work Minutes"},
	}
	for _, e := range summary.Employees {
		summarySheet.Rows = append(summarySheet.Rows, []interface{}{
			e.EmployeeName, e.Department, e.PresentDays, e.AbsentDays, e.OnLeaveDays,
			e.TotalWorkMinutes, e.TotalBreakMinutes, round2(e.AvgWorkMinutes),
		})
	}

	dailySheet := export.Sheet{
		Name:    "Daily",
		Headers: []string{"Date", "Employee", "Email", "Department", "Check In", "Check Out", "Breaks", "Break Minutes", "Work Minutes", "Status"},
	}
	for _, r := range rows {
		var working interface{} = ""
		if r.WorkingMinutes != nil {
			working = *r.WorkingMinutes
		}
		dailySheet.Rows = append(dailySheet.Rows, []interface{}{
			r.Day.Format(timeutil.DateLayout), r.EmployeeName, r.EmployeeEmail, r.Department,
			clock(r.CheckIn, s.location), clock(r.CheckOut, s.location),
			r.BreakCount, r.TotalBreakMinutes, working, r.Status,
		})
	}

	return export.WriteWorkbook(w, summarySheet, dailySheet)
}

func (s *ReportServiceImpl) period(req report.MonthlyAttendanceReportRequest) (time.Time, time.Time) {
	return timeutil.MonthWindow(time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, s.location))
}

func clock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
