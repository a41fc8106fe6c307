package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// GetAttendanceSummary counts one employee's days in [from, to)
func (r *reportRepositoryImpl) GetAttendanceSummary(ctx context.Context, employeeID string, from, to time.Time) (report.AttendanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PRESENT'),
			COUNT(*) FILTER (WHERE status = 'ABSENT'),
			COUNT(*) FILTER (WHERE check_out IS NOT NULL AND working_minutes IS NOT NULL),
			COALESCE(SUM(working_minutes) FILTER (WHERE check_out IS NOT NULL), 0)
		FROM attendances
		WHERE employee_id = $1 AND day >= $2 AND day < $3
	`

	var s report.AttendanceSummary
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&s.PresentDays, &s.AbsentDays, &s.CompletedDays, &s.TotalWorkMinutes); err != nil {
		return report.AttendanceSummary{}, fmt.Errorf("failed to get attendance summary: %w", err)
	}
	return s, nil
}

// GetApprovedLeaveDays sums inclusive days of approved requests starting in the range
func (r *reportRepositoryImpl) GetApprovedLeaveDays(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(end_date - start_date + 1), 0)
		FROM leave_requests
		WHERE employee_id = $1 AND status = 'APPROVED' AND start_date >= $2 AND start_date < $3
	`

	var days int
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&days); err != nil {
		return 0, fmt.Errorf("failed to sum approved leave days: %w", err)
	}
	return days, nil
}

// GetDailyOverview derives each record's state in SQL (1 query)
func (r *reportRepositoryImpl) GetDailyOverview(ctx context.Context, day time.Time) (report.DailyOverview, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH states AS (
			SELECT
				CASE
					WHEN a.check_in IS NULL THEN 'NOT_STARTED'
					WHEN a.check_out IS NOT NULL THEN 'CHECKED_OUT'
					WHEN EXISTS (
						SELECT 1 FROM jsonb_array_elements(a.breaks) b
						WHERE b->>'end' IS NULL
					) THEN 'ON_BREAK'
					ELSE 'CHECKED_IN'
				END AS state
			FROM attendances a
			WHERE a.day = $1
		)
		SELECT
			(SELECT COUNT(*) FROM employees WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM states WHERE state = 'CHECKED_IN'),
			(SELECT COUNT(*) FROM states WHERE state = 'ON_BREAK'),
			(SELECT COUNT(*) FROM states WHERE state = 'CHECKED_OUT'),
			(SELECT COUNT(DISTINCT employee_id) FROM leave_requests
			 WHERE status = 'APPROVED' AND start_date <= $1 AND end_date >= $1)
	`

	var o report.DailyOverview
	if err := q.QueryRow(ctx, query, day).Scan(&o.TotalEmployees, &o.CheckedIn, &o.OnBreak, &o.CheckedOut, &o.OnLeave); err != nil {
		return report.DailyOverview{}, fmt.Errorf("failed to get daily overview: %w", err)
	}
	return o, nil
}

// GetDepartmentBreakdown groups active employees by department for one day
func (r *reportRepositoryImpl) GetDepartmentBreakdown(ctx context.Context, day time.Time) ([]report.DepartmentAttendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(NULLIF(e.department, ''), 'Unassigned') AS department,
			COUNT(*) AS employees,
			COUNT(a.id) FILTER (WHERE a.check_in IS NOT NULL) AS present,
			COUNT(*) FILTER (WHERE EXISTS (
				SELECT 1 FROM leave_requests lr
				WHERE lr.employee_id = e.id AND lr.status = 'APPROVED'
				  AND lr.start_date <= $1 AND lr.end_date >= $1
			)) AS on_leave
		FROM employees e
		LEFT JOIN attendances a ON a.employee_id = e.id AND a.day = $1
		WHERE e.is_active = TRUE
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := q.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query department breakdown: %w", err)
	}
	defer rows.Close()

	var out []report.DepartmentAttendance
	for rows.Next() {
		var d report.DepartmentAttendance
		if err := rows.Scan(&d.Department, &d.Employees, &d.Present, &d.OnLeave); err != nil {
			return nil, fmt.Errorf("failed to scan department breakdown: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *reportRepositoryImpl) CountPendingLeaves(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status = 'PENDING'`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending leaves: %w", err)
	}
	return count, nil
}

// GetMonthlyAttendance aggregates every active employee over [from, to)
func (r *reportRepositoryImpl) GetMonthlyAttendance(ctx context.Context, from, to time.Time, department *string) ([]report.MonthlyAttendanceEmployee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id,
			e.name,
			COALESCE(NULLIF(e.department, ''), 'Unassigned'),
			COUNT(a.id) FILTER (WHERE a.status = 'PRESENT'),
			COUNT(a.id) FILTER (WHERE a.status = 'ABSENT'),
			COUNT(a.id) FILTER (WHERE a.status = 'ON_LEAVE'),
			COALESCE(SUM(a.working_minutes), 0),
			COALESCE(SUM(a.total_break_minutes), 0),
			COALESCE(AVG(a.working_minutes), 0)::float8
		FROM employees e
		LEFT JOIN attendances a ON a.employee_id = e.id AND a.day >= $1 AND a.day < $2
		WHERE e.is_active = TRUE
	`
	args := []interface{}{from, to}
	if department != nil && *department != "" {
		query += ` AND COALESCE(NULLIF(e.department, ''), 'Unassigned') = $3`
		args = append(args, *department)
	}
	query += ` GROUP BY e.id, e.name, e.department ORDER BY e.name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly attendance: %w", err)
	}
	defer rows.Close()

	var out []report.MonthlyAttendanceEmployee
	for rows.Next() {
		var m report.MonthlyAttendanceEmployee
		if err := rows.Scan(
			&m.EmployeeID, &m.EmployeeName, &m.Department,
			&m.PresentDays, &m.AbsentDays, &m.OnLeaveDays,
			&m.TotalWorkMinutes, &m.TotalBreakMinutes, &m.AvgWorkMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan monthly attendance: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetAttendanceRows lists employee-days for the spreadsheet export
func (r *reportRepositoryImpl) GetAttendanceRows(ctx context.Context, from, to time.Time, department *string) ([]report.AttendanceRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.name, e.email, COALESCE(NULLIF(e.department, ''), 'Unassigned'),
			a.day, a.check_in, a.check_out, jsonb_array_length(a.breaks),
			a.total_break_minutes, a.working_minutes, a.status
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.day >= $1 AND a.day < $2
	`
	args := []interface{}{from, to}
	if department != nil && *department != "" {
		query += ` AND COALESCE(NULLIF(e.department, ''), 'Unassigned') = $3`
		args = append(args, *department)
	}
	query += ` ORDER BY a.day, e.name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance rows: %w", err)
	}
	defer rows.Close()

	var out []report.AttendanceRow
	for rows.Next() {
		var row report.AttendanceRow
		if err := rows.Scan(
			&row.EmployeeName, &row.EmployeeEmail, &row.Department,
			&row.Day, &row.CheckIn, &row.CheckOut, &row.BreakCount,
			&row.TotalBreakMinutes, &row.WorkingMinutes, &row.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
