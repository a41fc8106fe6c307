package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.day, a.check_in, a.check_out, a.breaks,
	a.total_break_minutes, a.working_minutes, a.status,
	a.check_in_reminder_sent, a.check_out_reminder_sent,
	a.created_at, a.updated_at`

const attendanceJoinColumns = attendanceColumns + `,
	e.name, e.email, COALESCE(NULLIF(e.department, ''), 'Unassigned')`

func scanAttendance(row pgx.Row, withEmployee bool) (attendance.Attendance, error) {
	var att attendance.Attendance
	var breaksJSON []byte
	var status string

	dest := []interface{}{
		&att.ID, &att.EmployeeID, &att.Day, &att.CheckIn, &att.CheckOut, &breaksJSON,
		&att.TotalBreakMinutes, &att.WorkingMinutes, &status,
		&att.CheckInReminderSent, &att.CheckOutReminderSent,
		&att.CreatedAt, &att.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &att.EmployeeName, &att.EmployeeEmail, &att.EmployeeDepartment)
	}

	if err := row.Scan(dest...); err != nil {
		return attendance.Attendance{}, err
	}

	att.Status = attendance.Status(status)
	att.Breaks = []attendance.Break{}
	if len(breaksJSON) > 0 {
		if err := json.Unmarshal(breaksJSON, &att.Breaks); err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to unmarshal breaks: %w", err)
		}
	}
	return att, nil
}

func collectAttendances(rows pgx.Rows, withEmployee bool) ([]attendance.Attendance, error) {
	defer rows.Close()

	var out []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows, withEmployee)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		out = append(out, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return out, nil
}

func marshalBreaks(breaks []attendance.Break) ([]byte, error) {
	if breaks == nil {
		breaks = []attendance.Break{}
	}
	data, err := json.Marshal(breaks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal breaks: %w", err)
	}
	return data, nil
}

// CheckIn implements attendance.AttendanceRepository. The upsert only touches
// an existing row when it has no check-in yet, so two racing check-ins
// resolve to exactly one winner.
func (a *attendanceRepository) CheckIn(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	breaksJSON, err := marshalBreaks(newAttendance.Breaks)
	if err != nil {
		return attendance.Attendance{}, err
	}

	query := `
		INSERT INTO attendances AS a (employee_id, day, check_in, breaks, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, day) DO UPDATE
		SET check_in = EXCLUDED.check_in,
		    status = EXCLUDED.status,
		    updated_at = NOW()
		WHERE a.check_in IS NULL
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		newAttendance.EmployeeID,
		newAttendance.Day,
		newAttendance.CheckIn,
		breaksJSON,
		string(newAttendance.Status),
	), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// UpdateForDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateForDay(ctx context.Context, employeeID string, day time.Time, fn func(*attendance.Attendance) error) (attendance.Attendance, error) {
	var updated attendance.Attendance

	err := WithTransaction(ctx, a.db, func(ctx context.Context, tx pgx.Tx) error {
		query := `SELECT ` + attendanceColumns + `
			FROM attendances a
			WHERE a.employee_id = $1 AND a.day = $2
			FOR UPDATE`

		current, err := scanAttendance(tx.QueryRow(ctx, query, employeeID, day), false)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return attendance.ErrAttendanceNotFound
			}
			return fmt.Errorf("failed to lock attendance: %w", err)
		}

		if err := fn(&current); err != nil {
			return err
		}

		breaksJSON, err := marshalBreaks(current.Breaks)
		if err != nil {
			return err
		}

		update := `
			UPDATE attendances a
			SET check_in = $2, check_out = $3, breaks = $4, total_break_minutes = $5,
			    working_minutes = $6, status = $7, updated_at = NOW()
			WHERE a.id = $1
			RETURNING ` + attendanceColumns

		updated, err = scanAttendance(tx.QueryRow(ctx, update,
			current.ID,
			current.CheckIn,
			current.CheckOut,
			breaksJSON,
			current.TotalBreakMinutes,
			current.WorkingMinutes,
			string(current.Status),
		), false)
		if err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.Attendance{}, err
	}
	return updated, nil
}

// GetByEmployeeAndDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceJoinColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.day = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, day), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// ListByDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDay(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceJoinColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.day = $1
		ORDER BY a.check_in ASC NULLS LAST, e.name ASC`

	rows, err := q.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances by day: %w", err)
	}
	return collectAttendances(rows, true)
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, query attendance.ListQuery) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	var where whereBuilder
	if query.EmployeeID != nil && *query.EmployeeID != "" {
		where.add("a.employee_id = $%d", *query.EmployeeID)
	}
	if query.Department != nil && *query.Department != "" {
		where.add("COALESCE(NULLIF(e.department, ''), 'Unassigned') = $%d", *query.Department)
	}
	if query.From != nil {
		where.add("a.day >= $%d", *query.From)
	}
	if query.To != nil {
		where.add("a.day < $%d", *query.To)
	}
	if query.Status != nil {
		where.add("a.status = $%d", string(*query.Status))
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + where.String()
	var total int64
	if err := q.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.day DESC, e.name ASC
		LIMIT $%d OFFSET $%d`, attendanceJoinColumns, where.String(), where.next(), where.next()+1)

	args := append(where.args, query.Limit, (query.Page-1)*query.Limit)
	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}

	list, err := collectAttendances(rows, true)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// CreatePlaceholder implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreatePlaceholder(ctx context.Context, placeholder attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (employee_id, day, status, check_in_reminder_sent)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, day) DO NOTHING`

	tag, err := q.Exec(ctx, query,
		placeholder.EmployeeID,
		placeholder.Day,
		string(placeholder.Status),
		placeholder.CheckInReminderSent,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create placeholder attendance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListPendingCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListPendingCheckOut(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.day = $1
		  AND a.check_in IS NOT NULL
		  AND a.check_out IS NULL
		  AND a.check_out_reminder_sent = FALSE
		ORDER BY a.check_in ASC`

	rows, err := q.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending check-outs: %w", err)
	}
	return collectAttendances(rows, false)
}

// MarkCheckOutReminderSent implements attendance.AttendanceRepository.
func (a *attendanceRepository) MarkCheckOutReminderSent(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendances
		SET check_out_reminder_sent = TRUE, updated_at = NOW()
		WHERE id = $1 AND check_out_reminder_sent = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("failed to flag check-out reminder: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
