package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.start_date, lr.end_date, lr.reason, lr.leave_type, lr.status,
	lr.approved_by, lr.decided_at, lr.created_at, lr.updated_at,
	e.name, e.email, COALESCE(NULLIF(e.department, ''), 'Unassigned')`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	var leaveType, status string

	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.StartDate, &r.EndDate, &r.Reason, &leaveType, &status,
		&r.ApprovedBy, &r.DecidedAt, &r.CreatedAt, &r.UpdatedAt,
		&r.EmployeeName, &r.EmployeeEmail, &r.EmployeeDepartment,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	r.LeaveType = leave.LeaveType(leaveType)
	r.Status = leave.Status(status)
	return r, nil
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()

	var out []leave.LeaveRequest
	for rows.Next() {
		r, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return out, nil
}

func (r *leaveRequestRepository) getByID(ctx context.Context, q database.Querier, id string) (leave.LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE lr.id = $1`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return request, nil
}

// CreateIfNoOverlap implements leave.LeaveRequestRepository. A transaction
// scoped advisory lock per employee serializes the overlap check with the
// insert.
func (r *leaveRequestRepository) CreateIfNoOverlap(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	var created leave.LeaveRequest

	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('leave_requests:' || $1::text))`, request.EmployeeID); err != nil {
			return fmt.Errorf("failed to acquire leave lock: %w", err)
		}

		var overlapping bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM leave_requests
				WHERE employee_id = $1
				  AND status IN ('PENDING', 'APPROVED')
				  AND start_date <= $3
				  AND end_date >= $2
			)`, request.EmployeeID, request.StartDate, request.EndDate).Scan(&overlapping)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave requests: %w", err)
		}
		if overlapping {
			return leave.ErrOverlappingRequest
		}

		var id string
		err = tx.QueryRow(ctx, `
			INSERT INTO leave_requests (employee_id, start_date, end_date, reason, leave_type, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			request.EmployeeID,
			request.StartDate,
			request.EndDate,
			request.Reason,
			string(request.LeaveType),
			string(leave.StatusPending),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		// Reads through the transaction carried by ctx
		created, err = r.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.getByID(ctx, GetQuerier(ctx, r.db), id)
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.Status, approvedBy string, decidedAt time.Time) (leave.LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}

	var decided leave.LeaveRequest

	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE leave_requests
			SET status = $2, approved_by = $3, decided_at = $4, updated_at = NOW()
			WHERE id = $1 AND status = 'PENDING'`,
			id, string(status), approvedBy, decidedAt)
		if err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return leave.ErrAlreadyDecided
		}
		decided = current
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return decided, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) List(ctx context.Context, query leave.ListQuery) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	var where whereBuilder
	if query.EmployeeID != nil && *query.EmployeeID != "" {
		where.add("lr.employee_id = $%d", *query.EmployeeID)
	}
	if query.Status != nil {
		where.add("lr.status = $%d", string(*query.Status))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM leave_requests lr WHERE ` + where.String()
	if err := q.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE %s
		ORDER BY lr.created_at DESC
		LIMIT $%d OFFSET $%d`, leaveRequestColumns, where.String(), where.next(), where.next()+1)

	args := append(where.args, query.Limit, (query.Page-1)*query.Limit)
	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}

	list, err := collectLeaveRequests(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListApprovedOn implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListApprovedOn(ctx context.Context, day time.Time, department *string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE lr.status = 'APPROVED' AND lr.start_date <= $1 AND lr.end_date >= $1`
	args := []interface{}{day}

	if department != nil && *department != "" {
		query += ` AND COALESCE(NULLIF(e.department, ''), 'Unassigned') = $2`
		args = append(args, *department)
	}
	query += ` ORDER BY e.department, e.name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	return collectLeaveRequests(rows)
}

// StatsByStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) StatsByStatus(ctx context.Context, employeeID string, from, to time.Time) ([]leave.StatusStat, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(end_date - start_date + 1), 0)
		FROM leave_requests
		WHERE employee_id = $1 AND start_date >= $2 AND start_date < $3
		GROUP BY status
		ORDER BY status`, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave stats: %w", err)
	}
	defer rows.Close()

	var stats []leave.StatusStat
	for rows.Next() {
		var st leave.StatusStat
		var status string
		if err := rows.Scan(&status, &st.Count, &st.TotalDays); err != nil {
			return nil, fmt.Errorf("failed to scan leave stats: %w", err)
		}
		st.Status = leave.Status(status)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
