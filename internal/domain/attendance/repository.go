package attendance

import (
	"context"
	"time"
)

// ListQuery is the resolved form of the list filters handed to storage.
// From is inclusive and To exclusive.
type ListQuery struct {
	EmployeeID *string
	Department *string
	From       *time.Time
	To         *time.Time
	Status     *Status
	Page       int
	Limit      int
}

// AttendanceRepository defines data access methods for attendance records.
// Implementations must keep (employee_id, day) unique.
type AttendanceRepository interface {
	// CheckIn atomically creates today's record, or fills a placeholder row
	// that has no check-in yet. Returns ErrAlreadyCheckedIn when the row for
	// that day already carries a check-in.
	CheckIn(ctx context.Context, attendance Attendance) (Attendance, error)

	// UpdateForDay loads the record for (employeeID, day) under a row lock,
	// applies fn and persists the result in one step. fn errors abort the
	// update and are returned unchanged. Returns ErrAttendanceNotFound when no
	// record exists.
	UpdateForDay(ctx context.Context, employeeID string, day time.Time, fn func(*Attendance) error) (Attendance, error)

	GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (Attendance, error)

	// ListByDay returns every record of a day joined with employee details.
	ListByDay(ctx context.Context, day time.Time) ([]Attendance, error)

	List(ctx context.Context, query ListQuery) ([]Attendance, int64, error)

	// CreatePlaceholder inserts a record without check-in. Returns false when
	// a record for that day already exists.
	CreatePlaceholder(ctx context.Context, attendance Attendance) (bool, error)

	// ListPendingCheckOut returns records of the day that are checked in,
	// not checked out, and have not had a check-out reminder.
	ListPendingCheckOut(ctx context.Context, day time.Time) ([]Attendance, error)

	// MarkCheckOutReminderSent flips the reminder flag if it was unset and
	// reports whether this call flipped it.
	MarkCheckOutReminderSent(ctx context.Context, id string) (bool, error)
}
