package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrBreakInProgress   = errors.New("please end your break before checking out")

	// Break errors
	ErrBreakAlreadyActive = errors.New("you already have an active break")
	ErrNoActiveBreak      = errors.New("no active break found")
	ErrInvalidBreakType   = errors.New("invalid break type")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
