package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusOnLeave Status = "ON_LEAVE"
)

type BreakType string

const (
	BreakTypeShort  BreakType = "SHORT_BREAK"
	BreakTypeLunch  BreakType = "LUNCH_BREAK"
	BreakTypeCoffee BreakType = "COFFEE_BREAK"
)

// State is the derived position of an employee-day in the check-in flow.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateCheckedIn  State = "CHECKED_IN"
	StateOnBreak    State = "ON_BREAK"
	StateCheckedOut State = "CHECKED_OUT"
)

type Break struct {
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	BreakType       BreakType  `json:"break_type"`
}

// IsOpen reports whether the break has not been ended yet.
func (b Break) IsOpen() bool {
	return b.End == nil
}

type Attendance struct {
	ID                   string
	EmployeeID           string
	Day                  time.Time
	CheckIn              *time.Time
	CheckOut             *time.Time
	Breaks               []Break
	TotalBreakMinutes    int
	WorkingMinutes       *int
	Status               Status
	CheckInReminderSent  bool
	CheckOutReminderSent bool
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Joined employee fields, populated by list queries only
	EmployeeName       *string
	EmployeeEmail      *string
	EmployeeDepartment *string
}

// NewCheckIn builds the record written by a successful check-in.
func NewCheckIn(employeeID string, now time.Time) Attendance {
	checkIn := now
	return Attendance{
		EmployeeID: employeeID,
		Day:        timeutil.StartOfDay(now),
		CheckIn:    &checkIn,
		Breaks:     []Break{},
		Status:     StatusPresent,
	}
}

func (a *Attendance) State() State {
	switch {
	case a.CheckIn == nil:
		return StateNotStarted
	case a.CheckOut != nil:
		return StateCheckedOut
	case a.OpenBreak() != nil:
		return StateOnBreak
	default:
		return StateCheckedIn
	}
}

// OpenBreak returns the break without an end, if any.
func (a *Attendance) OpenBreak() *Break {
	for i := range a.Breaks {
		if a.Breaks[i].IsOpen() {
			return &a.Breaks[i]
		}
	}
	return nil
}

func (a *Attendance) StartBreak(now time.Time, breakType BreakType) error {
	if a.CheckIn == nil {
		return ErrNotCheckedIn
	}
	if a.CheckOut != nil {
		return ErrAlreadyCheckedOut
	}
	if a.OpenBreak() != nil {
		return ErrBreakAlreadyActive
	}
	if breakType == "" {
		breakType = BreakTypeShort
	}

	a.Breaks = append(a.Breaks, Break{Start: now, BreakType: breakType})
	return nil
}

func (a *Attendance) EndBreak(now time.Time) error {
	if a.CheckIn == nil {
		return ErrNotCheckedIn
	}
	open := a.OpenBreak()
	if open == nil {
		return ErrNoActiveBreak
	}

	end := now
	duration := timeutil.RoundMinutes(end.Sub(open.Start))
	open.End = &end
	open.DurationMinutes = &duration

	a.TotalBreakMinutes = TotalBreakMinutes(a.Breaks)
	return nil
}

func (a *Attendance) Checkout(now time.Time) error {
	if a.CheckIn == nil {
		return ErrNotCheckedIn
	}
	if a.CheckOut != nil {
		return ErrAlreadyCheckedOut
	}
	if a.OpenBreak() != nil {
		return ErrBreakInProgress
	}

	checkOut := now
	// May go negative under clock skew; stored as-is.
	working := timeutil.RoundMinutes(checkOut.Sub(*a.CheckIn)) - a.TotalBreakMinutes
	a.CheckOut = &checkOut
	a.WorkingMinutes = &working
	return nil
}

// TotalBreakMinutes sums the durations of all closed breaks. The stored total
// is always rebuilt with this, never incremented.
func TotalBreakMinutes(breaks []Break) int {
	total := 0
	for _, b := range breaks {
		if b.DurationMinutes != nil {
			total += *b.DurationMinutes
		}
	}
	return total
}
