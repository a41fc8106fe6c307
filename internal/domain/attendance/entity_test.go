package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestAttendance_FullDay(t *testing.T) {
	a := NewCheckIn("emp-1", at(9, 0))
	assert.Equal(t, StateCheckedIn, a.State())
	assert.Equal(t, StatusPresent, a.Status)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), a.Day)

	require.NoError(t, a.StartBreak(at(10, 0), BreakTypeShort))
	assert.Equal(t, StateOnBreak, a.State())

	require.NoError(t, a.EndBreak(at(10, 15)))
	assert.Equal(t, 15, a.TotalBreakMinutes)

	require.NoError(t, a.Checkout(at(18, 0)))
	assert.Equal(t, StateCheckedOut, a.State())
	require.NotNil(t, a.WorkingMinutes)
	assert.Equal(t, 525, *a.WorkingMinutes)
}

func TestAttendance_StartBreak(t *testing.T) {
	t.Run("not checked in", func(t *testing.T) {
		a := Attendance{Status: StatusAbsent}
		assert.ErrorIs(t, a.StartBreak(at(10, 0), BreakTypeShort), ErrNotCheckedIn)
	})

	t.Run("already checked out", func(t *testing.T) {
		a := NewCheckIn("emp-1", at(9, 0))
		require.NoError(t, a.Checkout(at(17, 0)))
		assert.ErrorIs(t, a.StartBreak(at(17, 5), BreakTypeShort), ErrAlreadyCheckedOut)
	})

	t.Run("second open break rejected", func(t *testing.T) {
		a := NewCheckIn("emp-1", at(9, 0))
		require.NoError(t, a.StartBreak(at(10, 0), BreakTypeLunch))
		assert.ErrorIs(t, a.StartBreak(at(10, 1), BreakTypeCoffee), ErrBreakAlreadyActive)
		assert.Len(t, a.Breaks, 1)
	})

	t.Run("empty type defaults to short break", func(t *testing.T) {
		a := NewCheckIn("emp-1", at(9, 0))
		require.NoError(t, a.StartBreak(at(10, 0), ""))
		assert.Equal(t, BreakTypeShort, a.Breaks[0].BreakType)
	})
}

func TestAttendance_EndBreak(t *testing.T) {
	t.Run("not checked in", func(t *testing.T) {
		a := Attendance{}
		assert.ErrorIs(t, a.EndBreak(at(10, 0)), ErrNotCheckedIn)
	})

	t.Run("no active break", func(t *testing.T) {
		a := NewCheckIn("emp-1", at(9, 0))
		assert.ErrorIs(t, a.EndBreak(at(10, 0)), ErrNoActiveBreak)
	})

	t.Run("duration rounds half away from zero", func(t *testing.T) {
		a := NewCheckIn("emp-1", at(9, 0))
		require.NoError(t, a.StartBreak(at(10, 0), BreakTypeShort))
		require.NoError(t, a.EndBreak(at(10, 0).Add(4*time.Minute+30*time.Second)))
		require.NotNil(t, a.Breaks[0].DurationMinutes)
		assert.Equal(t, 5, *a.Breaks[0].DurationMinutes)
	})

	t.Run("total is recomputed from the break list", func(t *testing.T) {
		a := NewCheckIn("emp-1", at(9, 0))
		a.TotalBreakMinutes = 999

		require.NoError(t, a.StartBreak(at(10, 0), BreakTypeShort))
		require.NoError(t, a.EndBreak(at(10, 10)))
		require.NoError(t, a.StartBreak(at(12, 0), BreakTypeLunch))
		require.NoError(t, a.EndBreak(at(12, 45)))

		assert.Equal(t, 55, a.TotalBreakMinutes)
		assert.Equal(t, TotalBreakMinutes(a.Breaks), a.TotalBreakMinutes)
	})
}

func TestAttendance_Checkout(t *testing.T) {
	t.Run("not checked in", func(t *testing.T) {
		a := Attendance{}
		assert.ErrorIs(t, a.Checkout(at(17, 0)), ErrNotCheckedIn)
	})

	t.Run("already checked out", func(t *testing.T) {
		a := NewCheckIn("emp-1", at(9, 0))
		require.NoError(t, a.Checkout(at(17, 0)))
		assert.ErrorIs(t, a.Checkout(at(18, 0)), ErrAlreadyCheckedOut)
	})

	t.Run("refused while a break is open", func(t *testing.T) {
		a := NewCheckIn("emp-1", at(9, 0))
		require.NoError(t, a.StartBreak(at(10, 0), BreakTypeShort))
		require.NoError(t, a.EndBreak(at(10, 5)))
		require.NoError(t, a.StartBreak(at(15, 0), BreakTypeCoffee))

		assert.ErrorIs(t, a.Checkout(at(18, 0)), ErrBreakInProgress)
		assert.Nil(t, a.CheckOut)
		assert.Nil(t, a.WorkingMinutes)
	})

	t.Run("clock skew yields negative working minutes", func(t *testing.T) {
		a := NewCheckIn("emp-1", at(9, 0))
		require.NoError(t, a.Checkout(at(8, 0)))
		assert.Equal(t, -60, *a.WorkingMinutes)
	})
}

func TestTotalBreakMinutes_IgnoresOpenBreaks(t *testing.T) {
	ten := 10
	breaks := []Break{
		{Start: at(10, 0), End: ptrTime(at(10, 10)), DurationMinutes: &ten},
		{Start: at(11, 0)},
	}
	assert.Equal(t, 10, TotalBreakMinutes(breaks))
	assert.Equal(t, 0, TotalBreakMinutes(nil))
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
