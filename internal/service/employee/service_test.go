package employee

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func day(d int) time.Time {
	return time.Date(2024, 3, d, 9, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (employee.EmployeeService, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	for _, e := range []employee.Employee{
		{ID: "emp-1", Name: "Alice", Email: "alice@example.com", Department: strPtr("Engineering"), Role: user.RoleEmployee, IsActive: true, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "emp-2", Name: "Bob", Email: "bob@example.com", Role: user.RoleAdmin, IsActive: true, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "emp-3", Name: "Carol", Email: "carol@example.com", Role: user.RoleEmployee, IsActive: true, CreatedAt: day(9)},
	} {
		_, err := store.Employees.Create(context.Background(), e)
		require.NoError(t, err)
	}

	return NewEmployeeService(store.Employees, store.Attendance, time.UTC), store
}

func TestEmployeeService_ListEmployees(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := store.Employees.Create(ctx, employee.Employee{Name: "Dup", Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	eng := "Engineering"
	list, err := svc.ListEmployees(ctx, employee.EmployeeFilter{Department: &eng})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, 1, list.TotalPages)
	assert.Equal(t, "Alice", list.Employees[0].Name)

	search := "bo"
	list, err = svc.ListEmployees(ctx, employee.EmployeeFilter{Search: &search})
	require.NoError(t, err)
	require.Len(t, list.Employees, 1)
	assert.Equal(t, "emp-2", list.Employees[0].ID)
}

func TestEmployeeService_GetEmployeeWithHistory(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// Outside the seven-day window
	_, err := store.Attendance.CheckIn(ctx, attendance.NewCheckIn("emp-1", day(2)))
	require.NoError(t, err)
	// Inside it: one absence, two check-ins, today included
	_, err = store.Attendance.CreatePlaceholder(ctx, attendance.Attendance{
		EmployeeID: "emp-1",
		Day:        timeutil.StartOfDay(day(8)),
		Status:     attendance.StatusAbsent,
	})
	require.NoError(t, err)
	_, err = store.Attendance.CheckIn(ctx, attendance.NewCheckIn("emp-1", day(9)))
	require.NoError(t, err)
	_, err = store.Attendance.CheckIn(ctx, attendance.NewCheckIn("emp-1", day(10)))
	require.NoError(t, err)

	got, err := svc.GetEmployee(ctx, "emp-1", day(10).Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "Alice", got.Employee.Name)
	require.NotNil(t, got.TodayAttendance)
	assert.Equal(t, "2024-03-10", got.TodayAttendance.Date)
	require.Len(t, got.History, 3)
	assert.Equal(t, "2024-03-10", got.History[0].Date)
	assert.Equal(t, employee.AttendanceRate{TotalDays: 7, PresentDays: 2, AttendanceRate: 29}, got.Stats)

	_, err = svc.GetEmployee(ctx, "ghost", day(10))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_GetEmployeeNewJoiner(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.GetEmployee(context.Background(), "emp-3", day(10))
	require.NoError(t, err)

	assert.Nil(t, got.TodayAttendance)
	assert.Empty(t, got.History)
	assert.Equal(t, employee.AttendanceRate{TotalDays: 2, PresentDays: 0, AttendanceRate: 0}, got.Stats)
}

func TestEmployeeService_CreateEmployee(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		Name:       "  Dave ",
		Email:      "Dave@Example.com",
		Department: strPtr("Sales"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Dave", created.Name)
	assert.Equal(t, "dave@example.com", created.Email)
	assert.Equal(t, "EMPLOYEE", created.Role)
	assert.True(t, created.IsActive)

	_, err = svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "Other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	_, err = svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "", Email: "not-an-email", Role: "OWNER"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "role")
}

func TestEmployeeService_UpdateEmployee(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	updated, err := svc.UpdateEmployee(ctx, "emp-1", employee.UpdateEmployeeRequest{
		Position: strPtr("Lead"),
		Role:     strPtr("ADMIN"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	require.NotNil(t, updated.Position)
	assert.Equal(t, "Lead", *updated.Position)
	assert.Equal(t, "ADMIN", updated.Role)

	_, err = svc.UpdateEmployee(ctx, "emp-1", employee.UpdateEmployeeRequest{Email: strPtr("BOB@example.com")})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	_, err = svc.UpdateEmployee(ctx, "ghost", employee.UpdateEmployeeRequest{Name: strPtr("Nobody")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.UpdateEmployee(ctx, "emp-1", employee.UpdateEmployeeRequest{})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestEmployeeService_DeactivateEmployee(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.DeactivateEmployee(ctx, "emp-2", "emp-2")
	assert.ErrorIs(t, err, employee.ErrSelfDeactivation)

	resp, err := svc.DeactivateEmployee(ctx, "emp-1", "emp-2")
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	// Repeating is harmless
	resp, err = svc.DeactivateEmployee(ctx, "emp-1", "emp-2")
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	active, err := store.Employees.ListActive(ctx)
	require.NoError(t, err)
	for _, e := range active {
		assert.NotEqual(t, "emp-1", e.ID)
	}

	_, err = svc.DeactivateEmployee(ctx, "ghost", "emp-2")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
