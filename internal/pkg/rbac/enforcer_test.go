package rbac

import (
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEnforcer(t *testing.T) {
	e, err := NewDefaultEnforcer()
	require.NoError(t, err)

	tests := []struct {
		name       string
		role       user.Role
		permission user.Permission
		want       bool
	}{
		{"employee checks in", user.RoleEmployee, user.PermissionAttendanceCreate, true},
		{"employee applies leave", user.RoleEmployee, user.PermissionLeaveCreate, true},
		{"employee cannot approve", user.RoleEmployee, user.PermissionLeaveApprove, false},
		{"employee cannot export", user.RoleEmployee, user.PermissionAttendanceExport, false},
		{"admin approves", user.RoleAdmin, user.PermissionLeaveApprove, true},
		{"admin views reports", user.RoleAdmin, user.PermissionReportsView, true},
		{"unknown role", user.Role("GUEST"), user.PermissionAttendanceViewOwn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Can(tt.role, tt.permission))
		})
	}
}

func TestEnforcer_GrantRevoke(t *testing.T) {
	e, err := NewEnforcer(map[user.Role][]user.Permission{
		user.RoleEmployee: {user.PermissionLeaveCreate},
	})
	require.NoError(t, err)

	assert.False(t, e.Can(user.RoleEmployee, user.PermissionReportsView))
	require.NoError(t, e.Grant(user.RoleEmployee, user.PermissionReportsView))
	assert.True(t, e.Can(user.RoleEmployee, user.PermissionReportsView))

	require.NoError(t, e.Revoke(user.RoleEmployee, user.PermissionReportsView))
	assert.False(t, e.Can(user.RoleEmployee, user.PermissionReportsView))
}

func TestEnforcer_GrantRejectsUnknownPolicy(t *testing.T) {
	e, err := NewDefaultEnforcer()
	require.NoError(t, err)

	assert.ErrorIs(t, e.Grant(user.Role("GUEST"), user.PermissionLeaveCreate), user.ErrInvalidRole)
	assert.ErrorIs(t, e.Revoke(user.RoleEmployee, user.Permission("leave.delete")), user.ErrInvalidPermission)
}

func TestEnforcer_Grants(t *testing.T) {
	e, err := NewEnforcer(map[user.Role][]user.Permission{
		user.RoleEmployee: {user.PermissionLeaveCreate, user.PermissionAttendanceCreate},
	})
	require.NoError(t, err)

	grants := e.Grants()
	assert.Equal(t, []user.Permission{user.PermissionAttendanceCreate, user.PermissionLeaveCreate}, grants[user.RoleEmployee])
	assert.Empty(t, grants[user.RoleAdmin])
}
