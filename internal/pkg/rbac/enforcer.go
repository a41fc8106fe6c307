package rbac

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// modelText is a plain RBAC model: a role is granted a permission string.
const modelText = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj
`

// Authorizer answers role/permission checks for the HTTP layer.
type Authorizer interface {
	Can(role user.Role, permission user.Permission) bool
}

type Enforcer struct {
	mu       sync.RWMutex
	enforcer *casbin.Enforcer
}

// NewEnforcer builds an enforcer seeded with the given role grants
func NewEnforcer(grants map[user.Role][]user.Permission) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rbac model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	for role, permissions := range grants {
		for _, permission := range permissions {
			if _, err := e.AddPolicy(string(role), string(permission)); err != nil {
				return nil, fmt.Errorf("failed to add policy %s/%s: %w", role, permission, err)
			}
		}
	}

	return &Enforcer{enforcer: e}, nil
}

// NewDefaultEnforcer uses user.RolePermissions
func NewDefaultEnforcer() (*Enforcer, error) {
	return NewEnforcer(user.RolePermissions)
}

// Can reports whether role holds permission. Unknown roles hold nothing.
func (e *Enforcer) Can(role user.Role, permission user.Permission) bool {
	if !role.IsValid() {
		return false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	ok, err := e.enforcer.Enforce(string(role), string(permission))
	if err != nil {
		return false
	}
	return ok
}

// Grants lists the permissions each known role currently holds
func (e *Enforcer) Grants() map[user.Role][]user.Permission {
	out := make(map[user.Role][]user.Permission, len(user.Roles))
	for _, role := range user.Roles {
		held := []user.Permission{}
		for _, permission := range user.AllPermissions {
			if e.Can(role, permission) {
				held = append(held, permission)
			}
		}
		out[role] = held
	}
	return out
}

// Grant adds a permission to a role at runtime. Grants live in memory and
// reset to the defaults on restart.
func (e *Enforcer) Grant(role user.Role, permission user.Permission) error {
	if err := validatePolicy(role, permission); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(string(role), string(permission)); err != nil {
		return fmt.Errorf("failed to grant %s to %s: %w", permission, role, err)
	}
	return nil
}

// Revoke removes a permission from a role at runtime
func (e *Enforcer) Revoke(role user.Role, permission user.Permission) error {
	if err := validatePolicy(role, permission); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(string(role), string(permission)); err != nil {
		return fmt.Errorf("failed to revoke %s from %s: %w", permission, role, err)
	}
	return nil
}

func validatePolicy(role user.Role, permission user.Permission) error {
	if !role.IsValid() {
		return user.ErrInvalidRole
	}
	if !permission.IsValid() {
		return user.ErrInvalidPermission
	}
	return nil
}

// PolicyManager is the runtime policy surface exposed to administrators
type PolicyManager interface {
	Authorizer
	Grants() map[user.Role][]user.Permission
	Grant(role user.Role, permission user.Permission) error
	Revoke(role user.Role, permission user.Permission) error
}
