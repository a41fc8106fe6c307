package user

type Role string

const (
	RoleAdmin    Role = "ADMIN"    // Approves leave, sees everyone's records
	RoleEmployee Role = "EMPLOYEE" // Regular employee
)

var Roles = []Role{RoleAdmin, RoleEmployee}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// IsAdmin checks if the role has administrative access
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
