package domain

// Role is the caller role carried in the access token
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// IsAdmin returns true for administrators
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
