package auth

type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// CanDecide reports whether the role may approve leave and edit holidays.
func (r Role) CanDecide() bool {
	switch r {
	case RoleOwner, RoleManager, RoleHR:
		return true
	}
	return false
}

// Claims are the access token claims this service reads.
type Claims struct {
	UserID     string
	EmployeeID string
	Role       Role
}
