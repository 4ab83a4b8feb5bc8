package models

// Role is the three-tier privilege level assigned to a user. Roles are
// totally ordered: user < manager < admin.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Rank returns the ordinal position of the role. Unknown values rank below
// every defined role instead of failing, so a corrupted or legacy role
// string can never grant access it should not have.
func (r Role) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleManager:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleManager || r == RoleAdmin
}
