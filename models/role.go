package models

import "fmt"

// Role is the closed set of caller roles recognised by the platform.
type Role string

const (
	RoleUser         Role = "user"
	RolePsychologist Role = "psychologist"
	RoleAdmin        Role = "admin"
	RoleSuperAdmin   Role = "superadmin"
)

var allRoles = map[Role]bool{
	RoleUser:         true,
	RolePsychologist: true,
	RoleAdmin:        true,
	RoleSuperAdmin:   true,
}

// ParseRole validates a raw role string against the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !allRoles[r] {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	return allRoles[r]
}

// IsStaff reports whether the role carries platform-wide administrative rights.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}
