package core

import "fmt"

// Role determines which dashboard view and backend privileges apply
type Role string

const (
	RolePatient   Role = "patient"
	RoleHospital  Role = "hospital"
	RoleBloodBank Role = "bloodbank"
	RoleAdmin     Role = "admin"
)

// ParseRole converts a raw string into a Role.
// Anything outside the enumeration yields ErrInvalidRole.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Valid reports whether the role is a member of the enumeration
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleHospital, RoleBloodBank, RoleAdmin:
		return true
	}
	return false
}

// Declarable reports whether a user may pick this role on the login screen.
// Admin accounts are assigned by the backend only.
func (r Role) Declarable() bool {
	return r.Valid() && r != RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// DeclarableRoles returns the roles offered on the login screen, in display order
func DeclarableRoles() []Role {
	return []Role{RolePatient, RoleHospital, RoleBloodBank}
}
