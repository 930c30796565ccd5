package entity

import "strings"

// Role decides which operations a user may see and perform.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ParseRole normalises a stored role value. Unknown values map to patient,
// the least privileged role.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleDoctor:
		return RoleDoctor
	default:
		return RolePatient
	}
}

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleDoctor || r == RolePatient
}

// IsStaff reports whether the role sees every appointment.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleDoctor
}
