package token

import (
	"fmt"
	"strings"
)

// Role is the access role carried in a session token.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
)

// Roles returns every supported role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleStudent, RoleTeacher}
}

// IsValid reports whether r is one of the supported roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStudent, RoleTeacher:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts user supplied input into a Role, ignoring case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// MarshalText writes the uppercase wire form.
func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("unknown role %q", string(r))
	}
	return []byte(r), nil
}

// UnmarshalText only accepts the exact uppercase wire form.
func (r *Role) UnmarshalText(text []byte) error {
	v := Role(text)
	if !v.IsValid() {
		return fmt.Errorf("unknown role %q", string(text))
	}
	*r = v
	return nil
}

// containsRole reports whether role is a member of allowed.
func containsRole(allowed []Role, role Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
