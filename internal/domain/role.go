package domain

import (
	"fmt"
	"strings"
)

// Role is a user's standing within a project.
// Roles are totally ordered: None < Viewer < Member < Owner.
type Role int

const (
	RoleNone Role = iota
	RoleViewer
	RoleMember
	RoleOwner
)

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case RoleViewer:
		return "viewer"
	case RoleMember:
		return "member"
	case RoleOwner:
		return "owner"
	default:
		return "none"
	}
}

// Display returns a human-readable role name.
func (r Role) Display() string {
	switch r {
	case RoleViewer:
		return "Viewer"
	case RoleMember:
		return "Member"
	case RoleOwner:
		return "Owner"
	default:
		return "None"
	}
}

// AtLeast reports whether r is min or higher.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// IsMembership reports whether r can be held by a project member.
func (r Role) IsMembership() bool {
	return r >= RoleViewer && r <= RoleOwner
}

// IsGrantable reports whether r can be granted after project creation.
func (r Role) IsGrantable() bool {
	return r == RoleViewer || r == RoleMember
}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "viewer":
		return RoleViewer, nil
	case "member":
		return RoleMember, nil
	case "owner":
		return RoleOwner, nil
	default:
		return RoleNone, Invalid("role", "unknown role %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	if string(b) == "none" {
		*r = RoleNone
		return nil
	}
	parsed, err := ParseRole(string(b))
	if err != nil {
		return fmt.Errorf("parse role: %w", err)
	}
	*r = parsed
	return nil
}
