package domain

import "strings"

// AdministratorRole is the directory role that grants system-wide Owner rights.
const AdministratorRole = "Administrator"

// Actor is the authenticated principal performing an operation.
type Actor struct {
	ID      ID
	Email   string
	IsAdmin bool
}

// IsZero reports whether no principal is set.
func (a Actor) IsZero() bool {
	return a.ID.IsZero()
}

// User is an entry in the user directory.
// Fields are ordered to minimize memory padding.
type User struct {
	ID    ID       `yaml:"id" json:"id"`
	Email string   `yaml:"email" json:"email"`
	Name  string   `yaml:"name,omitempty" json:"name,omitempty"`
	Roles []string `yaml:"roles,omitempty" json:"roles,omitempty"`
}

// IsAdministrator reports whether the user holds the administrator role.
func (u *User) IsAdministrator() bool {
	for _, r := range u.Roles {
		if strings.EqualFold(r, AdministratorRole) {
			return true
		}
	}
	return false
}

// Actor returns the principal for u.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Email: u.Email, IsAdmin: u.IsAdministrator()}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail performs a minimal syntactic check.
func ValidateEmail(email string) error {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t\n") {
		return Invalid("email", "%q is not a valid email address", email)
	}
	if len(email) > MaxEmailLength {
		return Invalid("email", "must be at most %d characters", MaxEmailLength)
	}
	return nil
}
