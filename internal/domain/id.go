package domain

import (
	"github.com/google/uuid"
)

// ID identifies any entity. IDs are opaque UUID strings.
type ID string

// NewID generates a fresh random ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// ParseID validates s as an ID.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", Invalid("id", "%q is not a valid id", s)
	}
	return ID(u.String()), nil
}

func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the ID is empty.
func (id ID) IsZero() bool {
	return id == ""
}

// Short returns the first 8 characters, for display.
func (id ID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}
