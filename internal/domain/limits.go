package domain

import (
	"strings"
	"unicode/utf8"
)

// Field limits.
const (
	MinTitleLength          = 3
	MaxTitleLength          = 100
	MaxTaskTitleLength      = 200
	MaxDescriptionLength    = 1000
	MaxTaskDescriptionLen   = 2000
	MaxImportantNotesLength = 1000
	MaxCompletionNoteLength = 2000
	MaxEmailLength          = 254
	MaxRelationsPerTask     = 20
	DefaultExpirationDays   = 7
)

func validateTitle(title string, max int) (string, error) {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	if n < MinTitleLength || n > max {
		return "", Invalid("title", "must be between %d and %d characters", MinTitleLength, max)
	}
	return title, nil
}

func validateText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > max {
		return "", Invalid(field, "must be at most %d characters", max)
	}
	return value, nil
}
