// Package id provides UUIDv7 generation for all entities.
// UUIDv7 is time-ordered, so documents and lines sort by creation time.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// ParseAll converts a list of strings, failing on the first malformed value.
func ParseAll(values []string) ([]ID, error) {
	out := make([]ID, 0, len(values))
	for _, s := range values {
		v, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// IsNil checks if ID is zero-value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}
