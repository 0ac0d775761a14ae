// Package utils provides utility functions for the application.
package utils

import (
	"regexp"

	"github.com/google/uuid"
)

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// ParseUUID parses a string into a UUID.
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// IsValidZip reports whether s is a syntactically valid ZIP code: exactly
// 5 ASCII digits. Anything else is a normal negative result for the
// eligibility engine, never an error.
func IsValidZip(s string) bool {
	return zipPattern.MatchString(s)
}
