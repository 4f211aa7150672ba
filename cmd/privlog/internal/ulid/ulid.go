// Package ulid provides ULID generation and validation functionality.
// ULIDs (Universally Unique Lexicographically Sortable Identifiers) are
// 26-character, URL-safe, base32-encoded strings that are sortable by creation time.
// privlog uses them as user row ids.
package ulid

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrInvalidULID indicates that a ULID string is malformed or invalid
	ErrInvalidULID = errors.New("invalid ULID format")
)

// Generate creates a new ULID using the current timestamp and secure random data
func Generate() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// Validate checks if a string is a valid ULID format (26 characters, base32 encoded)
func Validate(str string) error {
	if len(str) != 26 {
		return fmt.Errorf("%w: expected 26 characters, got %d", ErrInvalidULID, len(str))
	}

	// Try to parse the ULID
	if _, err := ulid.Parse(str); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidULID, err)
	}

	return nil
}

// IsValid returns true if the string is a valid ULID, false otherwise
func IsValid(str string) bool {
	return Validate(str) == nil
}
