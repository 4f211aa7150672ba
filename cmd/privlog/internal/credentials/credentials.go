// Package credentials provides password hashing and verification using
// bcrypt. Digests are self-describing: the algorithm version, cost factor
// and salt are embedded in the encoded string, so verification needs no
// external state.
package credentials

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost factor used by the package-level helpers.
// Cost is a tuning parameter: each increment doubles the hashing time.
const DefaultCost = bcrypt.DefaultCost

var (
	// ErrInvalidCost indicates a cost factor outside the range supported
	// by bcrypt. A cost error is a configuration error and is never
	// downgraded to a weaker hash.
	ErrInvalidCost = errors.New("invalid bcrypt cost factor")
)

// Hasher hashes and verifies passwords with a fixed cost factor.
// It holds no mutable state and is safe for concurrent use.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given cost factor. A cost of 0
// selects DefaultCost; any other value outside [bcrypt.MinCost,
// bcrypt.MaxCost] is rejected.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidCost, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

// Cost returns the configured cost factor.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt digest of plaintext. A fresh random salt
// is generated per call, so hashing the same plaintext twice yields two
// different digests, both of which verify. Empty plaintext is valid input
// and produces a valid digest.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. It recomputes the hash
// with the salt and cost embedded in digest and compares in constant time.
// Every failure returns false: wrong password, malformed digest and empty
// input are indistinguishable to the caller.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// NeedsRehash reports whether digest was produced with a cost factor
// different from the hasher's. Malformed digests need rehashing.
func (h *Hasher) NeedsRehash(digest string) bool {
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		return true
	}
	return cost != h.cost
}

// defaultHasher backs the package-level helpers. DefaultCost is always in
// range, so construction cannot fail.
var defaultHasher = &Hasher{cost: DefaultCost}

// HashPassword hashes plaintext with the default cost factor.
func HashPassword(plaintext string) (string, error) {
	return defaultHasher.Hash(plaintext)
}

// VerifyPassword reports whether plaintext matches digest.
func VerifyPassword(plaintext, digest string) bool {
	return defaultHasher.Verify(plaintext, digest)
}
