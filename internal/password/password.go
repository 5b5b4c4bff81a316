// Package password wraps the adaptive hash used for stored credentials
// and the strength policy enforced at registration and reset.
package password

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const MinLength = 8

type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash produces a freshly salted digest; two calls with the same
// plaintext never return the same value.
func (h *Hasher) Hash(plaintext string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is
// treated as a non-match, never an error.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// Validate checks the strength policy and returns every violated rule.
func Validate(plaintext string) []string {
	var errs []string
	if len(plaintext) < MinLength {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters", MinLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		errs = append(errs, "Password must contain an uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "Password must contain a lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "Password must contain a digit")
	}
	return errs
}

// PolicyMessage joins rule violations the way the registration
// endpoint reports them.
func PolicyMessage(errs []string) string {
	return strings.Join(errs, ". ")
}
