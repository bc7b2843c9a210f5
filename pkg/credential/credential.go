// Package credential holds the password strength policy and the random
// generation of passwords and account tokens.
package credential

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// SpecialChars is the fixed set of characters that count towards the
// special-character requirement of the password policy.
const SpecialChars = "!@#$%^&*()-_+=<>?/{}[]"

// passwordAlphabet is the alphabet random passwords are drawn from.
// Note it contains no special characters, so a generated password is not
// guaranteed to satisfy ValidatePassword; callers must not assume it does.
const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ValidatePassword reports whether candidate satisfies the strength policy:
// length within [8,20] and at least one uppercase letter, one lowercase
// letter, one digit and one character from SpecialChars.
func ValidatePassword(candidate string) bool {
	if len(candidate) < 8 || len(candidate) > 20 {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range candidate {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(SpecialChars, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// Generator produces random passwords and account tokens from an injectable
// entropy source, so tests can supply a deterministic one.
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a Generator reading from r, or crypto/rand when r is
// nil.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rand: r}
}

// Password draws length characters uniformly from the alphanumeric alphabet.
func (g *Generator) Password(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("credential: password length must be positive, got %d", length)
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(g.rand, max)
		if err != nil {
			return "", fmt.Errorf("credential: generating password: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}

// Token produces an unguessable opaque string used to prove control of an
// account during activation and password reset.
func (g *Generator) Token() (string, error) {
	u, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		return "", fmt.Errorf("credential: generating token: %w", err)
	}
	return u.String(), nil
}
