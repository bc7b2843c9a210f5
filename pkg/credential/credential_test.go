package credential

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		password string
		want     bool
	}{
		{"meets all requirements", "Password@1", true},
		{"all character classes, max length", "Aa1!aaaaaaaaaaaaaaaa", true},
		{"missing uppercase and special", "password1", false},
		{"missing special", "Password1", false},
		{"missing digit", "Password@", false},
		{"missing lowercase", "PASSWORD@1", false},
		{"too short", "Pass@1", false},
		{"too long", "Password@1Password@1X", false},
		{"empty", "", false},
		{"special from the fixed set only", "Password1{}", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ValidatePassword(tc.password))
		})
	}
}

func TestGeneratorPassword(t *testing.T) {
	t.Parallel()

	g := NewGenerator(nil)

	t.Run("draws from the alphanumeric alphabet", func(t *testing.T) {
		pw, err := g.Password(32)
		require.NoError(t, err)
		require.Len(t, pw, 32)
		for _, r := range pw {
			require.True(t, strings.ContainsRune(passwordAlphabet, r))
		}
	})

	t.Run("rejects non-positive lengths", func(t *testing.T) {
		_, err := g.Password(0)
		require.Error(t, err)
		_, err = g.Password(-3)
		require.Error(t, err)
	})

	t.Run("deterministic with a seeded source", func(t *testing.T) {
		a, err := NewGenerator(rand.New(rand.NewSource(42))).Password(16)
		require.NoError(t, err)
		b, err := NewGenerator(rand.New(rand.NewSource(42))).Password(16)
		require.NoError(t, err)
		require.Equal(t, a, b)
	})
}

func TestGeneratorToken(t *testing.T) {
	t.Parallel()

	g := NewGenerator(nil)

	a, err := g.Token()
	require.NoError(t, err)
	b, err := g.Token()
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.Len(t, a, 36) // canonical UUID form

	t.Run("deterministic with a seeded source", func(t *testing.T) {
		x, err := NewGenerator(rand.New(rand.NewSource(7))).Token()
		require.NoError(t, err)
		y, err := NewGenerator(rand.New(rand.NewSource(7))).Token()
		require.NoError(t, err)
		require.Equal(t, x, y)
	})
}
