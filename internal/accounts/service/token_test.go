package service

import (
	"context"
	"testing"
	"time"

	"github.com/veldtlabs/accounts/pkg/credential"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTokenService(t *testing.T) (*TokenService, *AccountService) {
	t.Helper()

	st := newTestStore(t)
	accounts := &AccountService{
		Store: st,
		Mail:  &recordingDispatcher{},
		Creds: credential.NewGenerator(nil),
	}
	tokens := &TokenService{
		Store:  st,
		Secret: []byte("test-signing-secret"),
		Issuer: "accounts-test",
		TTL:    time.Hour,
	}
	return tokens, accounts
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a verifiable token for an activated account", func(t *testing.T) {
		tokens, accounts := newTokenService(t)
		registered := mustRegister(t, accounts, "u", "u@x.com")
		_, err := accounts.Activate(ctx, registered.Token)
		require.NoError(t, err)

		signed, err := tokens.Authenticate(ctx, "u@x.com", "Password@1")
		require.NoError(t, err)

		parsed, err := jwt.ParseWithClaims(signed, &AccessClaims{},
			func(*jwt.Token) (any, error) { return tokens.Secret, nil },
			jwt.WithValidMethods([]string{"HS256"}),
			jwt.WithIssuer("accounts-test"),
		)
		require.NoError(t, err)

		claims := parsed.Claims.(*AccessClaims)
		require.Equal(t, registered.ID, claims.Subject)
		require.Equal(t, "u@x.com", claims.Email)
		require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
	})

	t.Run("rejects a disabled account", func(t *testing.T) {
		tokens, accounts := newTokenService(t)
		mustRegister(t, accounts, "u", "u@x.com")

		_, err := tokens.Authenticate(ctx, "u@x.com", "Password@1")
		require.ErrorIs(t, err, ErrAccountDisabled)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		tokens, accounts := newTokenService(t)
		registered := mustRegister(t, accounts, "u", "u@x.com")
		_, err := accounts.Activate(ctx, registered.Token)
		require.NoError(t, err)

		_, unknownErr := tokens.Authenticate(ctx, "nobody@x.com", "Password@1")
		require.ErrorIs(t, unknownErr, ErrBadCredentials)

		_, wrongErr := tokens.Authenticate(ctx, "u@x.com", "Wrong@Pass1")
		require.ErrorIs(t, wrongErr, ErrBadCredentials)

		require.Equal(t, unknownErr, wrongErr)
	})
}
