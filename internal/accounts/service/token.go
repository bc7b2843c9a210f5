package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/veldtlabs/accounts/internal/accounts/store"
	"github.com/veldtlabs/accounts/pkg/cryptox"
	"github.com/veldtlabs/accounts/pkg/slogx"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrAccountDisabled = errors.New("account is not activated")
)

// AccessClaims are the claims carried by a minted access token.
type AccessClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
}

// TokenService mints access tokens for activated accounts. This is a thin
// credential check plus an HS256 signature, not a session protocol.
type TokenService struct {
	Store  store.Store
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Authenticate verifies email+password and returns a signed JWT. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *TokenService) Authenticate(ctx context.Context, email, password string) (string, error) {
	log := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("authentication attempted with unknown email")
			return "", ErrBadCredentials
		}
		log.Error("failed to look up account for authentication", slog.Any("error", err))
		return "", err
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			log.Warn("authentication failed", slog.String("account_id", account.ID))
			return "", ErrBadCredentials
		}
		log.Error("failed to verify password", slog.Any("error", err))
		return "", err
	}

	if !account.Enabled {
		log.Warn("authentication attempted on disabled account",
			slog.String("account_id", account.ID),
		)
		return "", ErrAccountDisabled
	}

	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
		Email: account.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		log.Error("failed to sign token", slog.Any("error", err))
		return "", err
	}

	log.Info("access token issued", slog.String("account_id", account.ID))
	return signed, nil
}
