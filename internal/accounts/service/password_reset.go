package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/veldtlabs/accounts/internal/accounts/domain"
	"github.com/veldtlabs/accounts/internal/accounts/store"
	"github.com/veldtlabs/accounts/pkg/credential"
	"github.com/veldtlabs/accounts/pkg/cryptox"
	"github.com/veldtlabs/accounts/pkg/slogx"
)

// resetPasswordLength is the length of generated replacement passwords.
// The generation alphabet is alphanumeric, so a generated password is not
// guaranteed to satisfy the strength policy.
const resetPasswordLength = 12

// PasswordResetService handles the forgot/reset flows. The reset key is the
// account's current token, so an unconsumed activation token doubles as the
// reset confirmation key.
type PasswordResetService struct {
	Store store.Store
	Mail  Dispatcher
	Creds *credential.Generator
}

// Forget emits a reset-request notification carrying the account's CURRENT
// token. Nothing is mutated at this stage. Unlike the post-mutation mails,
// a delivery failure here surfaces to the caller: the mail is the entire
// point of the operation and no state change has happened yet.
func (s *PasswordResetService) Forget(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("password reset requested for unknown email", slog.String("email", email))
			return ErrAccountNotFound
		}
		log.Error("failed to look up account for reset request", slog.Any("error", err))
		return err
	}

	if s.Mail != nil {
		if err := s.Mail.Send(ctx, domain.Notification{
			Kind:   domain.NotificationResetRequest,
			To:     account.Email,
			Params: map[string]string{"name": account.Name, "token": account.Token},
		}); err != nil {
			log.Error("failed to send reset-request mail", slog.Any("error", err))
			return fmt.Errorf("sending reset request: %w", err)
		}
	}

	log.Info("password reset requested", slog.String("account_id", account.ID))
	return nil
}

// Reset redeems a reset token: a fresh random password is generated, hashed
// and stored, and the token is rotated so it cannot be redeemed twice. The
// account's email and the new plaintext password are returned so the caller
// can relay them; the confirmation mail also carries the plaintext, which is
// the documented behavior of this flow. An unknown token signals
// ErrTokenNotFound; the store is left unchanged.
func (s *PasswordResetService) Reset(
	ctx context.Context,
	token string,
) (email, newPassword string, err error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(token) == "" {
		return "", "", ErrTokenNotFound
	}

	newPassword, err = s.Creds.Password(resetPasswordLength)
	if err != nil {
		log.Error("failed to generate replacement password", slog.Any("error", err))
		return "", "", err
	}

	nextToken, err := s.Creds.Token()
	if err != nil {
		log.Error("failed to generate replacement token", slog.Any("error", err))
		return "", "", err
	}

	var account domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		account, err = tx.Accounts().GetAccountByToken(ctx, token)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Warn("password reset attempted with unknown or consumed token")
				return ErrTokenNotFound
			}
			log.Error("failed to look up reset token", slog.Any("error", err))
			return err
		}

		hash, herr := cryptox.HashPassword(newPassword)
		if herr != nil {
			log.Error("failed to hash replacement password", slog.Any("error", herr))
			return herr
		}

		account.PasswordHash = hash
		account.Token = nextToken
		return tx.Accounts().UpdateAccount(ctx, account)
	})
	if err != nil {
		return "", "", err
	}

	log.Info("password reset completed", slog.String("account_id", account.ID))

	// Best-effort confirmation carrying the new plaintext password.
	if s.Mail != nil {
		if merr := s.Mail.Send(ctx, domain.Notification{
			Kind:   domain.NotificationResetConfirmation,
			To:     account.Email,
			Params: map[string]string{"name": account.Name, "password": newPassword},
		}); merr != nil {
			log.Warn("reset confirmation delivery failed", slog.Any("error", merr))
		}
	}

	return account.Email, newPassword, nil
}
