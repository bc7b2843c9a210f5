package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/veldtlabs/accounts/internal/accounts/domain"
	"github.com/veldtlabs/accounts/internal/accounts/store"
	"github.com/veldtlabs/accounts/pkg/credential"
	"github.com/veldtlabs/accounts/pkg/cryptox"
	"github.com/veldtlabs/accounts/pkg/idx"
	"github.com/veldtlabs/accounts/pkg/slogx"
)

var (
	ErrMissingFields   = errors.New("name, email and password are required")
	ErrWeakPassword    = errors.New("password does not meet the strength policy")
	ErrEmailTaken      = errors.New("email already registered")
	ErrAccountNotFound = errors.New("account not found")
	ErrTokenNotFound   = errors.New("token is invalid or already used")
)

// Dispatcher consumes the notification intents the lifecycle services emit.
// Delivery is best-effort: a failed send never rolls back a persisted state
// change.
type Dispatcher interface {
	Send(ctx context.Context, n domain.Notification) error
}

// AccountService orchestrates the account lifecycle: registration,
// activation, lookups, profile updates and deletion.
type AccountService struct {
	Store store.Store
	Mail  Dispatcher
	Creds *credential.Generator
}

// Register creates a disabled account holding a fresh activation token and
// emits the activation notification.
func (s *AccountService) Register(
	ctx context.Context,
	name, email, password string,
) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	// 1. All fields are required.
	if strings.TrimSpace(name) == "" ||
		strings.TrimSpace(email) == "" ||
		strings.TrimSpace(password) == "" {
		log.Warn("registration missing required fields")
		return domain.Account{}, ErrMissingFields
	}

	// 2. The password must satisfy the strength policy before hashing.
	if !credential.ValidatePassword(password) {
		log.Warn("registration rejected by password policy", slog.String("email", email))
		return domain.Account{}, ErrWeakPassword
	}

	// 3. One account per email. The UNIQUE constraint is the authority; this
	// early check just produces a friendlier path for the common case.
	if _, err := s.Store.Accounts().GetAccountByEmail(ctx, email); err == nil {
		log.Warn("registration attempted with taken email", slog.String("email", email))
		return domain.Account{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return domain.Account{}, err
	}

	// 4. Hash the password and issue the activation token.
	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Account{}, err
	}

	token, err := s.Creds.Token()
	if err != nil {
		log.Error("failed to generate activation token", slog.Any("error", err))
		return domain.Account{}, err
	}

	// 5. Persist disabled until the token is redeemed.
	account := domain.Account{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Enabled:      false,
		Token:        token,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrEmailTaken
		}
		log.Error("failed to create account", slog.Any("error", err))
		return domain.Account{}, err
	}

	created, err := s.Store.Accounts().GetAccountByID(ctx, account.ID)
	if err != nil {
		log.Error("failed to load created account", slog.Any("error", err))
		return domain.Account{}, err
	}

	log.Info("account registered",
		slog.String("account_id", created.ID),
		slog.String("email", created.Email),
	)

	// 6. Best-effort activation mail carrying the token.
	s.notify(ctx, domain.Notification{
		Kind:   domain.NotificationActivation,
		To:     created.Email,
		Params: map[string]string{"name": created.Name, "token": created.Token},
	})

	return created, nil
}

// Activate redeems an activation token: the account becomes enabled and the
// token is rotated, so a second redemption of the same token fails with
// ErrTokenNotFound. That single-use behavior is intentional.
func (s *AccountService) Activate(ctx context.Context, token string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(token) == "" {
		return domain.Account{}, ErrTokenNotFound
	}

	nextToken, err := s.Creds.Token()
	if err != nil {
		log.Error("failed to generate replacement token", slog.Any("error", err))
		return domain.Account{}, err
	}

	var account domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		account, err = tx.Accounts().GetAccountByToken(ctx, token)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Warn("activation attempted with unknown or consumed token")
				return ErrTokenNotFound
			}
			log.Error("failed to look up activation token", slog.Any("error", err))
			return err
		}

		account.Enabled = true
		account.Token = nextToken
		return tx.Accounts().UpdateAccount(ctx, account)
	})
	if err != nil {
		return domain.Account{}, err
	}

	log.Info("account activated", slog.String("account_id", account.ID))

	s.notify(ctx, domain.Notification{
		Kind:   domain.NotificationWelcome,
		To:     account.Email,
		Params: map[string]string{"name": account.Name},
	})

	return account, nil
}

// GetByID fetches an account by id.
func (s *AccountService) GetByID(ctx context.Context, id string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	return account, err
}

// GetByEmail fetches an account by its unique email.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	return account, err
}

// List returns all accounts; an empty store yields an empty slice.
func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	return s.Store.Accounts().ListAccounts(ctx)
}

// UpdateParams carries the optional profile fields. Blank fields are left
// untouched.
type UpdateParams struct {
	Name     string
	Email    string
	Password string // plaintext; rehashed only when it actually changes
}

// Update selectively overwrites profile fields: a field is written only when
// it is non-blank and differs from the stored value. A changed password must
// independently pass the strength policy, otherwise ErrWeakPassword surfaces
// and nothing is written.
func (s *AccountService) Update(
	ctx context.Context,
	id string,
	params UpdateParams,
) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	var account domain.Account
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		account, err = tx.Accounts().GetAccountByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAccountNotFound
			}
			log.Error("failed to load account for update", slog.Any("error", err))
			return err
		}

		var changed bool

		if name := strings.TrimSpace(params.Name); name != "" && name != account.Name {
			account.Name = name
			changed = true
		}

		if email := strings.TrimSpace(params.Email); email != "" && email != account.Email {
			account.Email = email
			changed = true
		}

		// Rehash only when the plaintext does not match the stored hash.
		if pw := params.Password; strings.TrimSpace(pw) != "" {
			if verr := cryptox.VerifyPassword(pw, account.PasswordHash); verr != nil {
				if !errors.Is(verr, cryptox.ErrMismatch) {
					log.Error("failed to compare password", slog.Any("error", verr))
					return verr
				}
				if !credential.ValidatePassword(pw) {
					log.Warn("update rejected by password policy",
						slog.String("account_id", account.ID),
					)
					return ErrWeakPassword
				}
				hash, herr := cryptox.HashPassword(pw)
				if herr != nil {
					log.Error("failed to hash password", slog.Any("error", herr))
					return herr
				}
				account.PasswordHash = hash
				changed = true
			}
		}

		// All fields blank or unchanged: leave the record untouched.
		if !changed {
			return nil
		}

		if err := tx.Accounts().UpdateAccount(ctx, account); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			log.Error("failed to update account", slog.Any("error", err))
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// Delete removes an account by id. Deleting an absent id is a no-op, per the
// store's native semantics.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Accounts().DeleteAccount(ctx, id); err != nil {
		slogx.FromContext(ctx).Error("failed to delete account",
			slog.String("account_id", id),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// notify sends a notification intent and logs delivery failures instead of
// surfacing them: the state change that triggered the notification is
// already persisted.
func (s *AccountService) notify(ctx context.Context, n domain.Notification) {
	if s.Mail == nil {
		return
	}
	if err := s.Mail.Send(ctx, n); err != nil {
		slogx.FromContext(ctx).Warn("notification delivery failed",
			slog.String("kind", string(n.Kind)),
			slog.Any("error", err),
		)
	}
}
