package store

import (
	"context"
	"errors"

	"github.com/veldtlabs/accounts/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Accounts() Accounts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run the read-modify-write flows (activation,
	// update, password reset).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repositories plus
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account (id is assigned by the caller via
	// ULID). A duplicate email surfaces as ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	// GetAccountByID returns an account by id, or ErrNotFound.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail returns an account by its unique email, or ErrNotFound.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// GetAccountByToken returns the account holding the given activation or
	// reset token, or ErrNotFound. Tokens are rotated on consumption, so a
	// stale token never matches.
	GetAccountByToken(ctx context.Context, token string) (domain.Account, error)

	// ListAccounts returns all accounts ordered by creation (oldest first).
	// An empty store yields an empty, non-nil slice.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// UpdateAccount overwrites the mutable fields (name, email,
	// password_hash, enabled, token) and bumps updated_at. A duplicate
	// email surfaces as ErrAlreadyExists; a missing id as ErrNotFound.
	UpdateAccount(ctx context.Context, a domain.Account) error

	// DeleteAccount removes the record. Deleting an absent id is a no-op.
	DeleteAccount(ctx context.Context, id string) error
}
