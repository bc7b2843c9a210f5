package domain

import "time"

// Account is the user record. Token is the single active activation-or-reset
// token for the account: consuming it (activation or password reset) replaces
// it with a fresh value, invalidating the consumed one.
type Account struct {
	ID           string
	Name         string
	Email        string // unique across all accounts
	PasswordHash string // argon2id encoded, never plaintext
	Enabled      bool   // false between creation and activation
	Token        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
