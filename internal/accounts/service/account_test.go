package service

import (
	"context"
	"testing"

	"github.com/veldtlabs/accounts/internal/accounts/domain"
	"github.com/veldtlabs/accounts/pkg/cryptox"

	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a disabled account with a token", func(t *testing.T) {
		svc, dispatcher := newAccountService(t)

		account, err := svc.Register(ctx, "u", "u@x.com", "Password@1")
		require.NoError(t, err)

		require.NotEmpty(t, account.ID)
		require.False(t, account.Enabled)
		require.NotEmpty(t, account.Token)
		require.NoError(t, cryptox.VerifyPassword("Password@1", account.PasswordHash))

		// Round-trip through the email lookup.
		got, err := svc.GetByEmail(ctx, "u@x.com")
		require.NoError(t, err)
		require.Equal(t, account.ID, got.ID)
		require.False(t, got.Enabled)
		require.NotEmpty(t, got.Token)

		// Activation mail carries the token.
		n := dispatcher.last(t)
		require.Equal(t, domain.NotificationActivation, n.Kind)
		require.Equal(t, "u@x.com", n.To)
		require.Equal(t, account.Token, n.Params["token"])
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		svc, _ := newAccountService(t)

		for _, args := range [][3]string{
			{"", "u@x.com", "Password@1"},
			{"u", "", "Password@1"},
			{"u", "u@x.com", ""},
			{"   ", "u@x.com", "Password@1"},
		} {
			_, err := svc.Register(ctx, args[0], args[1], args[2])
			require.ErrorIs(t, err, ErrMissingFields)
		}
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		svc, _ := newAccountService(t)

		_, err := svc.Register(ctx, "u", "u@x.com", "password1")
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("rejects duplicate email and leaves the original intact", func(t *testing.T) {
		svc, _ := newAccountService(t)

		original := mustRegister(t, svc, "first", "dup@x.com")

		_, err := svc.Register(ctx, "second", "dup@x.com", "Password@2")
		require.ErrorIs(t, err, ErrEmailTaken)

		got, err := svc.GetByEmail(ctx, "dup@x.com")
		require.NoError(t, err)
		require.Equal(t, original.ID, got.ID)
		require.Equal(t, "first", got.Name)
	})

	t.Run("succeeds even when the activation mail fails", func(t *testing.T) {
		svc, dispatcher := newAccountService(t)
		dispatcher.fail = true

		account, err := svc.Register(ctx, "u", "nomail@x.com", "Password@1")
		require.NoError(t, err)

		// The account is persisted despite the delivery failure.
		got, err := svc.GetByID(ctx, account.ID)
		require.NoError(t, err)
		require.Equal(t, "nomail@x.com", got.Email)
	})
}

func TestActivate(t *testing.T) {
	ctx := context.Background()

	t.Run("enables the account and rotates the token", func(t *testing.T) {
		svc, dispatcher := newAccountService(t)
		registered := mustRegister(t, svc, "u", "u@x.com")

		activated, err := svc.Activate(ctx, registered.Token)
		require.NoError(t, err)

		require.True(t, activated.Enabled)
		require.NotEqual(t, registered.Token, activated.Token)

		n := dispatcher.last(t)
		require.Equal(t, domain.NotificationWelcome, n.Kind)
		require.Equal(t, "u@x.com", n.To)
	})

	t.Run("consumed token cannot be redeemed twice", func(t *testing.T) {
		svc, _ := newAccountService(t)
		registered := mustRegister(t, svc, "u", "u@x.com")

		_, err := svc.Activate(ctx, registered.Token)
		require.NoError(t, err)

		_, err = svc.Activate(ctx, registered.Token)
		require.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _ := newAccountService(t)

		_, err := svc.Activate(ctx, "no-such-token")
		require.ErrorIs(t, err, ErrTokenNotFound)

		_, err = svc.Activate(ctx, "")
		require.ErrorIs(t, err, ErrTokenNotFound)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("all-blank update is a no-op", func(t *testing.T) {
		svc, _ := newAccountService(t)
		registered := mustRegister(t, svc, "u", "u@x.com")

		before, err := svc.GetByID(ctx, registered.ID)
		require.NoError(t, err)

		_, err = svc.Update(ctx, registered.ID, UpdateParams{})
		require.NoError(t, err)

		after, err := svc.GetByID(ctx, registered.ID)
		require.NoError(t, err)
		require.Equal(t, before, after) // including timestamps
	})

	t.Run("unchanged values are a no-op", func(t *testing.T) {
		svc, _ := newAccountService(t)
		registered := mustRegister(t, svc, "u", "u@x.com")

		before, err := svc.GetByID(ctx, registered.ID)
		require.NoError(t, err)

		_, err = svc.Update(ctx, registered.ID, UpdateParams{
			Name:     "u",
			Email:    "u@x.com",
			Password: "Password@1",
		})
		require.NoError(t, err)

		after, err := svc.GetByID(ctx, registered.ID)
		require.NoError(t, err)
		require.Equal(t, before, after)
	})

	t.Run("overwrites changed fields", func(t *testing.T) {
		svc, _ := newAccountService(t)
		registered := mustRegister(t, svc, "u", "u@x.com")

		updated, err := svc.Update(ctx, registered.ID, UpdateParams{
			Name:  "renamed",
			Email: "renamed@x.com",
		})
		require.NoError(t, err)
		require.Equal(t, "renamed", updated.Name)
		require.Equal(t, "renamed@x.com", updated.Email)

		// Token and enabled flag are untouched by profile updates.
		require.Equal(t, registered.Token, updated.Token)
		require.False(t, updated.Enabled)
	})

	t.Run("rehashes a changed password", func(t *testing.T) {
		svc, _ := newAccountService(t)
		registered := mustRegister(t, svc, "u", "u@x.com")

		updated, err := svc.Update(ctx, registered.ID, UpdateParams{Password: "N3wSecret!ok"})
		require.NoError(t, err)

		require.NoError(t, cryptox.VerifyPassword("N3wSecret!ok", updated.PasswordHash))
		require.ErrorIs(t,
			cryptox.VerifyPassword("Password@1", updated.PasswordHash),
			cryptox.ErrMismatch,
		)
	})

	t.Run("changed but weak password surfaces a policy error", func(t *testing.T) {
		svc, _ := newAccountService(t)
		registered := mustRegister(t, svc, "u", "u@x.com")

		_, err := svc.Update(ctx, registered.ID, UpdateParams{Password: "weakpass"})
		require.ErrorIs(t, err, ErrWeakPassword)

		// Nothing was written.
		got, err := svc.GetByID(ctx, registered.ID)
		require.NoError(t, err)
		require.NoError(t, cryptox.VerifyPassword("Password@1", got.PasswordHash))
	})

	t.Run("missing account", func(t *testing.T) {
		svc, _ := newAccountService(t)

		_, err := svc.Update(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV", UpdateParams{Name: "x"})
		require.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("email conflict", func(t *testing.T) {
		svc, _ := newAccountService(t)
		mustRegister(t, svc, "a", "a@x.com")
		b := mustRegister(t, svc, "b", "b@x.com")

		_, err := svc.Update(ctx, b.ID, UpdateParams{Email: "a@x.com"})
		require.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	registered := mustRegister(t, svc, "u", "u@x.com")

	require.NoError(t, svc.Delete(ctx, registered.ID))

	_, err := svc.GetByID(ctx, registered.ID)
	require.ErrorIs(t, err, ErrAccountNotFound)

	// Deleting an absent id is a silent no-op.
	require.NoError(t, svc.Delete(ctx, registered.ID))
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store yields empty non-nil sequence", func(t *testing.T) {
		svc, _ := newAccountService(t)

		accounts, err := svc.List(ctx)
		require.NoError(t, err)
		require.NotNil(t, accounts)
		require.Empty(t, accounts)
	})

	t.Run("returns every account", func(t *testing.T) {
		svc, _ := newAccountService(t)
		mustRegister(t, svc, "a", "a@x.com")
		mustRegister(t, svc, "b", "b@x.com")

		accounts, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
	})
}

func TestLookupsReportNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	_, err := svc.GetByID(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.GetByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, ErrAccountNotFound)
}
