package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/veldtlabs/accounts/internal/accounts/domain"
	"github.com/veldtlabs/accounts/internal/accounts/store"
	"github.com/veldtlabs/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/veldtlabs/accounts/pkg/credential"

	"github.com/stretchr/testify/require"
)

// recordingDispatcher captures notification intents instead of delivering
// them, and can be flipped to fail every send.
type recordingDispatcher struct {
	mu   sync.Mutex
	sent []domain.Notification
	fail bool
}

var errSendFailed = errors.New("send failed")

func (d *recordingDispatcher) Send(_ context.Context, n domain.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail {
		return errSendFailed
	}
	d.sent = append(d.sent, n)
	return nil
}

func (d *recordingDispatcher) last(t *testing.T) domain.Notification {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	require.NotEmpty(t, d.sent)
	return d.sent[len(d.sent)-1]
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newAccountService(t *testing.T) (*AccountService, *recordingDispatcher) {
	t.Helper()

	dispatcher := &recordingDispatcher{}
	svc := &AccountService{
		Store: newTestStore(t),
		Mail:  dispatcher,
		Creds: credential.NewGenerator(nil),
	}
	return svc, dispatcher
}

func mustRegister(t *testing.T, svc *AccountService, name, email string) domain.Account {
	t.Helper()

	account, err := svc.Register(context.Background(), name, email, "Password@1")
	require.NoError(t, err)
	return account
}
