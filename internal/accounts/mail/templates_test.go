package mail

import (
	"testing"

	"github.com/veldtlabs/accounts/internal/accounts/domain"

	"github.com/stretchr/testify/require"
)

func TestRenderActivation(t *testing.T) {
	t.Parallel()

	msg, err := Render(domain.Notification{
		Kind:   domain.NotificationActivation,
		To:     "alice@example.com",
		Params: map[string]string{"name": "Alice", "token": "tok-123"},
	}, "https://accounts.example.com/")
	require.NoError(t, err)

	require.Equal(t, "alice@example.com", msg.To)
	require.Equal(t, "Activate your account", msg.Subject)
	require.Contains(t, msg.Body, "Hello Alice")
	require.Contains(t, msg.Body, "https://accounts.example.com/v1/activate/tok-123")
}

func TestRenderResetRequestLinksToResetEndpoint(t *testing.T) {
	t.Parallel()

	msg, err := Render(domain.Notification{
		Kind:   domain.NotificationResetRequest,
		To:     "alice@example.com",
		Params: map[string]string{"token": "tok-456"},
	}, "https://accounts.example.com")
	require.NoError(t, err)

	require.Contains(t, msg.Body, "https://accounts.example.com/v1/password/reset/tok-456")
}

func TestRenderResetConfirmationCarriesPassword(t *testing.T) {
	t.Parallel()

	msg, err := Render(domain.Notification{
		Kind:   domain.NotificationResetConfirmation,
		To:     "alice@example.com",
		Params: map[string]string{"password": "n3wPassw0rd"},
	}, "https://accounts.example.com")
	require.NoError(t, err)

	require.Equal(t, "Your new password", msg.Subject)
	require.Contains(t, msg.Body, "n3wPassw0rd")
}

func TestRenderWelcome(t *testing.T) {
	t.Parallel()

	msg, err := Render(domain.Notification{
		Kind:   domain.NotificationWelcome,
		To:     "alice@example.com",
		Params: map[string]string{"name": "Alice"},
	}, "https://accounts.example.com")
	require.NoError(t, err)

	require.Contains(t, msg.Body, "Welcome, Alice")
}

func TestRenderUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := Render(domain.Notification{Kind: "bogus"}, "https://accounts.example.com")
	require.Error(t, err)
}
