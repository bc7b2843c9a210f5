package domain

// NotificationKind names one of the canned notification templates.
type NotificationKind string

const (
	// NotificationActivation carries the activation link after registration.
	NotificationActivation NotificationKind = "activation"
	// NotificationWelcome confirms a successful activation.
	NotificationWelcome NotificationKind = "welcome"
	// NotificationResetRequest carries the password-reset link.
	NotificationResetRequest NotificationKind = "reset_request"
	// NotificationResetConfirmation carries the newly generated password.
	NotificationResetConfirmation NotificationKind = "reset_confirmation"
)

// Notification is the intent the lifecycle services emit instead of talking
// to a mail transport directly. A dispatcher renders the template named by
// Kind with Params and delivers it to To.
type Notification struct {
	Kind   NotificationKind
	To     string
	Params map[string]string
}
