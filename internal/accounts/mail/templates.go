package mail

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/veldtlabs/accounts/internal/accounts/domain"
)

// Message is a rendered notification ready for transport.
type Message struct {
	To      string
	Subject string
	Body    string
}

type templateDef struct {
	subject string
	body    *template.Template
}

// The four canned messages. Activation and reset links embed the token as a
// path segment under the configured base URL; the reset confirmation carries
// the new plaintext password, which is the documented (and sensitive)
// behavior of the reset flow.
var templates = map[domain.NotificationKind]templateDef{
	domain.NotificationActivation: {
		subject: "Activate your account",
		body: tmpl("activation", `Hello {{.name}},

Thanks for registering. Activate your account by visiting:

{{.link}}

The link is valid until used.`),
	},
	domain.NotificationWelcome: {
		subject: "Welcome",
		body: tmpl("welcome", `Welcome, {{.name}}.

Your registration was successfully completed and your account is now active.`),
	},
	domain.NotificationResetRequest: {
		subject: "Password reset requested",
		body: tmpl("reset_request", `A password reset was requested for this account.

To receive a new password, visit:

{{.link}}

If you did not request a reset you can ignore this message.`),
	},
	domain.NotificationResetConfirmation: {
		subject: "Your new password",
		body: tmpl("reset_confirmation", `Your password has been reset.

Your new password is: {{.password}}

Please change it after signing in.`),
	},
}

func tmpl(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}

// Render produces the transport-ready message for a notification intent.
// baseURL is the public address of this service, used to build activation
// and reset links.
func Render(n domain.Notification, baseURL string) (Message, error) {
	def, ok := templates[n.Kind]
	if !ok {
		return Message{}, fmt.Errorf("mail: unknown notification kind %q", n.Kind)
	}

	params := make(map[string]string, len(n.Params)+1)
	for k, v := range n.Params {
		params[k] = v
	}
	if token, ok := n.Params["token"]; ok {
		params["link"] = link(baseURL, n.Kind, token)
	}

	var body strings.Builder
	if err := def.body.Execute(&body, params); err != nil {
		return Message{}, fmt.Errorf("mail: rendering %s: %w", n.Kind, err)
	}

	return Message{To: n.To, Subject: def.subject, Body: body.String()}, nil
}

func link(baseURL string, kind domain.NotificationKind, token string) string {
	base := strings.TrimRight(baseURL, "/")
	switch kind {
	case domain.NotificationResetRequest:
		return base + "/v1/password/reset/" + token
	default:
		return base + "/v1/activate/" + token
	}
}
