package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/veldtlabs/accounts/internal/accounts/domain"

	gomail "github.com/wneessen/go-mail"
	"golang.org/x/time/rate"
)

// ErrDelivery reports a transport-level failure. Lifecycle services treat it
// as non-fatal: the persisted state change is never rolled back over a lost
// notification.
var ErrDelivery = errors.New("mail: delivery failed")

// Config holds the SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // sender address
	BaseURL  string // public base URL embedded in activation/reset links

	// SendsPerSecond paces outbound mail so a shared relay is not flooded;
	// zero disables pacing.
	SendsPerSecond float64
}

// SMTPDispatcher renders notification intents and delivers them over SMTP.
type SMTPDispatcher struct {
	client  *gomail.Client
	from    string
	baseURL string
	limiter *rate.Limiter
}

// NewSMTPDispatcher connects the dispatcher to an SMTP relay.
func NewSMTPDispatcher(cfg Config) (*SMTPDispatcher, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: creating smtp client: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.SendsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.SendsPerSecond), 1)
	}

	return &SMTPDispatcher{
		client:  client,
		from:    cfg.From,
		baseURL: cfg.BaseURL,
		limiter: limiter,
	}, nil
}

// Send renders the notification and delivers it. Delivery is single-attempt:
// failures surface as ErrDelivery and are never retried here.
func (d *SMTPDispatcher) Send(ctx context.Context, n domain.Notification) error {
	rendered, err := Render(n, d.baseURL)
	if err != nil {
		return err
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrDelivery, err)
		}
	}

	msg := gomail.NewMsg()
	if err := msg.From(d.from); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	if err := msg.To(rendered.To); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	msg.Subject(rendered.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, rendered.Body)

	if err := d.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}
