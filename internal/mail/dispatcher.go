package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/clock"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
)

// Delivery modes. In ModeCapture the dispatcher stops after recording the
// email; any other mode attempts real delivery through the transport.
const (
	ModeCapture = "capture"
	ModeSMTP    = "smtp"
)

// EmailStore is the durable outbound-email record. Every dispatch writes
// here first, whatever the delivery outcome.
type EmailStore interface {
	Insert(ctx context.Context, email domain.OutboundEmail) error
}

// Transport performs a real delivery attempt.
type Transport interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Dispatcher renders alerts into emails and applies the best-effort
// notification policy:
//
//	capture                  record only, never attempt delivery
//	attempt, capture-on-fail attempt delivery, swallow failures (record exists)
//	attempt, propagate       attempt delivery, surface failures to the caller
type Dispatcher struct {
	store            EmailStore
	transport        Transport
	clock            clock.Clock
	recipient        string
	from             string
	mode             string
	captureOnFailure bool
}

func NewDispatcher(store EmailStore, clk clock.Clock, recipient string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:            store,
		clock:            clk,
		recipient:        recipient,
		mode:             ModeCapture,
		captureOnFailure: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type Option func(*Dispatcher)

// WithMode selects the delivery mode.
func WithMode(mode string) Option {
	return func(d *Dispatcher) {
		if mode != "" {
			d.mode = mode
		}
	}
}

// WithTransport sets the real transport and the sender address used when the
// mode requests actual delivery.
func WithTransport(t Transport, from string) Option {
	return func(d *Dispatcher) {
		d.transport = t
		d.from = from
	}
}

// WithCaptureOnFailure controls whether delivery failures are swallowed
// (true, the default) or propagated to the caller.
func WithCaptureOnFailure(enabled bool) Option {
	return func(d *Dispatcher) {
		d.captureOnFailure = enabled
	}
}

// SendAlertEmail renders the alert, unconditionally records the email in the
// store, then applies the delivery policy. The store write always precedes
// any transport attempt.
func (d *Dispatcher) SendAlertEmail(ctx context.Context, alert domain.SecurityAlert) error {
	subject := fmt.Sprintf("[%s] Security alert: %s", strings.ToUpper(string(alert.Severity)), alert.EventType)
	body := renderBody(alert)

	email := domain.OutboundEmail{
		ID:        uuid.NewString(),
		Recipient: d.recipient,
		Subject:   subject,
		Body:      body,
		CreatedAt: d.clock.Now(),
	}
	if err := d.store.Insert(ctx, email); err != nil {
		return fmt.Errorf("record outbound email: %w", err)
	}

	if d.mode == ModeCapture || d.transport == nil {
		return nil
	}

	if err := d.transport.Send(ctx, d.from, d.recipient, subject, body); err != nil {
		if d.captureOnFailure {
			return nil
		}
		return fmt.Errorf("send alert email: %w", err)
	}
	return nil
}

const (
	placeholderUnknown     = "unknown"
	placeholderNotProvided = "not provided"
	placeholderNA          = "N/A"
)

func renderBody(alert domain.SecurityAlert) string {
	actor := alert.UserID
	if actor == "" {
		actor = placeholderUnknown
	}
	role := alert.UserRole
	if role == "" {
		role = placeholderNotProvided
	}
	source := alert.SourceIP
	if source == "" {
		source = placeholderNotProvided
	}
	detected := placeholderNA
	if !alert.DetectedAt.IsZero() {
		detected = alert.DetectedAt.UTC().Format(time.RFC3339)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Alert ID: %s\n", alert.ID)
	fmt.Fprintf(&b, "Event: %s\n", alert.EventType)
	fmt.Fprintf(&b, "Severity: %s\n", alert.Severity)
	fmt.Fprintf(&b, "Order: %s\n", alert.OrderID)
	fmt.Fprintf(&b, "Actor: %s (role: %s)\n", actor, role)
	fmt.Fprintf(&b, "Source address: %s\n", source)
	fmt.Fprintf(&b, "Detected at: %s\n", detected)
	fmt.Fprintf(&b, "\n%s\n", alert.Description)
	return b.String()
}
