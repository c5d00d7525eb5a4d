package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/clock"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAlert = domain.SecurityAlert{
	ID:          "alert-1",
	EventType:   domain.EventUnauthorizedOrderStatusQuery,
	Severity:    domain.SeverityCritical,
	Description: "Unauthorized attempt to query the status of order order-7",
	UserID:      "u-5",
	UserRole:    "sales",
	OrderID:     "order-7",
	SourceIP:    "198.51.100.4",
	DetectedAt:  time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
}

func TestDispatcher_CaptureMode(t *testing.T) {
	store := &memStore{}
	transport := &memTransport{}
	now := time.Date(2025, 3, 10, 9, 0, 1, 0, time.UTC)
	d := NewDispatcher(store, clock.NewFixed(now), "security@fulfillment.local",
		WithTransport(transport, "alerts@fulfillment.local"))

	err := d.SendAlertEmail(context.Background(), testAlert)
	require.NoError(t, err)

	require.Len(t, store.emails, 1)
	email := store.emails[0]
	assert.NotEmpty(t, email.ID)
	assert.Equal(t, "security@fulfillment.local", email.Recipient)
	assert.Equal(t, "[CRITICAL] Security alert: unauthorized order status query", email.Subject)
	assert.Equal(t, now, email.CreatedAt)

	assert.Contains(t, email.Body, "Alert ID: alert-1")
	assert.Contains(t, email.Body, "Order: order-7")
	assert.Contains(t, email.Body, "Actor: u-5 (role: sales)")
	assert.Contains(t, email.Body, "Source address: 198.51.100.4")
	assert.Contains(t, email.Body, "Detected at: 2025-03-10T09:00:00Z")
	assert.Contains(t, email.Body, testAlert.Description)

	assert.Zero(t, transport.calls, "capture mode must never touch the transport")
}

func TestDispatcher_PlaceholdersForMissingFields(t *testing.T) {
	store := &memStore{}
	d := NewDispatcher(store, clock.NewSystem(), "security@fulfillment.local")

	alert := testAlert
	alert.UserID = ""
	alert.UserRole = ""
	alert.SourceIP = ""
	alert.DetectedAt = time.Time{}

	require.NoError(t, d.SendAlertEmail(context.Background(), alert))
	require.Len(t, store.emails, 1)

	body := store.emails[0].Body
	assert.Contains(t, body, "Actor: unknown (role: not provided)")
	assert.Contains(t, body, "Source address: not provided")
	assert.Contains(t, body, "Detected at: N/A")
}

func TestDispatcher_SMTPModeDelivers(t *testing.T) {
	store := &memStore{}
	transport := &memTransport{}
	d := NewDispatcher(store, clock.NewSystem(), "security@fulfillment.local",
		WithMode(ModeSMTP),
		WithTransport(transport, "alerts@fulfillment.local"))

	require.NoError(t, d.SendAlertEmail(context.Background(), testAlert))

	require.Len(t, store.emails, 1)
	require.Equal(t, 1, transport.calls)
	assert.Equal(t, "alerts@fulfillment.local", transport.lastFrom)
	assert.Equal(t, "security@fulfillment.local", transport.lastTo)
	assert.Equal(t, store.emails[0].Body, transport.lastBody, "recorded and delivered bodies must match")
}

func TestDispatcher_CaptureOnFailureSwallowsDeliveryError(t *testing.T) {
	store := &memStore{}
	transport := &memTransport{err: errors.New("connection refused")}
	d := NewDispatcher(store, clock.NewSystem(), "security@fulfillment.local",
		WithMode(ModeSMTP),
		WithTransport(transport, "alerts@fulfillment.local"))

	err := d.SendAlertEmail(context.Background(), testAlert)
	assert.NoError(t, err, "capture-on-failure policy must swallow delivery errors")
	assert.Len(t, store.emails, 1, "the record must exist regardless of delivery outcome")
}

func TestDispatcher_PropagatesDeliveryErrorWhenPolicyDisabled(t *testing.T) {
	store := &memStore{}
	transport := &memTransport{err: errors.New("connection refused")}
	d := NewDispatcher(store, clock.NewSystem(), "security@fulfillment.local",
		WithMode(ModeSMTP),
		WithTransport(transport, "alerts@fulfillment.local"),
		WithCaptureOnFailure(false))

	err := d.SendAlertEmail(context.Background(), testAlert)
	assert.Error(t, err)
	assert.Len(t, store.emails, 1, "the record is written before the delivery attempt")
}

func TestDispatcher_StoreFailurePropagates(t *testing.T) {
	store := &memStore{err: errors.New("insert failed")}
	transport := &memTransport{}
	d := NewDispatcher(store, clock.NewSystem(), "security@fulfillment.local",
		WithMode(ModeSMTP),
		WithTransport(transport, "alerts@fulfillment.local"))

	err := d.SendAlertEmail(context.Background(), testAlert)
	assert.Error(t, err)
	assert.Zero(t, transport.calls, "no delivery attempt without a record")
}

type memStore struct {
	emails []domain.OutboundEmail
	err    error
}

func (s *memStore) Insert(_ context.Context, email domain.OutboundEmail) error {
	if s.err != nil {
		return s.err
	}
	s.emails = append(s.emails, email)
	return nil
}

type memTransport struct {
	calls    int
	lastFrom string
	lastTo   string
	lastBody string
	err      error
}

func (t *memTransport) Send(_ context.Context, from, to, _, body string) error {
	t.calls++
	t.lastFrom = from
	t.lastTo = to
	t.lastBody = body
	return t.err
}
