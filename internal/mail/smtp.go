package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"time"
)

// SMTPTransport delivers mail through a plain SMTP server. net/smtp has no
// context support, so the send runs in a goroutine and the caller-visible
// wait is bounded by the configured timeout.
type SMTPTransport struct {
	addr    string
	timeout time.Duration
}

func NewSMTPTransport(addr string, timeout time.Duration) *SMTPTransport {
	return &SMTPTransport{
		addr:    addr,
		timeout: timeout,
	}
}

func (t *SMTPTransport) Send(ctx context.Context, from, to, subject, body string) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	msg := []byte("From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		body)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(t.addr, nil, from, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}
