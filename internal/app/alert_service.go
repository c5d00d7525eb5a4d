package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/clock"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
)

type AlertRepository interface {
	CreateAlert(ctx context.Context, alert domain.SecurityAlert) error
}

// AlertMailer turns a persisted alert into a notification email.
type AlertMailer interface {
	SendAlertEmail(ctx context.Context, alert domain.SecurityAlert) error
}

type AlertService struct {
	repo   AlertRepository
	mailer AlertMailer
	clock  clock.Clock
	logger *log.Logger
}

func NewAlertService(repo AlertRepository, mailer AlertMailer, clk clock.Clock, logger *log.Logger) *AlertService {
	if logger == nil {
		logger = log.Default()
	}
	return &AlertService{
		repo:   repo,
		mailer: mailer,
		clock:  clk,
		logger: logger,
	}
}

// UnauthorizedAttempt describes one detected unauthorized order-status read.
// Everything but OrderID is optional.
type UnauthorizedAttempt struct {
	OrderID  string
	UserID   string
	UserRole string
	SourceIP string
	Reason   string
}

// RecordUnauthorizedStatusAttempt classifies the attempt, persists the alert
// and dispatches the notification email. Mailer failures are logged and
// discarded: notification is best effort and must never affect the outcome
// for the caller that triggered the alert. The returned int64 is the
// processing time in milliseconds, measured from invocation start to just
// before returning.
func (s *AlertService) RecordUnauthorizedStatusAttempt(ctx context.Context, in UnauthorizedAttempt) (domain.SecurityAlert, int64, error) {
	start := time.Now()

	description := fmt.Sprintf("Unauthorized attempt to query the status of order %s", in.OrderID)
	if in.Reason != "" {
		description += ": " + in.Reason
	}

	alert := domain.SecurityAlert{
		ID:          uuid.NewString(),
		EventType:   domain.EventUnauthorizedOrderStatusQuery,
		Severity:    domain.ClassifySeverity(in.UserRole),
		Description: description,
		UserID:      in.UserID,
		UserRole:    in.UserRole,
		OrderID:     in.OrderID,
		SourceIP:    in.SourceIP,
		DetectedAt:  s.clock.Now(),
	}

	if err := s.repo.CreateAlert(ctx, alert); err != nil {
		return domain.SecurityAlert{}, time.Since(start).Milliseconds(), err
	}

	if s.mailer != nil {
		if err := s.mailer.SendAlertEmail(ctx, alert); err != nil {
			s.logger.Printf("WARN: dispatch alert email for %s: %v", alert.ID, err)
		}
	}

	return alert, time.Since(start).Milliseconds(), nil
}
