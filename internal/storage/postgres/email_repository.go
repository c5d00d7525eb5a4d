package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
)

// EmailRepository is the outbound email store: an append-only audit trail of
// every alert notification the dispatcher produced.
type EmailRepository struct {
	pool *pgxpool.Pool
}

func NewEmailRepository(pool *pgxpool.Pool) *EmailRepository {
	return &EmailRepository{pool: pool}
}

func (r *EmailRepository) Insert(ctx context.Context, email domain.OutboundEmail) error {
	const stmt = `
INSERT INTO outbound_emails (id, recipient, subject, body, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, stmt,
		email.ID,
		email.Recipient,
		email.Subject,
		email.Body,
		email.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbound email: %w", err)
	}
	return nil
}

// ListRecent returns up to limit records, newest first.
func (r *EmailRepository) ListRecent(ctx context.Context, limit int) ([]domain.OutboundEmail, error) {
	const query = `
SELECT id, recipient, subject, body, created_at
FROM outbound_emails
ORDER BY created_at DESC, id DESC
LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list outbound emails: %w", err)
	}
	defer rows.Close()

	var emails []domain.OutboundEmail
	for rows.Next() {
		var e domain.OutboundEmail
		if err := rows.Scan(&e.ID, &e.Recipient, &e.Subject, &e.Body, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbound email: %w", err)
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list outbound emails: %w", err)
	}
	return emails, nil
}

func (r *EmailRepository) Clear(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM outbound_emails`); err != nil {
		return fmt.Errorf("clear outbound emails: %w", err)
	}
	return nil
}
