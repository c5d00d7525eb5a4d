package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
)

type AlertRepository struct {
	pool *pgxpool.Pool
}

func NewAlertRepository(pool *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{pool: pool}
}

func (r *AlertRepository) CreateAlert(ctx context.Context, alert domain.SecurityAlert) error {
	const stmt = `
INSERT INTO security_alerts (id, event_type, severity, description, user_id, user_role, order_id, source_ip, detected_at, acknowledged)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, stmt,
		alert.ID,
		alert.EventType,
		alert.Severity,
		alert.Description,
		alert.UserID,
		alert.UserRole,
		alert.OrderID,
		alert.SourceIP,
		alert.DetectedAt,
		alert.Acknowledged,
	)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}
