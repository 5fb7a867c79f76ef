package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

func (r *SQLiteRepo) GetEventByExternalID(ctx context.Context, externalID string) (*models.BillingEvent, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, external_id, event_type, payload, processed, received FROM billing_events WHERE external_id = ?`,
		externalID)

	var e models.BillingEvent
	var processed int
	if err := row.Scan(&e.ID, &e.ExternalID, &e.EventType, &e.Payload, &processed, &e.Received); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	e.Processed = processed != 0

	return &e, nil
}

func (r *SQLiteRepo) CreateEvent(ctx context.Context, e *models.BillingEvent) (int64, error) {
	if e == nil {
		return 0, fmt.Errorf("event is nil")
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO billing_events (external_id, event_type, payload, processed, received) VALUES (?, ?, ?, 0, ?)`,
		e.ExternalID, e.EventType, e.Payload, e.Received)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) MarkEventProcessed(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE billing_events SET processed = 1 WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) UpsertSubscription(ctx context.Context, s *models.BillingSubscription) error {
	if s == nil {
		return fmt.Errorf("subscription is nil")
	}

	_, err := r.conn.Exec(ctx,
		`INSERT INTO billing_subscriptions (external_id, user_id, status, period_start, period_end, cancel_at_period_end, updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(external_id) DO UPDATE SET
			user_id = excluded.user_id,
			status = excluded.status,
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			cancel_at_period_end = excluded.cancel_at_period_end,
			updated = excluded.updated`,
		s.ExternalID, s.UserID, s.Status, s.PeriodStart, s.PeriodEnd, boolInt(s.CancelAtPeriodEnd), now())
	return err
}

func (r *SQLiteRepo) GetSubscriptionByExternalID(ctx context.Context, externalID string) (*models.BillingSubscription, error) {
	return r.scanSubscription(r.conn.QueryRow(ctx,
		`SELECT id, external_id, user_id, status, period_start, period_end, cancel_at_period_end, updated
		 FROM billing_subscriptions WHERE external_id = ?`, externalID))
}

func (r *SQLiteRepo) GetSubscriptionByUser(ctx context.Context, userID int64) (*models.BillingSubscription, error) {
	return r.scanSubscription(r.conn.QueryRow(ctx,
		`SELECT id, external_id, user_id, status, period_start, period_end, cancel_at_period_end, updated
		 FROM billing_subscriptions WHERE user_id = ? ORDER BY updated DESC LIMIT 1`, userID))
}

func (r *SQLiteRepo) scanSubscription(row *sql.Row) (*models.BillingSubscription, error) {
	var (
		s          models.BillingSubscription
		start, end sql.NullString
		cancel     int
	)
	if err := row.Scan(&s.ID, &s.ExternalID, &s.UserID, &s.Status, &start, &end, &cancel, &s.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if start.Valid {
		s.PeriodStart = &start.String
	}
	if end.Valid {
		s.PeriodEnd = &end.String
	}
	s.CancelAtPeriodEnd = cancel != 0

	return &s, nil
}
