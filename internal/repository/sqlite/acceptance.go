package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flightdeck/aeromatch/pkg/models"
)

func (r *SQLiteRepo) CreateAcceptance(ctx context.Context, a *models.JobAcceptance) (bool, error) {
	if a == nil {
		return false, fmt.Errorf("acceptance is nil")
	}

	// the UNIQUE index on job_request_id makes a second accept a no-op
	res, err := r.conn.Exec(ctx,
		`INSERT INTO job_acceptances (job_request_id, work_mode, umbrella_provider, bank_account, uk_eligibility_mode, acknowledged, created)
		 VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(job_request_id) DO NOTHING`,
		a.JobRequestID, a.WorkMode, a.UmbrellaProvider, a.BankAccount, a.UKEligibilityMode, boolInt(a.Acknowledged), now())
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *SQLiteRepo) GetAcceptanceByRequest(ctx context.Context, jobRequestID int64) (*models.JobAcceptance, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, job_request_id, work_mode, umbrella_provider, bank_account, uk_eligibility_mode, acknowledged, created
		 FROM job_acceptances WHERE job_request_id = ?`, jobRequestID)

	var (
		a            models.JobAcceptance
		umbrella     sql.NullString
		bank         sql.NullString
		acknowledged int
	)
	if err := row.Scan(&a.ID, &a.JobRequestID, &a.WorkMode, &umbrella, &bank, &a.UKEligibilityMode, &acknowledged, &a.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if umbrella.Valid {
		a.UmbrellaProvider = &umbrella.String
	}
	if bank.Valid {
		a.BankAccount = &bank.String
	}
	a.Acknowledged = acknowledged != 0

	return &a, nil
}
