package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flightdeck/aeromatch/pkg/models"
)

const jobRequestColumns = `id, company_id, technician_id, final_client_name, work_location, country, contract_type, start_date, end_date, notes, status, requires_right_to_work_uk, rated, created, updated`

func (r *SQLiteRepo) CreateJobRequest(ctx context.Context, jr *models.JobRequest) (int64, error) {
	if jr == nil {
		return 0, fmt.Errorf("job request is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO job_requests (company_id, technician_id, final_client_name, work_location, country, contract_type, start_date, end_date, notes, status, requires_right_to_work_uk, created, updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		jr.CompanyID, jr.TechnicianID, jr.FinalClientName, jr.WorkLocation, jr.Country,
		jr.ContractType, jr.StartDate, jr.EndDate, jr.Notes, models.RequestPending,
		boolInt(jr.RequiresRightToWorkUK), ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetJobRequest(ctx context.Context, id int64) (*models.JobRequest, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+jobRequestColumns+` FROM job_requests WHERE id = ?`, id)
	jr, err := scanJobRequest(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return jr, nil
}

func (r *SQLiteRepo) ListJobRequestsForCompany(ctx context.Context, companyID int64, limit, offset int) ([]models.JobRequest, error) {
	return r.listJobRequests(ctx,
		`SELECT `+jobRequestColumns+` FROM job_requests WHERE company_id = ? ORDER BY created DESC, id DESC LIMIT ? OFFSET ?`,
		companyID, normalizeLimit(limit), offset)
}

func (r *SQLiteRepo) ListJobRequestsForTechnician(ctx context.Context, technicianID int64, limit, offset int) ([]models.JobRequest, error) {
	return r.listJobRequests(ctx,
		`SELECT `+jobRequestColumns+` FROM job_requests WHERE technician_id = ? ORDER BY created DESC, id DESC LIMIT ? OFFSET ?`,
		technicianID, normalizeLimit(limit), offset)
}

// TransitionStatus flips the status only when the row still holds the
// expected one, so a concurrent transition loses cleanly.
func (r *SQLiteRepo) TransitionStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	res, err := r.conn.Exec(ctx,
		`UPDATE job_requests SET status = ?, updated = ? WHERE id = ? AND status = ?`,
		to, now(), id, from)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *SQLiteRepo) MarkRated(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE job_requests SET rated = 1, updated = ? WHERE id = ?`, now(), id)
	return err
}

func (r *SQLiteRepo) listJobRequests(ctx context.Context, query string, args ...any) ([]models.JobRequest, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.JobRequest
	for rows.Next() {
		jr, err := scanJobRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *jr)
	}

	return out, rows.Err()
}

func scanJobRequest(scan func(dest ...any) error) (*models.JobRequest, error) {
	var jr models.JobRequest
	var requiresRTW, rated int
	err := scan(&jr.ID, &jr.CompanyID, &jr.TechnicianID, &jr.FinalClientName, &jr.WorkLocation,
		&jr.Country, &jr.ContractType, &jr.StartDate, &jr.EndDate, &jr.Notes, &jr.Status,
		&requiresRTW, &rated, &jr.Created, &jr.Updated)
	if err != nil {
		return nil, err
	}

	jr.RequiresRightToWorkUK = requiresRTW != 0
	jr.Rated = rated != 0

	return &jr, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}
