package sqlite

import (
	"context"
	"fmt"

	"github.com/flightdeck/aeromatch/pkg/models"
)

func (r *SQLiteRepo) CreateSlot(ctx context.Context, s *models.AvailabilitySlot) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("slot is nil")
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO availability_slots (technician_id, start_date, end_date, created) VALUES (?, ?, ?, ?)`,
		s.TechnicianID, s.StartDate, s.EndDate, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) DeleteSlot(ctx context.Context, id, technicianID int64) (bool, error) {
	res, err := r.conn.Exec(ctx,
		`DELETE FROM availability_slots WHERE id = ? AND technician_id = ?`, id, technicianID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *SQLiteRepo) ListSlotsByTechnician(ctx context.Context, technicianID int64) ([]models.AvailabilitySlot, error) {
	return r.listSlots(ctx,
		`SELECT id, technician_id, start_date, end_date, created FROM availability_slots WHERE technician_id = ? ORDER BY start_date, id`,
		technicianID)
}

func (r *SQLiteRepo) ListAllSlots(ctx context.Context) ([]models.AvailabilitySlot, error) {
	return r.listSlots(ctx,
		`SELECT id, technician_id, start_date, end_date, created FROM availability_slots ORDER BY technician_id, start_date, id`)
}

func (r *SQLiteRepo) listSlots(ctx context.Context, query string, args ...any) ([]models.AvailabilitySlot, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AvailabilitySlot
	for rows.Next() {
		var s models.AvailabilitySlot
		if err := rows.Scan(&s.ID, &s.TechnicianID, &s.StartDate, &s.EndDate, &s.Created); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}
