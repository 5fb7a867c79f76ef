package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/flightdeck/aeromatch/pkg/models"
)

// Array-valued profile columns are stored as JSON text.

const technicianColumns = `user_id, license_categories, aircraft_types, specialties, languages, own_tools, right_to_work_uk, uk_license, driving_license, is_available, visibility_anonymous, passport_expiry, updated`

func (r *SQLiteRepo) UpsertTechnician(ctx context.Context, t *models.Technician) error {
	if t == nil {
		return fmt.Errorf("technician is nil")
	}

	licenses, err := marshalList(t.LicenseCategories)
	if err != nil {
		return err
	}
	aircraft, err := marshalList(t.AircraftTypes)
	if err != nil {
		return err
	}
	specialties, err := marshalList(t.Specialties)
	if err != nil {
		return err
	}
	languages, err := marshalList(t.Languages)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, `INSERT INTO technicians (`+technicianColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			license_categories = excluded.license_categories,
			aircraft_types = excluded.aircraft_types,
			specialties = excluded.specialties,
			languages = excluded.languages,
			own_tools = excluded.own_tools,
			right_to_work_uk = excluded.right_to_work_uk,
			uk_license = excluded.uk_license,
			driving_license = excluded.driving_license,
			is_available = excluded.is_available,
			visibility_anonymous = excluded.visibility_anonymous,
			passport_expiry = excluded.passport_expiry,
			updated = excluded.updated`,
		t.UserID, licenses, aircraft, specialties, languages,
		boolInt(t.OwnTools), boolInt(t.RightToWorkUK), boolInt(t.UKLicense), boolInt(t.DrivingLicense),
		boolInt(t.IsAvailable), boolInt(t.VisibilityAnonymous), t.PassportExpiry, now())
	return err
}

func (r *SQLiteRepo) GetTechnician(ctx context.Context, userID int64) (*models.Technician, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE user_id = ?`, userID)
	t, err := scanTechnicianRow(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return t, nil
}

func (r *SQLiteRepo) ListAvailableTechnicians(ctx context.Context) ([]models.Technician, error) {
	return r.listTechnicians(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE is_available = 1 ORDER BY user_id`)
}

func (r *SQLiteRepo) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	return r.listTechnicians(ctx, `SELECT `+technicianColumns+` FROM technicians ORDER BY user_id`)
}

func (r *SQLiteRepo) listTechnicians(ctx context.Context, query string) ([]models.Technician, error) {
	rows, err := r.conn.QueryRows(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Technician
	for rows.Next() {
		t, err := scanTechnicianRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}

	return out, rows.Err()
}

func scanTechnicianRow(scan func(dest ...any) error) (*models.Technician, error) {
	var (
		t                                       models.Technician
		licenses, aircraft, specialties, langs  string
		ownTools, rtw, ukLicense, driving       int
		available, anonymous                    int
		passportExpiry                          sql.NullString
	)
	err := scan(&t.UserID, &licenses, &aircraft, &specialties, &langs,
		&ownTools, &rtw, &ukLicense, &driving, &available, &anonymous, &passportExpiry, &t.Updated)
	if err != nil {
		return nil, err
	}

	if err := unmarshalList(licenses, &t.LicenseCategories); err != nil {
		return nil, err
	}
	if err := unmarshalList(aircraft, &t.AircraftTypes); err != nil {
		return nil, err
	}
	if err := unmarshalList(specialties, &t.Specialties); err != nil {
		return nil, err
	}
	if err := unmarshalList(langs, &t.Languages); err != nil {
		return nil, err
	}

	t.OwnTools = ownTools != 0
	t.RightToWorkUK = rtw != 0
	t.UKLicense = ukLicense != 0
	t.DrivingLicense = driving != 0
	t.IsAvailable = available != 0
	t.VisibilityAnonymous = anonymous != 0
	if passportExpiry.Valid {
		t.PassportExpiry = &passportExpiry.String
	}

	return &t, nil
}

func marshalList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal list: %w", err)
	}
	return string(b), nil
}

func unmarshalList(s string, dst *[]string) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		return fmt.Errorf("unmarshal list: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
