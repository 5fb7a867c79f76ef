package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

func (r *SQLiteRepo) CreateGrant(ctx context.Context, g *models.PremiumGrant) (int64, error) {
	if g == nil {
		return 0, fmt.Errorf("grant is nil")
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO premium_grants (user_id, grant_type, snapshot, granted, expires) VALUES (?, ?, ?, ?, ?)`,
		g.UserID, g.GrantType, g.Snapshot, g.Granted, g.Expires)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetGrant(ctx context.Context, userID int64, grantType string) (*models.PremiumGrant, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, user_id, grant_type, snapshot, granted, expires FROM premium_grants WHERE user_id = ? AND grant_type = ?`,
		userID, grantType)

	var g models.PremiumGrant
	if err := row.Scan(&g.ID, &g.UserID, &g.GrantType, &g.Snapshot, &g.Granted, &g.Expires); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &g, nil
}
