// Package sqlite implements the repository interfaces using the internal DB
// wrapper. One SQLiteRepo serves every interface.
package sqlite

import (
	"strings"
	"time"

	"github.com/flightdeck/aeromatch/internal/db"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn *db.DB
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.TechnicianRepo = (*SQLiteRepo)(nil)
var _ repository.AvailabilityRepo = (*SQLiteRepo)(nil)
var _ repository.JobRequestRepo = (*SQLiteRepo)(nil)
var _ repository.AcceptanceRepo = (*SQLiteRepo)(nil)
var _ repository.RatingRepo = (*SQLiteRepo)(nil)
var _ repository.PremiumRepo = (*SQLiteRepo)(nil)
var _ repository.DocumentRepo = (*SQLiteRepo)(nil)
var _ repository.BillingRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB) *SQLiteRepo {
	return &SQLiteRepo{conn: conn}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// isUniqueViolation recognizes the driver's UNIQUE constraint error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
