package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flightdeck/aeromatch/pkg/models"
)

func (r *SQLiteRepo) UpsertRating(ctx context.Context, jr *models.JobRating) error {
	if jr == nil {
		return fmt.Errorf("rating is nil")
	}

	ts := now()
	_, err := r.conn.Exec(ctx,
		`INSERT INTO job_ratings (job_request_id, rater_user_id, rated_user_id, overall, punctuality, skill, communication, reliability, comment, created, updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(job_request_id, rater_user_id, rated_user_id) DO UPDATE SET
			overall = excluded.overall,
			punctuality = excluded.punctuality,
			skill = excluded.skill,
			communication = excluded.communication,
			reliability = excluded.reliability,
			comment = excluded.comment,
			updated = excluded.updated`,
		jr.JobRequestID, jr.RaterUserID, jr.RatedUserID, jr.Overall,
		jr.Punctuality, jr.Skill, jr.Communication, jr.Reliability, jr.Comment, ts, ts)
	return err
}

func (r *SQLiteRepo) GetRating(ctx context.Context, jobRequestID, raterUserID, ratedUserID int64) (*models.JobRating, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, job_request_id, rater_user_id, rated_user_id, overall, punctuality, skill, communication, reliability, comment, created, updated
		 FROM job_ratings WHERE job_request_id = ? AND rater_user_id = ? AND rated_user_id = ?`,
		jobRequestID, raterUserID, ratedUserID)

	var (
		jr                                  models.JobRating
		punctuality, skill, comm, reliable  sql.NullInt64
		comment                             sql.NullString
	)
	err := row.Scan(&jr.ID, &jr.JobRequestID, &jr.RaterUserID, &jr.RatedUserID, &jr.Overall,
		&punctuality, &skill, &comm, &reliable, &comment, &jr.Created, &jr.Updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	jr.Punctuality = nullableInt(punctuality)
	jr.Skill = nullableInt(skill)
	jr.Communication = nullableInt(comm)
	jr.Reliability = nullableInt(reliable)
	if comment.Valid {
		jr.Comment = &comment.String
	}

	return &jr, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
