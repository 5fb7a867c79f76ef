// Package jobs is a SQLite-backed background job queue. Notification email
// and reminder work is enqueued here and drained by a worker pool so HTTP
// handlers never block on external services.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Job types handled by this service.
const (
	TypeJobRequestCreated      = "email.job_request_created"
	TypeProfileReminder        = "email.profile_reminder"
	TypeStaleAvailabilityNudge = "email.stale_availability"
)

// JobRequestCreatedPayload carries enough to build the notification without
// re-reading the request row.
type JobRequestCreatedPayload struct {
	JobRequestID int64 `json:"job_request_id"`
	TechnicianID int64 `json:"technician_id"`
	CompanyID    int64 `json:"company_id"`
}

// ProfileReminderPayload targets one technician's incomplete profile.
type ProfileReminderPayload struct {
	UserID  int64    `json:"user_id"`
	Missing []string `json:"missing"`
}

// StaleAvailabilityPayload nudges a technician whose newest slot is old.
type StaleAvailabilityPayload struct {
	UserID  int64 `json:"user_id"`
	DaysOld int   `json:"days_old"`
}

// Job is one row of queued work.
type Job struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	Priority    int             `json:"priority"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	NextTryAt   *time.Time      `json:"next_try_at,omitempty"`
	LastError   string          `json:"last_error,omitempty"`
	Created     time.Time       `json:"created"`
	Updated     time.Time       `json:"updated"`
}

// Handler processes one job.
type Handler func(ctx context.Context, j *Job) error

// ErrMaxAttempts indicates the job reached max attempts
var ErrMaxAttempts = errors.New("max attempts reached")

// BackoffDuration returns exponential backoff duration for attempt n
func BackoffDuration(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	// simple exponential: base 2^attempt seconds, capped
	d := time.Duration(1<<uint(attempt)) * time.Second
	max := 5 * time.Minute
	if d > max {
		return max
	}
	return d
}
