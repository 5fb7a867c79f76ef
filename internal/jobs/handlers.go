package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/flightdeck/aeromatch/internal/mailer"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

// Handlers builds the handler table for the email job types. Lookups that
// come back empty (user deleted between enqueue and run) finish the job
// instead of retrying it.
func Handlers(users repository.UserRepo, requests repository.JobRequestRepo, mail *mailer.Client, logger *slog.Logger) map[string]Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &emailHandlers{users: users, requests: requests, mail: mail, logger: logger}
	return map[string]Handler{
		TypeJobRequestCreated:      h.jobRequestCreated,
		TypeProfileReminder:        h.profileReminder,
		TypeStaleAvailabilityNudge: h.staleAvailability,
	}
}

type emailHandlers struct {
	users    repository.UserRepo
	requests repository.JobRequestRepo
	mail     *mailer.Client
	logger   *slog.Logger
}

func (h *emailHandlers) jobRequestCreated(ctx context.Context, j *Job) error {
	var p JobRequestCreatedPayload
	if err := json.Unmarshal(j.Payload, &p); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	req, err := h.requests.GetJobRequest(ctx, p.JobRequestID)
	if err != nil {
		return fmt.Errorf("load job request %d: %w", p.JobRequestID, err)
	}
	if req == nil {
		h.logger.Warn("job request gone, dropping notification", "job_request_id", p.JobRequestID)
		return nil
	}

	tech, err := h.users.GetUserByID(ctx, p.TechnicianID)
	if err != nil {
		return fmt.Errorf("load technician %d: %w", p.TechnicianID, err)
	}
	company, err := h.users.GetUserByID(ctx, p.CompanyID)
	if err != nil {
		return fmt.Errorf("load company %d: %w", p.CompanyID, err)
	}
	if tech == nil || company == nil {
		h.logger.Warn("party gone, dropping notification", "job_request_id", p.JobRequestID)
		return nil
	}

	return h.mail.SendJobRequestNotification(ctx, tech.Email, company.Name, req.WorkLocation, req.StartDate, req.EndDate)
}

func (h *emailHandlers) profileReminder(ctx context.Context, j *Job) error {
	var p ProfileReminderPayload
	if err := json.Unmarshal(j.Payload, &p); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	u, err := h.users.GetUserByID(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("load user %d: %w", p.UserID, err)
	}
	if u == nil || u.Role != models.RoleTechnician {
		return nil
	}

	return h.mail.SendProfileReminder(ctx, u.Email, p.Missing)
}

func (h *emailHandlers) staleAvailability(ctx context.Context, j *Job) error {
	var p StaleAvailabilityPayload
	if err := json.Unmarshal(j.Payload, &p); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	u, err := h.users.GetUserByID(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("load user %d: %w", p.UserID, err)
	}
	if u == nil {
		return nil
	}

	return h.mail.SendStaleAvailabilityReminder(ctx, u.Email, p.DaysOld)
}

// Notifier adapts the queue to the request service's notification hook:
// creating a request enqueues the technician email instead of sending inline.
type Notifier struct {
	pool *WorkerPool
}

func NewNotifier(pool *WorkerPool) *Notifier { return &Notifier{pool: pool} }

func (n *Notifier) JobRequestCreated(ctx context.Context, req *models.JobRequest) error {
	_, err := n.pool.Enqueue(ctx, TypeJobRequestCreated, JobRequestCreatedPayload{
		JobRequestID: req.ID,
		TechnicianID: req.TechnicianID,
		CompanyID:    req.CompanyID,
	}, 10, 5)
	return err
}
