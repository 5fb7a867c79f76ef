// Package scheduler wires up the cron job that periodically nudges
// technicians about incomplete profiles and stale availability.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flightdeck/aeromatch/internal/jobs"
	"github.com/flightdeck/aeromatch/internal/matching"
	"github.com/flightdeck/aeromatch/internal/profile"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

// Enqueuer is the slice of the worker pool the scheduler needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, typ string, payload any, priority int, maxAttempts int) (int64, error)
}

// Scheduler wraps robfig/cron and runs the daily reminder sweep.
type Scheduler struct {
	cron         *cron.Cron
	technicians  repository.TechnicianRepo
	availability repository.AvailabilityRepo
	documents    repository.DocumentRepo
	queue        Enqueuer
	spec         string
	logger       *slog.Logger
}

func New(technicians repository.TechnicianRepo, availability repository.AvailabilityRepo, documents repository.DocumentRepo, queue Enqueuer, spec string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:         cron.New(),
		technicians:  technicians,
		availability: availability,
		documents:    documents,
		queue:        queue,
		spec:         spec,
		logger:       logger,
	}
}

// Start registers the sweep and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("reminder sweep failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec)
	return nil
}

// Stop shuts the cron loop down and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunOnce walks every technician and enqueues the applicable reminders.
// Per-technician failures are logged and skipped so one bad row cannot stall
// the whole sweep.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	now := time.Now().UTC()

	techs, err := s.technicians.ListTechnicians(ctx)
	if err != nil {
		return fmt.Errorf("list technicians: %w", err)
	}

	var enqueued int
	for i := range techs {
		t := &techs[i]

		slots, err := s.availability.ListSlotsByTechnician(ctx, t.UserID)
		if err != nil {
			s.logger.Error("list slots", "user_id", t.UserID, "err", err)
			continue
		}
		docs, err := s.documents.CountDocumentsByUser(ctx, t.UserID)
		if err != nil {
			s.logger.Error("count documents", "user_id", t.UserID, "err", err)
			continue
		}

		checklist := profile.BuildChecklist(t, slots, docs, now)
		if missing := checklist.Missing(); len(missing) > 0 {
			items := make([]string, len(missing))
			for i, m := range missing {
				items[i] = string(m)
			}
			if _, err := s.queue.Enqueue(ctx, jobs.TypeProfileReminder, jobs.ProfileReminderPayload{UserID: t.UserID, Missing: items}, 100, 3); err != nil {
				s.logger.Error("enqueue profile reminder", "user_id", t.UserID, "err", err)
				continue
			}
			enqueued++
		}

		if newest := newestSlot(slots); newest != nil {
			created := time.UnixMilli(newest.Created).UTC()
			if matching.FreshnessOf(created, now) != matching.FreshnessFresh {
				days := int(now.Sub(created).Hours() / 24)
				if _, err := s.queue.Enqueue(ctx, jobs.TypeStaleAvailabilityNudge, jobs.StaleAvailabilityPayload{UserID: t.UserID, DaysOld: days}, 100, 3); err != nil {
					s.logger.Error("enqueue stale availability nudge", "user_id", t.UserID, "err", err)
					continue
				}
				enqueued++
			}
		}
	}

	s.logger.Info("reminder sweep done", "technicians", len(techs), "enqueued", enqueued)
	return nil
}

func newestSlot(slots []models.AvailabilitySlot) *models.AvailabilitySlot {
	var newest *models.AvailabilitySlot
	for i := range slots {
		s := &slots[i]
		if newest == nil || s.Created > newest.Created || (s.Created == newest.Created && s.ID > newest.ID) {
			newest = s
		}
	}
	return newest
}
