package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/flightdeck/aeromatch/internal/jobs"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository/mock"
)

type fakeQueue struct {
	typesSeen []string
	payloads  []any
}

func (q *fakeQueue) Enqueue(ctx context.Context, typ string, payload any, priority, maxAttempts int) (int64, error) {
	q.typesSeen = append(q.typesSeen, typ)
	q.payloads = append(q.payloads, payload)
	return int64(len(q.typesSeen)), nil
}

func day(t time.Time) string { return t.Format("2006-01-02") }

func TestRunOnceEnqueuesReminders(t *testing.T) {
	m := mock.NewMocks()
	now := time.Now().UTC()
	ctx := context.Background()

	// complete and fresh: no reminders
	m.Technicians.ByID[1] = &models.Technician{
		UserID:            1,
		LicenseCategories: []string{"B1"},
		AircraftTypes:     []string{"A320"},
		Specialties:       []string{"avionics"},
	}
	m.Availability.Slots = append(m.Availability.Slots, models.AvailabilitySlot{
		ID: 1, TechnicianID: 1,
		StartDate: day(now), EndDate: day(now.AddDate(0, 1, 0)),
		Created: now.UnixMilli(),
	})
	m.Documents.Stored = append(m.Documents.Stored, &models.Document{ID: 1, UserID: 1, DocType: "license", FileName: "b1.pdf"})

	// incomplete profile, no slots
	m.Technicians.ByID[2] = &models.Technician{UserID: 2}

	// complete but availability declared 45 days ago
	m.Technicians.ByID[3] = &models.Technician{
		UserID:            3,
		LicenseCategories: []string{"B2"},
		AircraftTypes:     []string{"B737"},
		Specialties:       []string{"sheet metal"},
	}
	m.Availability.Slots = append(m.Availability.Slots, models.AvailabilitySlot{
		ID: 2, TechnicianID: 3,
		StartDate: day(now), EndDate: day(now.AddDate(0, 2, 0)),
		Created: now.AddDate(0, 0, -45).UnixMilli(),
	})
	m.Documents.Stored = append(m.Documents.Stored, &models.Document{ID: 2, UserID: 3, DocType: "cv", FileName: "cv.pdf"})

	q := &fakeQueue{}
	s := New(m.Technicians, m.Availability, m.Documents, q, "0 8 * * *", nil)

	if err := s.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	var reminders, nudges int
	for i, typ := range q.typesSeen {
		switch typ {
		case jobs.TypeProfileReminder:
			reminders++
			p := q.payloads[i].(jobs.ProfileReminderPayload)
			if p.UserID != 2 {
				t.Errorf("profile reminder for user %d, want 2", p.UserID)
			}
			if len(p.Missing) != 5 {
				t.Errorf("missing items = %v, want all five", p.Missing)
			}
		case jobs.TypeStaleAvailabilityNudge:
			nudges++
			p := q.payloads[i].(jobs.StaleAvailabilityPayload)
			if p.UserID != 3 {
				t.Errorf("stale nudge for user %d, want 3", p.UserID)
			}
			if p.DaysOld < 44 || p.DaysOld > 46 {
				t.Errorf("DaysOld = %d, want ~45", p.DaysOld)
			}
		default:
			t.Errorf("unexpected job type %q", typ)
		}
	}
	if reminders != 1 {
		t.Errorf("profile reminders = %d, want 1", reminders)
	}
	if nudges != 1 {
		t.Errorf("stale nudges = %d, want 1", nudges)
	}
}

func TestRunOnceEmptyPlatform(t *testing.T) {
	m := mock.NewMocks()
	q := &fakeQueue{}
	s := New(m.Technicians, m.Availability, m.Documents, q, "@daily", nil)

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(q.typesSeen) != 0 {
		t.Errorf("enqueued %v on empty platform", q.typesSeen)
	}
}
