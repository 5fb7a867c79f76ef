package profile_test

import (
	"testing"
	"time"

	"github.com/flightdeck/aeromatch/internal/profile"
	"github.com/flightdeck/aeromatch/pkg/models"
)

func TestPercentBounds(t *testing.T) {
	var none profile.Checklist
	if got := none.Percent(); got != 0 {
		t.Fatalf("empty checklist: got %d%%, want 0%%", got)
	}

	all := profile.Checklist{
		HasLicenseCategory:     true,
		HasAircraftType:        true,
		HasSpecialty:           true,
		HasCurrentAvailability: true,
		HasDocuments:           true,
	}
	if got := all.Percent(); got != 100 {
		t.Fatalf("full checklist: got %d%%, want 100%%", got)
	}
}

func TestPercentMonotonic(t *testing.T) {
	steps := []func(*profile.Checklist){
		func(c *profile.Checklist) { c.HasLicenseCategory = true },
		func(c *profile.Checklist) { c.HasAircraftType = true },
		func(c *profile.Checklist) { c.HasSpecialty = true },
		func(c *profile.Checklist) { c.HasCurrentAvailability = true },
		func(c *profile.Checklist) { c.HasDocuments = true },
	}

	var c profile.Checklist
	prev := c.Percent()
	for i, step := range steps {
		step(&c)
		cur := c.Percent()
		if cur <= prev {
			t.Fatalf("percent not monotonic at step %d: %d -> %d", i, prev, cur)
		}
		prev = cur
	}
}

func TestMissingOrder(t *testing.T) {
	var c profile.Checklist
	got := c.Missing()
	want := []profile.ReminderItem{
		profile.RemindLicenseCategories,
		profile.RemindAircraftTypes,
		profile.RemindSpecialties,
		profile.RemindAvailability,
		profile.RemindDocuments,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d reminders, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reminder order mismatch at %d: got %v", i, got)
		}
	}
}

func TestBuildChecklist_AvailabilityExpiry(t *testing.T) {
	today := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tech := &models.Technician{UserID: 1, LicenseCategories: []string{"B1"}}

	expired := []models.AvailabilitySlot{{TechnicianID: 1, StartDate: "2025-01-01", EndDate: "2025-05-31"}}
	c := profile.BuildChecklist(tech, expired, 0, today)
	if c.HasCurrentAvailability {
		t.Fatalf("slot ending yesterday must not count as current availability")
	}

	current := []models.AvailabilitySlot{{TechnicianID: 1, StartDate: "2025-01-01", EndDate: "2025-06-01"}}
	c = profile.BuildChecklist(tech, current, 0, today)
	if !c.HasCurrentAvailability {
		t.Fatalf("slot ending today must count as current availability")
	}
	if !c.HasLicenseCategory || c.HasAircraftType || c.HasDocuments {
		t.Fatalf("unexpected predicates: %+v", c)
	}
}

func TestQualifiesForFoundingGrant(t *testing.T) {
	tests := []struct {
		name string
		c    profile.Checklist
		want bool
	}{
		{"nothing", profile.Checklist{}, false},
		{"capability only", profile.Checklist{HasSpecialty: true}, false},
		{"capability and availability, no docs", profile.Checklist{HasSpecialty: true, HasCurrentAvailability: true}, false},
		{"availability and docs, no capability", profile.Checklist{HasCurrentAvailability: true, HasDocuments: true}, false},
		{"specialty counts as capability", profile.Checklist{HasSpecialty: true, HasCurrentAvailability: true, HasDocuments: true}, true},
		{"license counts as capability", profile.Checklist{HasLicenseCategory: true, HasCurrentAvailability: true, HasDocuments: true}, true},
		{"aircraft counts as capability", profile.Checklist{HasAircraftType: true, HasCurrentAvailability: true, HasDocuments: true}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.QualifiesForFoundingGrant(); got != tc.want {
				t.Fatalf("QualifiesForFoundingGrant() = %v, want %v", got, tc.want)
			}
		})
	}
}
