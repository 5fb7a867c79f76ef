// Package profile computes technician profile completeness and drives the
// onboarding reminders and the founding premium grant built on top of it.
package profile

import (
	"math"
	"time"

	"github.com/flightdeck/aeromatch/internal/matching"
	"github.com/flightdeck/aeromatch/pkg/models"
)

// Checklist holds the five completeness predicates.
type Checklist struct {
	HasLicenseCategory     bool `json:"has_license_category"`
	HasAircraftType        bool `json:"has_aircraft_type"`
	HasSpecialty           bool `json:"has_specialty"`
	HasCurrentAvailability bool `json:"has_current_availability"`
	HasDocuments           bool `json:"has_documents"`
}

// ReminderItem identifies one missing profile section.
type ReminderItem string

const (
	RemindLicenseCategories ReminderItem = "license_categories"
	RemindAircraftTypes     ReminderItem = "aircraft_types"
	RemindSpecialties       ReminderItem = "specialties"
	RemindAvailability      ReminderItem = "availability"
	RemindDocuments         ReminderItem = "documents"
)

// BuildChecklist evaluates the predicates for a technician. A slot counts as
// current availability when its end date is today or later.
func BuildChecklist(t *models.Technician, slots []models.AvailabilitySlot, documentCount int64, today time.Time) Checklist {
	c := Checklist{
		HasDocuments: documentCount > 0,
	}
	if t != nil {
		c.HasLicenseCategory = len(t.LicenseCategories) > 0
		c.HasAircraftType = len(t.AircraftTypes) > 0
		c.HasSpecialty = len(t.Specialties) > 0
	}

	day := today.Format(matching.DayFormat)
	for _, s := range slots {
		if s.EndDate >= day {
			c.HasCurrentAvailability = true
			break
		}
	}

	return c
}

func (c Checklist) count() int {
	n := 0
	for _, ok := range []bool{c.HasLicenseCategory, c.HasAircraftType, c.HasSpecialty, c.HasCurrentAvailability, c.HasDocuments} {
		if ok {
			n++
		}
	}
	return n
}

// Percent is the completion percentage, rounded to the nearest integer.
func (c Checklist) Percent() int {
	return int(math.Round(float64(c.count()) / 5.0 * 100.0))
}

// Missing lists the incomplete sections in the fixed reminder priority order:
// license, aircraft, specialty, availability, documents.
func (c Checklist) Missing() []ReminderItem {
	var out []ReminderItem
	if !c.HasLicenseCategory {
		out = append(out, RemindLicenseCategories)
	}
	if !c.HasAircraftType {
		out = append(out, RemindAircraftTypes)
	}
	if !c.HasSpecialty {
		out = append(out, RemindSpecialties)
	}
	if !c.HasCurrentAvailability {
		out = append(out, RemindAvailability)
	}
	if !c.HasDocuments {
		out = append(out, RemindDocuments)
	}
	return out
}

// QualifiesForFoundingGrant reports whether the profile meets the grant bar:
// at least one capability (license category, aircraft type or specialty),
// current availability, and an uploaded document.
func (c Checklist) QualifiesForFoundingGrant() bool {
	capabilities := c.HasLicenseCategory || c.HasAircraftType || c.HasSpecialty
	return capabilities && c.HasCurrentAvailability && c.HasDocuments
}
