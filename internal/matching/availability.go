// Package matching holds the pure search logic of the marketplace: which
// technicians can cover a requested date range, how fresh their availability
// is, and whether a technician/job pairing needs a right-to-work
// intermediary.
package matching

import (
	"errors"
	"sort"
	"time"
)

// DayFormat is the wire and storage format for calendar dates.
const DayFormat = "2006-01-02"

// Freshness classifies how recently an availability slot was declared.
// Warning starts at exactly 30 days of age, stale at exactly 60.
type Freshness int

const (
	FreshnessFresh Freshness = iota
	FreshnessWarning
	FreshnessStale
)

const (
	freshnessWarningAge = 30 * 24 * time.Hour
	freshnessStaleAge   = 60 * 24 * time.Hour
)

func (f Freshness) String() string {
	switch f {
	case FreshnessFresh:
		return "fresh"
	case FreshnessWarning:
		return "warning"
	case FreshnessStale:
		return "stale"
	}
	return "unknown"
}

// FreshnessOf classifies a slot by its age at the reference time.
func FreshnessOf(created, now time.Time) Freshness {
	age := now.Sub(created)
	switch {
	case age < freshnessWarningAge:
		return FreshnessFresh
	case age < freshnessStaleAge:
		return FreshnessWarning
	default:
		return FreshnessStale
	}
}

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Slot is one technician availability declaration. Start and End are
// inclusive calendar days.
type Slot struct {
	ID           int64
	TechnicianID int64
	Start        time.Time
	End          time.Time
	Created      time.Time
}

// Covers reports whether the slot fully contains the requested range.
func Covers(s Slot, r DateRange) bool {
	return !s.Start.After(r.Start) && !s.End.Before(r.End)
}

// Filters narrow candidates by profile attributes. Each non-empty filter set
// matches when ANY of its elements is present in the candidate's set.
type Filters struct {
	LicenseCategories []string
	AircraftTypes     []string
	Specialties       []string
}

// Candidate is the profile subset the matcher filters on.
type Candidate struct {
	TechnicianID      int64
	LicenseCategories []string
	AircraftTypes     []string
	Specialties       []string
}

// Result is one matched technician with the retained slot and its freshness.
type Result struct {
	TechnicianID int64
	Slot         Slot
	Freshness    Freshness
}

var ErrMissingDateRange = errors.New("start and end dates are required")
var ErrInvalidDateRange = errors.New("start date must not be after end date")

// Match returns the technicians whose availability fully covers the requested
// range, one result per technician. When a technician has several qualifying
// slots only the most recently created one is retained (created descending,
// then slot id descending, so the choice is deterministic). Results are
// sorted by freshness rank ascending; the sort is stable on ties.
func Match(req DateRange, slots []Slot, candidates map[int64]Candidate, f Filters, now time.Time) ([]Result, error) {
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, ErrMissingDateRange
	}
	if req.Start.After(req.End) {
		return nil, ErrInvalidDateRange
	}

	best := make(map[int64]Slot)
	order := make([]int64, 0)
	for _, s := range slots {
		if !Covers(s, req) {
			continue
		}
		cur, seen := best[s.TechnicianID]
		if !seen {
			best[s.TechnicianID] = s
			order = append(order, s.TechnicianID)
			continue
		}
		if newerSlot(s, cur) {
			best[s.TechnicianID] = s
		}
	}

	results := make([]Result, 0, len(order))
	for _, techID := range order {
		cand, ok := candidates[techID]
		if !ok {
			continue
		}
		if !matchesFilters(cand, f) {
			continue
		}
		slot := best[techID]
		results = append(results, Result{
			TechnicianID: techID,
			Slot:         slot,
			Freshness:    FreshnessOf(slot.Created, now),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Freshness < results[j].Freshness
	})

	return results, nil
}

// newerSlot reports whether a should replace b as the retained slot.
func newerSlot(a, b Slot) bool {
	if !a.Created.Equal(b.Created) {
		return a.Created.After(b.Created)
	}
	return a.ID > b.ID
}

func matchesFilters(c Candidate, f Filters) bool {
	if !anyOverlap(f.LicenseCategories, c.LicenseCategories) {
		return false
	}
	if !anyOverlap(f.AircraftTypes, c.AircraftTypes) {
		return false
	}
	return anyOverlap(f.Specialties, c.Specialties)
}

// anyOverlap reports whether any element of filter is present in have. An
// empty filter matches everything.
func anyOverlap(filter, have []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, want := range filter {
		for _, got := range have {
			if want == got {
				return true
			}
		}
	}
	return false
}

// ParseDay parses a "YYYY-MM-DD" string.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}
