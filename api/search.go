package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/flightdeck/aeromatch/internal/matching"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

type SearchHandler struct {
	technicianRepo   repository.TechnicianRepo
	availabilityRepo repository.AvailabilityRepo
	userRepo         repository.UserRepo
}

func NewSearchHandler(tr repository.TechnicianRepo, ar repository.AvailabilityRepo, ur repository.UserRepo) *SearchHandler {
	return &SearchHandler{technicianRepo: tr, availabilityRepo: ar, userRepo: ur}
}

type searchRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	LicenseCategories []string `json:"license_categories,omitempty"`
	AircraftTypes     []string `json:"aircraft_types,omitempty"`
	Specialties       []string `json:"specialties,omitempty"`

	// Optional job terms. When present each result carries a match status
	// and, for conditional matches, the suggested umbrella partners.
	Country               string `json:"country,omitempty"`
	RequiresRightToWorkUK bool   `json:"requires_right_to_work_uk,omitempty"`
}

type searchResult struct {
	TechnicianID      int64              `json:"technician_id"`
	Name              string             `json:"name"`
	SlotStart         string             `json:"slot_start"`
	SlotEnd           string             `json:"slot_end"`
	Freshness         string             `json:"freshness"`
	LicenseCategories []string           `json:"license_categories"`
	AircraftTypes     []string           `json:"aircraft_types"`
	Specialties       []string           `json:"specialties"`
	MatchStatus       string             `json:"match_status,omitempty"`
	MatchLegend       string             `json:"match_legend,omitempty"`
	SuggestedPartners []matching.Partner `json:"suggested_partners,omitempty"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
	Total   int            `json:"total"`
}

// SearchTechnicians matches available technicians against a requested date
// range and optional profile filters.
func (h *SearchHandler) SearchTechnicians(w http.ResponseWriter, r *http.Request) {
	_, role, ok := actorFrom(r)
	if !ok || role != models.RoleCompany {
		http.Error(w, "company account required", http.StatusForbidden)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	start, err := matching.ParseDay(req.StartDate)
	if err != nil {
		http.Error(w, "invalid start_date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	end, err := matching.ParseDay(req.EndDate)
	if err != nil {
		http.Error(w, "invalid end_date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// technicians and slots are independent reads
	var (
		wg       sync.WaitGroup
		techs    []models.Technician
		slots    []models.AvailabilitySlot
		techErr  error
		slotsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		techs, techErr = h.technicianRepo.ListAvailableTechnicians(ctx)
	}()
	go func() {
		defer wg.Done()
		slots, slotsErr = h.availabilityRepo.ListAllSlots(ctx)
	}()
	wg.Wait()
	if techErr != nil || slotsErr != nil {
		logger.Error("search reads failed", "tech_err", techErr, "slots_err", slotsErr)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	candidates := make(map[int64]matching.Candidate, len(techs))
	byID := make(map[int64]*models.Technician, len(techs))
	for i := range techs {
		t := &techs[i]
		byID[t.UserID] = t
		candidates[t.UserID] = matching.Candidate{
			TechnicianID:      t.UserID,
			LicenseCategories: t.LicenseCategories,
			AircraftTypes:     t.AircraftTypes,
			Specialties:       t.Specialties,
		}
	}

	matchSlots := make([]matching.Slot, 0, len(slots))
	for _, s := range slots {
		slotStart, err := matching.ParseDay(s.StartDate)
		if err != nil {
			continue
		}
		slotEnd, err := matching.ParseDay(s.EndDate)
		if err != nil {
			continue
		}
		matchSlots = append(matchSlots, matching.Slot{
			ID:           s.ID,
			TechnicianID: s.TechnicianID,
			Start:        slotStart,
			End:          slotEnd,
			Created:      time.UnixMilli(s.Created).UTC(),
		})
	}

	filters := matching.Filters{
		LicenseCategories: req.LicenseCategories,
		AircraftTypes:     req.AircraftTypes,
		Specialties:       req.Specialties,
	}
	matches, err := matching.Match(matching.DateRange{Start: start, End: end}, matchSlots, candidates, filters, time.Now().UTC())
	if err != nil {
		if errors.Is(err, matching.ErrMissingDateRange) || errors.Is(err, matching.ErrInvalidDateRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	results := make([]searchResult, 0, len(matches))
	for _, m := range matches {
		tech := byID[m.TechnicianID]
		if tech == nil {
			continue
		}

		name := "Anonymous technician"
		if !tech.VisibilityAnonymous {
			if u, err := h.userRepo.GetUserByID(ctx, tech.UserID); err == nil && u != nil {
				name = u.Name
			}
		}

		res := searchResult{
			TechnicianID:      m.TechnicianID,
			Name:              name,
			SlotStart:         m.Slot.Start.Format(matching.DayFormat),
			SlotEnd:           m.Slot.End.Format(matching.DayFormat),
			Freshness:         m.Freshness.String(),
			LicenseCategories: tech.LicenseCategories,
			AircraftTypes:     tech.AircraftTypes,
			Specialties:       tech.Specialties,
		}

		if req.Country != "" {
			status, legend := matching.EvaluateMatch(matching.JobTerms{
				Country:               req.Country,
				RequiresRightToWorkUK: req.RequiresRightToWorkUK,
			}, tech.RightToWorkUK)
			res.MatchStatus = string(status)
			res.MatchLegend = legend
			if status == matching.MatchConditional {
				res.SuggestedPartners = matching.SuggestedPartners()
			}
		}

		results = append(results, res)
	}

	writeJSON(w, searchResponse{Results: results, Total: len(results)}, http.StatusOK)
}
