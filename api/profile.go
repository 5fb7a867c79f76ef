package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/flightdeck/aeromatch/internal/profile"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

type ProfileHandler struct {
	technicianRepo   repository.TechnicianRepo
	availabilityRepo repository.AvailabilityRepo
	documentRepo     repository.DocumentRepo
	grants           *profile.GrantService
}

func NewProfileHandler(tr repository.TechnicianRepo, ar repository.AvailabilityRepo, dr repository.DocumentRepo, grants *profile.GrantService) *ProfileHandler {
	return &ProfileHandler{technicianRepo: tr, availabilityRepo: ar, documentRepo: dr, grants: grants}
}

type completionResponse struct {
	Percent   int                    `json:"percent"`
	Checklist profile.Checklist      `json:"checklist"`
	Missing   []profile.ReminderItem `json:"missing"`
}

func (h *ProfileHandler) buildChecklist(r *http.Request, userID int64) (profile.Checklist, error) {
	ctx := r.Context()

	tech, err := h.technicianRepo.GetTechnician(ctx, userID)
	if err != nil {
		return profile.Checklist{}, err
	}
	slots, err := h.availabilityRepo.ListSlotsByTechnician(ctx, userID)
	if err != nil {
		return profile.Checklist{}, err
	}
	docs, err := h.documentRepo.CountDocumentsByUser(ctx, userID)
	if err != nil {
		return profile.Checklist{}, err
	}

	return profile.BuildChecklist(tech, slots, docs, time.Now().UTC()), nil
}

// GetCompletion reports the caller's profile completion state.
func (h *ProfileHandler) GetCompletion(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFrom(r)
	if !ok || role != models.RoleTechnician {
		http.Error(w, "technician account required", http.StatusForbidden)
		return
	}

	checklist, err := h.buildChecklist(r, userID)
	if err != nil {
		http.Error(w, "failed to compute completion", http.StatusInternalServerError)
		return
	}

	missing := checklist.Missing()
	if missing == nil {
		missing = []profile.ReminderItem{}
	}

	writeJSON(w, completionResponse{
		Percent:   checklist.Percent(),
		Checklist: checklist,
		Missing:   missing,
	}, http.StatusOK)
}

type claimResponse struct {
	Grant          *models.PremiumGrant `json:"grant"`
	AlreadyGranted bool                 `json:"already_granted"`
}

// ClaimFoundingGrant hands out the founding premium to qualifying early
// profiles. Claiming twice returns the existing grant, not an error.
func (h *ProfileHandler) ClaimFoundingGrant(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFrom(r)
	if !ok || role != models.RoleTechnician {
		http.Error(w, "technician account required", http.StatusForbidden)
		return
	}

	checklist, err := h.buildChecklist(r, userID)
	if err != nil {
		http.Error(w, "failed to compute completion", http.StatusInternalServerError)
		return
	}

	grant, already, err := h.grants.ClaimFounding(r.Context(), userID, checklist, time.Now().UTC())
	switch {
	case errors.Is(err, profile.ErrPromotionEnded):
		http.Error(w, "the founding promotion has ended", http.StatusConflict)
		return
	case errors.Is(err, profile.ErrNotEligible):
		http.Error(w, "profile does not qualify for the founding grant", http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "failed to process claim", http.StatusInternalServerError)
		return
	}

	status := http.StatusCreated
	if already {
		status = http.StatusOK
	}
	writeJSON(w, claimResponse{Grant: grant, AlreadyGranted: already}, status)
}
