package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/flightdeck/aeromatch/internal/matching"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

type AvailabilityHandler struct {
	availabilityRepo repository.AvailabilityRepo
}

func NewAvailabilityHandler(ar repository.AvailabilityRepo) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityRepo: ar}
}

type createSlotRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *AvailabilityHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFrom(r)
	if !ok || role != models.RoleTechnician {
		http.Error(w, "technician account required", http.StatusForbidden)
		return
	}

	var req createSlotRequest
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
	if start.After(end) {
		http.Error(w, "start_date must not be after end_date", http.StatusBadRequest)
		return
	}

	slot := models.AvailabilitySlot{
		TechnicianID: userID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
	id, err := h.availabilityRepo.CreateSlot(r.Context(), &slot)
	if err != nil {
		http.Error(w, "failed to create slot", http.StatusInternalServerError)
		return
	}
	slot.ID = id

	writeJSON(w, slot, http.StatusCreated)
}

func (h *AvailabilityHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFrom(r)
	if !ok || role != models.RoleTechnician {
		http.Error(w, "technician account required", http.StatusForbidden)
		return
	}

	slots, err := h.availabilityRepo.ListSlotsByTechnician(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list slots", http.StatusInternalServerError)
		return
	}
	if slots == nil {
		slots = []models.AvailabilitySlot{}
	}

	writeJSON(w, slots, http.StatusOK)
}

func (h *AvailabilityHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFrom(r)
	if !ok || role != models.RoleTechnician {
		http.Error(w, "technician account required", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid slot id", http.StatusBadRequest)
		return
	}

	deleted, err := h.availabilityRepo.DeleteSlot(r.Context(), id, userID)
	if err != nil {
		http.Error(w, "failed to delete slot", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
