package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

type TechniciansHandler struct {
	technicianRepo repository.TechnicianRepo
	userRepo       repository.UserRepo
}

func NewTechniciansHandler(tr repository.TechnicianRepo, ur repository.UserRepo) *TechniciansHandler {
	return &TechniciansHandler{technicianRepo: tr, userRepo: ur}
}

type technicianProfileRequest struct {
	LicenseCategories   []string `json:"license_categories"`
	AircraftTypes       []string `json:"aircraft_types"`
	Specialties         []string `json:"specialties"`
	Languages           []string `json:"languages"`
	OwnTools            bool     `json:"own_tools"`
	RightToWorkUK       bool     `json:"right_to_work_uk"`
	UKLicense           bool     `json:"uk_license"`
	DrivingLicense      bool     `json:"driving_license"`
	IsAvailable         bool     `json:"is_available"`
	VisibilityAnonymous bool     `json:"visibility_anonymous"`
	PassportExpiry      *string  `json:"passport_expiry,omitempty"`
}

// GetOwnProfile returns the caller's technician profile.
func (h *TechniciansHandler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFrom(r)
	if !ok || role != models.RoleTechnician {
		http.Error(w, "technician account required", http.StatusForbidden)
		return
	}

	tech, err := h.technicianRepo.GetTechnician(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	if tech == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, tech, http.StatusOK)
}

// UpdateOwnProfile replaces the caller's technician profile.
func (h *TechniciansHandler) UpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFrom(r)
	if !ok || role != models.RoleTechnician {
		http.Error(w, "technician account required", http.StatusForbidden)
		return
	}

	var req technicianProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	tech := models.Technician{
		UserID:              userID,
		LicenseCategories:   req.LicenseCategories,
		AircraftTypes:       req.AircraftTypes,
		Specialties:         req.Specialties,
		Languages:           req.Languages,
		OwnTools:            req.OwnTools,
		RightToWorkUK:       req.RightToWorkUK,
		UKLicense:           req.UKLicense,
		DrivingLicense:      req.DrivingLicense,
		IsAvailable:         req.IsAvailable,
		VisibilityAnonymous: req.VisibilityAnonymous,
		PassportExpiry:      req.PassportExpiry,
	}
	if err := h.technicianRepo.UpsertTechnician(r.Context(), &tech); err != nil {
		http.Error(w, "failed to save profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, tech, http.StatusOK)
}

type technicianView struct {
	UserID            int64    `json:"user_id"`
	Name              string   `json:"name"`
	LicenseCategories []string `json:"license_categories"`
	AircraftTypes     []string `json:"aircraft_types"`
	Specialties       []string `json:"specialties"`
	Languages         []string `json:"languages"`
	OwnTools          bool     `json:"own_tools"`
	RightToWorkUK     bool     `json:"right_to_work_uk"`
	UKLicense         bool     `json:"uk_license"`
	DrivingLicense    bool     `json:"driving_license"`
}

// GetTechnician lets a company view one technician, honoring the anonymous
// visibility preference by masking the name.
func (h *TechniciansHandler) GetTechnician(w http.ResponseWriter, r *http.Request) {
	_, role, ok := actorFrom(r)
	if !ok || role != models.RoleCompany {
		http.Error(w, "company account required", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid technician id", http.StatusBadRequest)
		return
	}

	tech, err := h.technicianRepo.GetTechnician(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load technician", http.StatusInternalServerError)
		return
	}
	if tech == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), id)
	if err != nil || user == nil {
		http.Error(w, "failed to load technician", http.StatusInternalServerError)
		return
	}

	writeJSON(w, technicianView{
		UserID:            tech.UserID,
		Name:              displayName(user.Name, tech.VisibilityAnonymous),
		LicenseCategories: tech.LicenseCategories,
		AircraftTypes:     tech.AircraftTypes,
		Specialties:       tech.Specialties,
		Languages:         tech.Languages,
		OwnTools:          tech.OwnTools,
		RightToWorkUK:     tech.RightToWorkUK,
		UKLicense:         tech.UKLicense,
		DrivingLicense:    tech.DrivingLicense,
	}, http.StatusOK)
}

func displayName(name string, anonymous bool) string {
	if anonymous {
		return "Anonymous technician"
	}
	return name
}
