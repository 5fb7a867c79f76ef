package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/flightdeck/aeromatch/internal/requests"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

type RatingsHandler struct {
	requestRepo repository.JobRequestRepo
	ratingRepo  repository.RatingRepo
}

func NewRatingsHandler(rr repository.JobRequestRepo, jr repository.RatingRepo) *RatingsHandler {
	return &RatingsHandler{requestRepo: rr, ratingRepo: jr}
}

type rateRequestBody struct {
	Overall       int     `json:"overall"`
	Punctuality   *int    `json:"punctuality,omitempty"`
	Skill         *int    `json:"skill,omitempty"`
	Communication *int    `json:"communication,omitempty"`
	Reliability   *int    `json:"reliability,omitempty"`
	Comment       *string `json:"comment,omitempty"`
}

func validScore(v *int) bool {
	return v == nil || (*v >= 1 && *v <= 5)
}

// RateRequest lets the company party rate the technician on a request that
// has left the pending state. Re-rating replaces the previous scores.
func (h *RatingsHandler) RateRequest(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFrom(r)
	if !ok || role != models.RoleCompany {
		http.Error(w, "company account required", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	var body rateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if body.Overall < 1 || body.Overall > 5 {
		http.Error(w, "overall must be between 1 and 5", http.StatusBadRequest)
		return
	}
	if !validScore(body.Punctuality) || !validScore(body.Skill) || !validScore(body.Communication) || !validScore(body.Reliability) {
		http.Error(w, "sub-scores must be between 1 and 5", http.StatusBadRequest)
		return
	}

	req, err := h.requestRepo.GetJobRequest(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load request", http.StatusInternalServerError)
		return
	}
	if req == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if req.CompanyID != userID {
		http.Error(w, "only the requesting company can rate", http.StatusForbidden)
		return
	}
	if !requests.IsTerminal(requests.Status(req.Status)) {
		http.Error(w, "request is still pending", http.StatusConflict)
		return
	}

	rating := models.JobRating{
		JobRequestID:  id,
		RaterUserID:   userID,
		RatedUserID:   req.TechnicianID,
		Overall:       body.Overall,
		Punctuality:   body.Punctuality,
		Skill:         body.Skill,
		Communication: body.Communication,
		Reliability:   body.Reliability,
		Comment:       body.Comment,
	}
	if err := h.ratingRepo.UpsertRating(r.Context(), &rating); err != nil {
		http.Error(w, "failed to store rating", http.StatusInternalServerError)
		return
	}

	if err := h.requestRepo.MarkRated(r.Context(), id); err != nil {
		// the rating itself is stored; surface the inconsistency in logs only
		logger.Error("mark request rated", "request_id", id, "err", err)
	}

	writeJSON(w, rating, http.StatusOK)
}
