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

type RequestsHandler struct {
	svc            *requests.Service
	requestRepo    repository.JobRequestRepo
	acceptanceRepo repository.AcceptanceRepo
	ratingRepo     repository.RatingRepo
}

func NewRequestsHandler(svc *requests.Service, rr repository.JobRequestRepo, ar repository.AcceptanceRepo, ra repository.RatingRepo) *RequestsHandler {
	return &RequestsHandler{svc: svc, requestRepo: rr, acceptanceRepo: ar, ratingRepo: ra}
}

type createRequestBody struct {
	TechnicianID          int64  `json:"technician_id"`
	FinalClientName       string `json:"final_client_name"`
	WorkLocation          string `json:"work_location"`
	Country               string `json:"country"`
	ContractType          string `json:"contract_type"`
	StartDate             string `json:"start_date"`
	EndDate               string `json:"end_date"`
	Notes                 string `json:"notes"`
	RequiresRightToWorkUK bool   `json:"requires_right_to_work_uk"`
}

func (h *RequestsHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req, err := h.svc.Create(r.Context(), requests.Actor{UserID: userID, Role: role}, requests.CreateInput{
		TechnicianID:          body.TechnicianID,
		FinalClientName:       body.FinalClientName,
		WorkLocation:          body.WorkLocation,
		Country:               body.Country,
		ContractType:          body.ContractType,
		StartDate:             body.StartDate,
		EndDate:               body.EndDate,
		Notes:                 body.Notes,
		RequiresRightToWorkUK: body.RequiresRightToWorkUK,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, req, http.StatusCreated)
}

// ListRequests returns the caller's requests: sent ones for companies,
// received ones for technicians.
func (h *RequestsHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	limit := 50
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	offset := 0
	if o := q.Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	var (
		list []models.JobRequest
		err  error
	)
	switch role {
	case models.RoleCompany:
		list, err = h.requestRepo.ListJobRequestsForCompany(r.Context(), userID, limit, offset)
	case models.RoleTechnician:
		list, err = h.requestRepo.ListJobRequestsForTechnician(r.Context(), userID, limit, offset)
	default:
		http.Error(w, "unknown role", http.StatusForbidden)
		return
	}
	if err != nil {
		http.Error(w, "failed to list requests", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.JobRequest{}
	}

	writeJSON(w, map[string]any{"items": list, "limit": limit, "offset": offset}, http.StatusOK)
}

type requestDetail struct {
	models.JobRequest
	Acceptance *models.JobAcceptance `json:"acceptance,omitempty"`
	Rating     *models.JobRating     `json:"rating,omitempty"`
}

// GetRequest returns one request to its parties, together with the
// acceptance detail once accepted and the company's rating once rated.
func (h *RequestsHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid request id", http.StatusBadRequest)
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
	if req.CompanyID != userID && req.TechnicianID != userID {
		http.Error(w, "not a party of this request", http.StatusForbidden)
		return
	}

	detail := requestDetail{JobRequest: *req}
	if req.Status == models.RequestAccepted {
		acc, err := h.acceptanceRepo.GetAcceptanceByRequest(r.Context(), req.ID)
		if err != nil {
			logger.Error("load acceptance", "request_id", req.ID, "err", err)
		}
		detail.Acceptance = acc
	}
	if req.Rated {
		rating, err := h.ratingRepo.GetRating(r.Context(), req.ID, req.CompanyID, req.TechnicianID)
		if err != nil {
			logger.Error("load rating", "request_id", req.ID, "err", err)
		}
		detail.Rating = rating
	}

	writeJSON(w, detail, http.StatusOK)
}

type transitionBody struct {
	Status     string `json:"status"`
	Acceptance *struct {
		WorkMode          string `json:"work_mode"`
		UmbrellaProvider  string `json:"umbrella_provider"`
		BankAccount       string `json:"bank_account"`
		UKEligibilityMode string `json:"uk_eligibility_mode"`
		Acknowledged      bool   `json:"acknowledged"`
	} `json:"acceptance,omitempty"`
}

// TransitionRequest moves a pending request to accepted, rejected or
// cancelled.
func (h *RequestsHandler) TransitionRequest(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	var body transitionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	status, err := requests.ParseStatus(body.Status)
	if err != nil {
		http.Error(w, "status must be one of accepted, rejected, cancelled", http.StatusBadRequest)
		return
	}

	var acc *requests.AcceptanceInput
	if body.Acceptance != nil {
		acc = &requests.AcceptanceInput{
			WorkMode:          body.Acceptance.WorkMode,
			UmbrellaProvider:  body.Acceptance.UmbrellaProvider,
			BankAccount:       body.Acceptance.BankAccount,
			UKEligibilityMode: body.Acceptance.UKEligibilityMode,
			Acknowledged:      body.Acceptance.Acknowledged,
		}
	}

	req, err := h.svc.Transition(r.Context(), requests.Actor{UserID: userID, Role: role}, id, status, acc)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, req, http.StatusOK)
}
