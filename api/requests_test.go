package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/flightdeck/aeromatch/api"
	"github.com/flightdeck/aeromatch/internal/requests"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository/mock"
)

type noopNotifier struct{}

func (noopNotifier) JobRequestCreated(ctx context.Context, req *models.JobRequest) error { return nil }

func requestsRouter(m *mock.Mocks) *mux.Router {
	svc := requests.NewService(m.Requests, m.Acceptances, m.Technicians, noopNotifier{}, nil)
	h := api.NewRequestsHandler(svc, m.Requests, m.Acceptances, m.Ratings)

	r := mux.NewRouter()
	r.HandleFunc("/v1/job-requests", h.CreateRequest).Methods("POST")
	r.HandleFunc("/v1/job-requests", h.ListRequests).Methods("GET")
	r.HandleFunc("/v1/job-requests/{id:[0-9]+}", h.GetRequest).Methods("GET")
	r.HandleFunc("/v1/job-requests/{id:[0-9]+}", h.TransitionRequest).Methods("PATCH")
	return r
}

func authed(r *http.Request, userID int64, role string) *http.Request {
	ctx := context.WithValue(r.Context(), api.CtxUserID, userID)
	ctx = context.WithValue(ctx, api.CtxRole, role)
	return r.WithContext(ctx)
}

func seedPendingRequest(m *mock.Mocks) {
	m.Technicians.ByID[2] = &models.Technician{UserID: 2}
	m.Requests.ByID[1] = &models.JobRequest{
		ID: 1, CompanyID: 10, TechnicianID: 2,
		WorkLocation: "Luton", Country: "UK",
		ContractType: models.ContractShortTerm,
		StartDate:    "2026-03-01", EndDate: "2026-03-15",
		Status: models.RequestPending,
	}
}

func TestCreateRequest(t *testing.T) {
	m := mock.NewMocks()
	m.Technicians.ByID[2] = &models.Technician{UserID: 2}
	router := requestsRouter(m)

	body := map[string]any{
		"technician_id": 2,
		"work_location": "Luton",
		"country":       "UK",
		"contract_type": "short_term",
		"start_date":    "2026-03-01",
		"end_date":      "2026-03-15",
	}

	t.Run("company creates", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodPost, "/v1/job-requests", jsonBody(t, body)), 10, models.RoleCompany)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d (body %q)", w.Code, w.Body.String())
		}
		var got models.JobRequest
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Status != models.RequestPending {
			t.Errorf("status = %q, want pending", got.Status)
		}
	})

	t.Run("technician cannot create", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodPost, "/v1/job-requests", jsonBody(t, body)), 2, models.RoleTechnician)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("unknown technician", func(t *testing.T) {
		bad := map[string]any{}
		for k, v := range body {
			bad[k] = v
		}
		bad["technician_id"] = 99
		req := authed(httptest.NewRequest(http.MethodPost, "/v1/job-requests", jsonBody(t, bad)), 10, models.RoleCompany)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404 (body %q)", w.Code, w.Body.String())
		}
	})
}

func TestTransitionRequest(t *testing.T) {
	accept := map[string]any{
		"status": "accepted",
		"acceptance": map[string]any{
			"work_mode": "self_employed",
		},
	}

	t.Run("technician accepts", func(t *testing.T) {
		m := mock.NewMocks()
		seedPendingRequest(m)
		router := requestsRouter(m)

		req := authed(httptest.NewRequest(http.MethodPatch, "/v1/job-requests/1", jsonBody(t, accept)), 2, models.RoleTechnician)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d (body %q)", w.Code, w.Body.String())
		}
		var got models.JobRequest
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Status != models.RequestAccepted {
			t.Errorf("status = %q", got.Status)
		}
	})

	t.Run("company cannot accept", func(t *testing.T) {
		m := mock.NewMocks()
		seedPendingRequest(m)
		router := requestsRouter(m)

		req := authed(httptest.NewRequest(http.MethodPatch, "/v1/job-requests/1", jsonBody(t, accept)), 10, models.RoleCompany)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("second transition conflicts", func(t *testing.T) {
		m := mock.NewMocks()
		seedPendingRequest(m)
		router := requestsRouter(m)

		req := authed(httptest.NewRequest(http.MethodPatch, "/v1/job-requests/1", jsonBody(t, accept)), 2, models.RoleTechnician)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("first transition status = %d", w.Code)
		}

		req = authed(httptest.NewRequest(http.MethodPatch, "/v1/job-requests/1", jsonBody(t, map[string]any{"status": "rejected"})), 2, models.RoleTechnician)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusConflict {
			t.Fatalf("second transition status = %d, want 409 (body %q)", w.Code, w.Body.String())
		}
	})

	t.Run("company cancels", func(t *testing.T) {
		m := mock.NewMocks()
		seedPendingRequest(m)
		router := requestsRouter(m)

		req := authed(httptest.NewRequest(http.MethodPatch, "/v1/job-requests/1", jsonBody(t, map[string]any{"status": "cancelled"})), 10, models.RoleCompany)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d (body %q)", w.Code, w.Body.String())
		}
	})

	t.Run("bad status", func(t *testing.T) {
		m := mock.NewMocks()
		seedPendingRequest(m)
		router := requestsRouter(m)

		req := authed(httptest.NewRequest(http.MethodPatch, "/v1/job-requests/1", jsonBody(t, map[string]any{"status": "done"})), 2, models.RoleTechnician)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing request", func(t *testing.T) {
		m := mock.NewMocks()
		router := requestsRouter(m)

		req := authed(httptest.NewRequest(http.MethodPatch, "/v1/job-requests/5", jsonBody(t, map[string]any{"status": "cancelled"})), 10, models.RoleCompany)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})
}

func TestGetRequestGuardsParties(t *testing.T) {
	m := mock.NewMocks()
	seedPendingRequest(m)
	router := requestsRouter(m)

	t.Run("party reads", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodGet, "/v1/job-requests/1", nil), 2, models.RoleTechnician)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("outsider blocked", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodGet, "/v1/job-requests/1", nil), 99, models.RoleCompany)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})
}

func TestGetRequestIncludesDetail(t *testing.T) {
	m := mock.NewMocks()
	seedPendingRequest(m)
	router := requestsRouter(m)

	accept := map[string]any{
		"status":     "accepted",
		"acceptance": map[string]any{"work_mode": "self_employed"},
	}
	req := authed(httptest.NewRequest(http.MethodPatch, "/v1/job-requests/1", jsonBody(t, accept)), 2, models.RoleTechnician)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("accept status = %d (body %q)", w.Code, w.Body.String())
	}

	type detail struct {
		models.JobRequest
		Acceptance *models.JobAcceptance `json:"acceptance"`
		Rating     *models.JobRating     `json:"rating"`
	}

	t.Run("acceptance after accept", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodGet, "/v1/job-requests/1", nil), 10, models.RoleCompany)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var got detail
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Acceptance == nil || got.Acceptance.WorkMode != models.WorkModeSelfEmployed {
			t.Fatalf("acceptance = %+v, want self_employed detail", got.Acceptance)
		}
		if got.Rating != nil {
			t.Fatalf("rating = %+v, want nil before rating", got.Rating)
		}
	})

	t.Run("rating after rating", func(t *testing.T) {
		m.Requests.ByID[1].Rated = true
		m.Ratings.Stored = append(m.Ratings.Stored, &models.JobRating{
			JobRequestID: 1, RaterUserID: 10, RatedUserID: 2, Overall: 5,
		})

		req := authed(httptest.NewRequest(http.MethodGet, "/v1/job-requests/1", nil), 2, models.RoleTechnician)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var got detail
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Rating == nil || got.Rating.Overall != 5 {
			t.Fatalf("rating = %+v, want overall 5", got.Rating)
		}
	})
}
