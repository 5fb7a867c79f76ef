package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/flightdeck/aeromatch/api"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository/mock"
)

func ratingsRouter(m *mock.Mocks) *mux.Router {
	h := api.NewRatingsHandler(m.Requests, m.Ratings)
	r := mux.NewRouter()
	r.HandleFunc("/v1/job-requests/{id:[0-9]+}/rating", h.RateRequest).Methods("PUT")
	return r
}

func seedRequestWithStatus(m *mock.Mocks, status string) {
	m.Requests.ByID[1] = &models.JobRequest{
		ID: 1, CompanyID: 10, TechnicianID: 2, Status: status,
	}
}

func TestRateRequest(t *testing.T) {
	body := map[string]any{"overall": 4}

	t.Run("rates a finished request", func(t *testing.T) {
		m := mock.NewMocks()
		seedRequestWithStatus(m, models.RequestAccepted)
		router := ratingsRouter(m)

		req := authed(httptest.NewRequest(http.MethodPut, "/v1/job-requests/1/rating", jsonBody(t, body)), 10, models.RoleCompany)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d (body %q)", w.Code, w.Body.String())
		}
		if len(m.Ratings.Stored) != 1 || m.Ratings.Stored[0].Overall != 4 {
			t.Fatalf("ratings = %+v", m.Ratings.Stored)
		}
		if !m.Requests.ByID[1].Rated {
			t.Error("request not marked rated")
		}
	})

	t.Run("cancelled request can be rated", func(t *testing.T) {
		m := mock.NewMocks()
		seedRequestWithStatus(m, models.RequestCancelled)
		router := ratingsRouter(m)

		req := authed(httptest.NewRequest(http.MethodPut, "/v1/job-requests/1/rating", jsonBody(t, body)), 10, models.RoleCompany)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 for a terminal request", w.Code)
		}
	})

	t.Run("pending request conflicts", func(t *testing.T) {
		m := mock.NewMocks()
		seedRequestWithStatus(m, models.RequestPending)
		router := ratingsRouter(m)

		req := authed(httptest.NewRequest(http.MethodPut, "/v1/job-requests/1/rating", jsonBody(t, body)), 10, models.RoleCompany)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", w.Code)
		}
	})

	t.Run("technician cannot rate", func(t *testing.T) {
		m := mock.NewMocks()
		seedRequestWithStatus(m, models.RequestAccepted)
		router := ratingsRouter(m)

		req := authed(httptest.NewRequest(http.MethodPut, "/v1/job-requests/1/rating", jsonBody(t, body)), 2, models.RoleTechnician)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("other company cannot rate", func(t *testing.T) {
		m := mock.NewMocks()
		seedRequestWithStatus(m, models.RequestAccepted)
		router := ratingsRouter(m)

		req := authed(httptest.NewRequest(http.MethodPut, "/v1/job-requests/1/rating", jsonBody(t, body)), 99, models.RoleCompany)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("out of range score", func(t *testing.T) {
		m := mock.NewMocks()
		seedRequestWithStatus(m, models.RequestAccepted)
		router := ratingsRouter(m)

		req := authed(httptest.NewRequest(http.MethodPut, "/v1/job-requests/1/rating", jsonBody(t, map[string]any{"overall": 6})), 10, models.RoleCompany)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}
