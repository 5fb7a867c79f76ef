package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flightdeck/aeromatch/api"
	"github.com/flightdeck/aeromatch/internal/profile"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository/mock"
)

func seedCompleteProfile(m *mock.Mocks, userID int64, now time.Time) {
	m.Technicians.ByID[userID] = &models.Technician{
		UserID:            userID,
		LicenseCategories: []string{"B1"},
		AircraftTypes:     []string{"A320"},
		Specialties:       []string{"avionics"},
		IsAvailable:       true,
	}
	m.Availability.Slots = append(m.Availability.Slots, models.AvailabilitySlot{
		ID:           1,
		TechnicianID: userID,
		StartDate:    now.Format("2006-01-02"),
		EndDate:      now.AddDate(0, 1, 0).Format("2006-01-02"),
		Created:      now.UnixMilli(),
	})
	m.Documents.Stored = append(m.Documents.Stored, &models.Document{
		ID: 1, UserID: userID, DocType: "cv", FileName: "cv.pdf",
	})
}

func profileHandler(m *mock.Mocks, cutoff time.Time) *api.ProfileHandler {
	grants := profile.NewGrantService(m.Premiums, cutoff, nil)
	return api.NewProfileHandler(m.Technicians, m.Availability, m.Documents, grants)
}

func TestGetCompletion(t *testing.T) {
	now := time.Now().UTC()

	t.Run("company role rejected", func(t *testing.T) {
		h := profileHandler(mock.NewMocks(), now.AddDate(1, 0, 0))
		req := authed(httptest.NewRequest(http.MethodGet, "/v1/profile/completion", nil), 5, models.RoleCompany)
		w := httptest.NewRecorder()
		h.GetCompletion(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("complete profile scores 100", func(t *testing.T) {
		m := mock.NewMocks()
		seedCompleteProfile(m, 5, now)
		h := profileHandler(m, now.AddDate(1, 0, 0))

		req := authed(httptest.NewRequest(http.MethodGet, "/v1/profile/completion", nil), 5, models.RoleTechnician)
		w := httptest.NewRecorder()
		h.GetCompletion(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d (body %q)", w.Code, w.Body.String())
		}
		var resp struct {
			Percent int      `json:"percent"`
			Missing []string `json:"missing"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Percent != 100 {
			t.Errorf("percent = %d, want 100", resp.Percent)
		}
		if len(resp.Missing) != 0 {
			t.Errorf("missing = %v, want empty", resp.Missing)
		}
	})

	t.Run("empty profile lists every reminder", func(t *testing.T) {
		m := mock.NewMocks()
		m.Technicians.ByID[5] = &models.Technician{UserID: 5, IsAvailable: true}
		h := profileHandler(m, now.AddDate(1, 0, 0))

		req := authed(httptest.NewRequest(http.MethodGet, "/v1/profile/completion", nil), 5, models.RoleTechnician)
		w := httptest.NewRecorder()
		h.GetCompletion(w, req)

		var resp struct {
			Percent int      `json:"percent"`
			Missing []string `json:"missing"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Percent != 0 {
			t.Errorf("percent = %d, want 0", resp.Percent)
		}
		if len(resp.Missing) != 5 {
			t.Errorf("missing = %v, want 5 items", resp.Missing)
		}
	})
}

func TestClaimFoundingGrant(t *testing.T) {
	now := time.Now().UTC()

	t.Run("qualifying claim", func(t *testing.T) {
		m := mock.NewMocks()
		seedCompleteProfile(m, 5, now)
		h := profileHandler(m, now.AddDate(1, 0, 0))

		req := authed(httptest.NewRequest(http.MethodPost, "/v1/premium/founding-claim", nil), 5, models.RoleTechnician)
		w := httptest.NewRecorder()
		h.ClaimFoundingGrant(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d (body %q)", w.Code, w.Body.String())
		}
		var resp struct {
			Grant          *models.PremiumGrant `json:"grant"`
			AlreadyGranted bool                 `json:"already_granted"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Grant == nil || resp.AlreadyGranted {
			t.Fatalf("resp = %+v", resp)
		}
	})

	t.Run("second claim returns existing grant", func(t *testing.T) {
		m := mock.NewMocks()
		seedCompleteProfile(m, 5, now)
		h := profileHandler(m, now.AddDate(1, 0, 0))

		first := authed(httptest.NewRequest(http.MethodPost, "/v1/premium/founding-claim", nil), 5, models.RoleTechnician)
		h.ClaimFoundingGrant(httptest.NewRecorder(), first)

		second := authed(httptest.NewRequest(http.MethodPost, "/v1/premium/founding-claim", nil), 5, models.RoleTechnician)
		w := httptest.NewRecorder()
		h.ClaimFoundingGrant(w, second)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 on repeat claim", w.Code)
		}
		var resp struct {
			AlreadyGranted bool `json:"already_granted"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.AlreadyGranted {
			t.Fatal("expected already_granted on repeat claim")
		}
		if len(m.Premiums.Stored) != 1 {
			t.Fatalf("grants stored = %d, want 1", len(m.Premiums.Stored))
		}
	})

	t.Run("incomplete profile rejected", func(t *testing.T) {
		m := mock.NewMocks()
		m.Technicians.ByID[5] = &models.Technician{UserID: 5, IsAvailable: true}
		h := profileHandler(m, now.AddDate(1, 0, 0))

		req := authed(httptest.NewRequest(http.MethodPost, "/v1/premium/founding-claim", nil), 5, models.RoleTechnician)
		w := httptest.NewRecorder()
		h.ClaimFoundingGrant(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("claim after cutoff rejected", func(t *testing.T) {
		m := mock.NewMocks()
		seedCompleteProfile(m, 5, now)
		h := profileHandler(m, now.AddDate(0, 0, -1))

		req := authed(httptest.NewRequest(http.MethodPost, "/v1/premium/founding-claim", nil), 5, models.RoleTechnician)
		w := httptest.NewRecorder()
		h.ClaimFoundingGrant(w, req)
		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", w.Code)
		}
	})
}
