package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/flightdeck/aeromatch/api"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository/mock"
)

const testSecret = "testsecret"

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(b)
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		prepare    func(m *mock.Mocks)
		wantStatus int
	}{
		{
			name:       "invalid json",
			body:       nil,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing role",
			body:       map[string]string{"name": "Alex", "email": "alex@example.com", "password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad role",
			body:       map[string]string{"name": "Alex", "email": "alex@example.com", "password": "s3cret", "role": "admin"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "technician success",
			body:       map[string]string{"name": "Alex", "email": "alex@example.com", "password": "s3cret", "role": "technician"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "company success",
			body:       map[string]string{"name": "Hangar One", "email": "ops@hangarone.example", "password": "s3cret", "role": "company"},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			body: map[string]string{"name": "Alex", "email": "taken@example.com", "password": "s3cret", "role": "technician"},
			prepare: func(m *mock.Mocks) {
				m.Users.Stored = append(m.Users.Stored, &models.User{ID: 1, Email: "taken@example.com", Role: models.RoleTechnician})
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(m)
			}
			h := api.NewAuthHandler(m.Users, m.Technicians, testSecret, time.Hour)

			var body io.Reader = bytes.NewReader([]byte("not a json"))
			if tt.body != nil {
				body = jsonBody(t, tt.body)
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", body)
			w := httptest.NewRecorder()
			h.Signup(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestSignupCreatesTechnicianRow(t *testing.T) {
	m := mock.NewMocks()
	h := api.NewAuthHandler(m.Users, m.Technicians, testSecret, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup",
		jsonBody(t, map[string]string{"name": "Alex", "email": "alex@example.com", "password": "s3cret", "role": "technician"}))
	w := httptest.NewRecorder()
	h.Signup(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d (body %q)", w.Code, w.Body.String())
	}
	if len(m.Technicians.ByID) != 1 {
		t.Fatalf("technician rows = %d, want 1", len(m.Technicians.ByID))
	}

	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Role != models.RoleTechnician {
		t.Errorf("role = %q", resp.Role)
	}

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["role"] != models.RoleTechnician {
		t.Errorf("role claim = %v", claims["role"])
	}
	if _, ok := claims["user_id"].(float64); !ok {
		t.Errorf("user_id claim missing: %v", claims)
	}
}

func TestSignin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)

	m := mock.NewMocks()
	m.Users.Stored = append(m.Users.Stored, &models.User{
		ID: 7, Name: "Alex", Email: "alex@example.com", Role: models.RoleTechnician, PasswordHash: string(hash),
	})
	h := api.NewAuthHandler(m.Users, m.Technicians, testSecret, time.Hour)

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/signin",
			jsonBody(t, map[string]string{"email": "alex@example.com", "password": "s3cret"}))
		w := httptest.NewRecorder()
		h.Signin(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d (body %q)", w.Code, w.Body.String())
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/signin",
			jsonBody(t, map[string]string{"email": "alex@example.com", "password": "wrong"}))
		w := httptest.NewRecorder()
		h.Signin(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/signin",
			jsonBody(t, map[string]string{"email": "nobody@example.com", "password": "s3cret"}))
		w := httptest.NewRecorder()
		h.Signin(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", w.Code)
		}
	})
}
