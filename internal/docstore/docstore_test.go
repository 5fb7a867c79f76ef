package docstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flightdeck/aeromatch/internal/config"
)

func TestObjectPath(t *testing.T) {
	now := time.Unix(1735689600, 0)

	tests := []struct {
		name     string
		userID   int64
		docType  string
		filename string
		want     string
	}{
		{"plain", 42, "license", "easa-b1.pdf", "42/license/1735689600-easa-b1.pdf"},
		{"spaces and slashes", 7, "passport", "my passport/scan.png", "7/passport/1735689600-my_passport_scan.png"},
		{"traversal stripped", 7, "cv", "../../etc/passwd", "7/cv/1735689600-_.._etc_passwd"},
		{"empty name", 1, "cv", "", "1/cv/1735689600-file"},
		{"only dots", 1, "cv", "...", "1/cv/1735689600-file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObjectPath(tt.userID, tt.docType, tt.filename, now); got != tt.want {
				t.Errorf("ObjectPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpload(t *testing.T) {
	var gotPath, gotBody, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		gotPath = r.URL.Path
		gotCT = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(config.StorageConfig{BaseURL: srv.URL, Token: "tok"}, nil)
	defer c.httpc.CloseIdleConnections()

	path, err := c.Upload(context.Background(), "42/license/1-easa.pdf", "application/pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if path != "42/license/1-easa.pdf" {
		t.Errorf("path = %q", path)
	}
	if gotPath != "/42/license/1-easa.pdf" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotBody != "pdf bytes" {
		t.Errorf("body = %q", gotBody)
	}
	if gotCT != "application/pdf" {
		t.Errorf("content type = %q", gotCT)
	}
}

func TestUploadErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		c := NewClient(config.StorageConfig{}, nil)
		if _, err := c.Upload(context.Background(), "p", "", strings.NewReader("x")); err == nil {
			t.Fatal("Upload() error = nil, want non-nil")
		}
	})

	t.Run("storage rejects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		}))
		defer srv.Close()

		c := NewClient(config.StorageConfig{BaseURL: srv.URL}, nil)
		defer c.httpc.CloseIdleConnections()

		if _, err := c.Upload(context.Background(), "p", "", strings.NewReader("x")); err == nil {
			t.Fatal("Upload() error = nil, want non-nil")
		}
	})
}
