package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flightdeck/aeromatch/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Addr:          ":8080",
		Environment:   "development",
		JWTSecret:     "strongsecret",
		APITimeout:    5 * time.Second,
		DatabasePath:  "aeromatch.db",
		TokenDuration: 1 * time.Hour,
		Premium:       config.PremiumConfig{FoundingCutoff: "2026-01-01"},
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	cfg := baseConfig()
	cfg.Environment = "production"
	cfg.JWTSecret = "supersecretkey"
	cfg.Billing.WebhookSecret = "whsec"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	cfg := baseConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_MissingWebhookSecretInProduction(t *testing.T) {
	cfg := baseConfig()
	cfg.Environment = "production"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail without a webhook secret in production")
	}
}

func TestValidate_BadCutoffDate(t *testing.T) {
	cfg := baseConfig()
	cfg.Premium.FoundingCutoff = "not-a-date"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for invalid cutoff date")
	}
}

func TestSignatureCheckDisabled_GatedByEnvironment(t *testing.T) {
	cfg := baseConfig()
	cfg.Billing.SkipSignatureCheck = true

	if !cfg.SignatureCheckDisabled() {
		t.Fatalf("expected bypass to be honored in development")
	}

	cfg.Environment = "production"
	if cfg.SignatureCheckDisabled() {
		t.Fatalf("bypass must never be honored in production")
	}
}

func TestLoadConfig_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("addr: \":9090\"\njwt_secret: filesecret\nreminder_cron: \"30 7 * * *\"\npremium:\n  founding_cutoff: \"2026-06-30\"\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("expected addr from file, got %q", cfg.Addr)
	}
	if cfg.JWTSecret != "filesecret" {
		t.Fatalf("expected jwt secret from file, got %q", cfg.JWTSecret)
	}
	if cfg.ReminderCron != "30 7 * * *" {
		t.Fatalf("expected reminder cron from file, got %q", cfg.ReminderCron)
	}
	cutoff, err := cfg.FoundingCutoff()
	if err != nil {
		t.Fatalf("FoundingCutoff: %v", err)
	}
	if cutoff.Format("2006-01-02") != "2026-06-30" {
		t.Fatalf("unexpected cutoff: %v", cutoff)
	}
}

func TestLoadConfig_EnvDefaults(t *testing.T) {
	os.Setenv("AEROMATCH_ADDR", ":7070")
	defer os.Unsetenv("AEROMATCH_ADDR")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("expected addr from env, got %q", cfg.Addr)
	}
	if cfg.Workers <= 0 {
		t.Fatalf("expected worker default > 0")
	}
}
