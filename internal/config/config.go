package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	Environment   string        `yaml:"environment"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Workers       int           `yaml:"workers"`
	ReminderCron  string        `yaml:"reminder_cron"`
	Billing       BillingConfig `yaml:"billing"`
	Mailer        MailerConfig  `yaml:"mailer"`
	Storage       StorageConfig `yaml:"storage"`
	Premium       PremiumConfig `yaml:"premium"`
}

type BillingConfig struct {
	WebhookSecret string `yaml:"webhook_secret"`
	// SkipSignatureCheck disables webhook signature verification. It is only
	// honored outside production; see Config.SignatureCheckDisabled.
	SkipSignatureCheck bool   `yaml:"skip_signature_check"`
	APIBaseURL         string `yaml:"api_base_url"`
	APIKey             string `yaml:"api_key"`
	PremiumPriceID     string `yaml:"premium_price_id"`
}

type MailerConfig struct {
	APIBaseURL string `yaml:"api_base_url"`
	APIKey     string `yaml:"api_key"`
	From       string `yaml:"from"`
}

type StorageConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

type PremiumConfig struct {
	// FoundingCutoff is the last day (exclusive, "YYYY-MM-DD") on which the
	// founding profile-complete grant can still be claimed.
	FoundingCutoff string `yaml:"founding_cutoff"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("AEROMATCH_ADDR", ":8080"),
		Environment:   getEnv("AEROMATCH_ENV", "development"),
		JWTSecret:     getEnv("AEROMATCH_JWT_SECRET", "supersecretkey"),
		APITimeout:    15 * time.Second,
		DatabasePath:  getEnv("AEROMATCH_DATABASE_PATH", "aeromatch.db"),
		TokenDuration: 1 * time.Hour,
		Workers:       4,
		ReminderCron:  "0 8 * * *",
		Billing: BillingConfig{
			WebhookSecret: getEnv("AEROMATCH_BILLING_WEBHOOK_SECRET", ""),
			APIBaseURL:    getEnv("AEROMATCH_BILLING_API_URL", "https://api.paddle.com"),
			APIKey:        getEnv("AEROMATCH_BILLING_API_KEY", ""),
		},
		Mailer: MailerConfig{
			APIBaseURL: getEnv("AEROMATCH_MAILER_API_URL", "https://api.resend.com"),
			APIKey:     getEnv("AEROMATCH_MAILER_API_KEY", ""),
			From:       getEnv("AEROMATCH_MAILER_FROM", "notifications@aeromatch.example"),
		},
		Storage: StorageConfig{
			BaseURL: getEnv("AEROMATCH_STORAGE_URL", ""),
			Token:   getEnv("AEROMATCH_STORAGE_TOKEN", ""),
		},
		Premium: PremiumConfig{
			FoundingCutoff: getEnv("AEROMATCH_PREMIUM_FOUNDING_CUTOFF", "2026-01-01"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations that must never reach production: the
// default JWT secret outside development, a missing webhook secret when
// verification is not explicitly disabled, and an unparseable cutoff date.
func (c *Config) Validate() error {
	if c.JWTSecret == "supersecretkey" && c.Environment != "development" {
		return fmt.Errorf("insecure default jwt_secret is only allowed in development")
	}
	if c.Environment == "production" && c.Billing.WebhookSecret == "" {
		return fmt.Errorf("billing.webhook_secret is required in production")
	}
	if _, err := c.FoundingCutoff(); err != nil {
		return fmt.Errorf("invalid premium.founding_cutoff: %w", err)
	}

	return nil
}

// FoundingCutoff parses the configured cutoff day.
func (c *Config) FoundingCutoff() (time.Time, error) {
	return time.Parse("2006-01-02", c.Premium.FoundingCutoff)
}

// SignatureCheckDisabled reports whether webhook signature verification may
// be skipped. The bypass is environment-gated: the flag is ignored in
// production.
func (c *Config) SignatureCheckDisabled() bool {
	return c.Billing.SkipSignatureCheck && c.Environment != "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
