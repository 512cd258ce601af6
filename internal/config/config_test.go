package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.LoginRoute != "/login" {
		t.Errorf("unexpected defaults: port=%s login=%s", cfg.Port, cfg.LoginRoute)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %s, want 24h", cfg.TokenTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
port: "9090"
jwt_secret: from-file
session_idle_timeout: 10m
schedule:
  budget_alert_cron: "0 0 7 * * *"
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("TOKEN_TTL", "2h")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090 from file", cfg.Port)
	}
	if cfg.JWTSecret != "from-env" {
		t.Errorf("JWTSecret = %s, env should win", cfg.JWTSecret)
	}
	if cfg.SessionIdleTimeout != 10*time.Minute {
		t.Errorf("SessionIdleTimeout = %s, want 10m", cfg.SessionIdleTimeout)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL = %s, want 2h", cfg.TokenTTL)
	}
	if cfg.Schedule.BudgetAlertCron != "0 0 7 * * *" {
		t.Errorf("BudgetAlertCron = %q", cfg.Schedule.BudgetAlertCron)
	}
	if cfg.Schedule.SessionSweepCron == "" {
		t.Error("unset schedule entries should keep defaults")
	}
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Errorf("missing file should not fail: %v", err)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("SESSION_IDLE_TIMEOUT", "soon")
	if _, err := Load(""); err == nil {
		t.Error("expected error for malformed duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db", func(c *Config) { c.DBConn = "" }},
		{"empty jwt secret", func(c *Config) { c.JWTSecret = "" }},
		{"empty hmac secret", func(c *Config) { c.HMACSecret = "" }},
		{"non-hex key", func(c *Config) { c.EncryptionKey = "zz" }},
		{"short key", func(c *Config) { c.EncryptionKey = "a1b2c3" }},
		{"zero idle timeout", func(c *Config) { c.SessionIdleTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
