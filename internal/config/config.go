package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Port               string        `yaml:"port"`
	DBConn             string        `yaml:"db_conn"`
	LogLevel           string        `yaml:"log_level"`
	JWTSecret          string        `yaml:"jwt_secret"`
	TokenTTL           time.Duration `yaml:"token_ttl"`
	HMACSecret         string        `yaml:"hmac_secret"`
	EncryptionKey      string        `yaml:"encryption_key"` // hex encoded
	CBRURL             string        `yaml:"cbr_url"`
	LoginRoute         string        `yaml:"login_route"`
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
	CookieSecure       bool          `yaml:"cookie_secure"`

	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     string `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`
	SenderEmail  string `yaml:"sender_email"`

	Schedule struct {
		BudgetAlertCron  string `yaml:"budget_alert_cron"`
		SessionSweepCron string `yaml:"session_sweep_cron"`
	} `yaml:"schedule"`
}

// NewConfig loads configuration from the YAML file named by CONFIG_PATH, if
// any, and then from environment variables
func NewConfig() (*Config, error) {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load applies defaults, then the YAML file at path (skipped when empty or
// missing), then environment overrides
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBConn = getEnv("DB_CONN", cfg.DBConn)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.HMACSecret = getEnv("HMAC_SECRET", cfg.HMACSecret)
	cfg.EncryptionKey = getEnv("ENCRYPTION_KEY", cfg.EncryptionKey)
	cfg.CBRURL = getEnv("CBR_URL", cfg.CBRURL)
	cfg.LoginRoute = getEnv("LOGIN_ROUTE", cfg.LoginRoute)
	cfg.SMTPHost = getEnv("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnv("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUsername = getEnv("SMTP_USERNAME", cfg.SMTPUsername)
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.SenderEmail = getEnv("SENDER_EMAIL", cfg.SenderEmail)
	cfg.Schedule.BudgetAlertCron = getEnv("CRON_BUDGET_ALERT", cfg.Schedule.BudgetAlertCron)
	cfg.Schedule.SessionSweepCron = getEnv("CRON_SESSION_SWEEP", cfg.Schedule.SessionSweepCron)

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", cfg.TokenTTL); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", cfg.SessionIdleTimeout); err != nil {
		return nil, err
	}
	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{
		Port:               "8080",
		DBConn:             "host=localhost port=5436 user=test password=test dbname=expenses sslmode=disable",
		LogLevel:           "INFO",
		JWTSecret:          "secret",
		TokenTTL:           24 * time.Hour,
		HMACSecret:         "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6",
		EncryptionKey:      "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6",
		CBRURL:             "https://www.cbr.ru/scripts/XML_daily.asp",
		LoginRoute:         "/login",
		SessionIdleTimeout: 30 * time.Minute,
		SMTPPort:           "587",
		SenderEmail:        "no-reply@expenses.local",
	}
	cfg.Schedule.BudgetAlertCron = "0 0 20 * * *"
	cfg.Schedule.SessionSweepCron = "0 */5 * * * *"
	return cfg
}

// Validate checks required fields
func (c *Config) Validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.HMACSecret == "" {
		return fmt.Errorf("HMAC_SECRET is required")
	}
	if _, err := c.EncryptionKeyBytes(); err != nil {
		return err
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}
	return nil
}

// EncryptionKeyBytes decodes the hex encryption key
func (c *Config) EncryptionKeyBytes() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	key, err := hex.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be hex: %w", err)
	}
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	}
	return nil, fmt.Errorf("ENCRYPTION_KEY must decode to 16, 24, or 32 bytes, got %d", len(key))
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
