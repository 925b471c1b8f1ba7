package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingConfig is returned by Load when a required variable is unset.
var ErrMissingConfig = errors.New("missing required configuration")

// Config holds all configuration for the application
type Config struct {
	Environment         string
	Port                string
	DBUrl               string
	DBConnectAttempts   uint
	JWTSecret           string
	APIKey              string
	TokenExpiry         time.Duration
	ContextTimeout      time.Duration
	CORSAllowedOrigins  []string
	TrustProxyHeaders   bool
	LogLevel            string
	LogFile             string
	HousekeepingPeriod  time.Duration
	ShutdownGracePeriod time.Duration
	SessionizeBaseURL   string
	AgendaImportTimeout time.Duration
	Email               EmailConfig
}

// EmailConfig selects and configures the outgoing mail provider.
type EmailConfig struct {
	Provider              string // "ses" or "noop"
	FromAddress           string
	FromName              string
	AWSRegion             string
	AWSAccessKeyID        string
	AWSSecretAccessKey    string
	SESInsecureSkipVerify bool
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production the environment is the only source.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}
	return FromEnv(env, os.Getenv)
}

// FromEnv builds a Config from getenv without touching .env files.
func FromEnv(env string, getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:        env,
		Port:               getenv("PORT"),
		DBUrl:              getenv("DATABASE_URL"),
		JWTSecret:          getenv("JWT_SECRET"),
		APIKey:             getenv("API_KEY"),
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS")),
		LogLevel:           getenv("LOG_LEVEL"),
		LogFile:            getenv("LOG_FILE"),
		SessionizeBaseURL:  getenv("SESSIONIZE_BASE_URL"),
		Email: EmailConfig{
			Provider:           strings.ToLower(getenv("EMAIL_PROVIDER")),
			FromAddress:        getenv("EMAIL_FROM_ADDRESS"),
			FromName:           getenv("EMAIL_FROM_NAME"),
			AWSRegion:          getenv("AWS_REGION"),
			AWSAccessKeyID:     getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Email.Provider == "" {
		cfg.Email.Provider = "noop"
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "Tradefair"
	}

	var missing []string
	for name, v := range map[string]string{"DATABASE_URL": cfg.DBUrl, "JWT_SECRET": cfg.JWTSecret, "API_KEY": cfg.APIKey} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	if cfg.Email.Provider == "ses" && (cfg.Email.FromAddress == "" || cfg.Email.AWSRegion == "") {
		return nil, fmt.Errorf("%w: EMAIL_FROM_ADDRESS and AWS_REGION are required for ses", ErrMissingConfig)
	}

	var err error
	durations := []struct {
		name string
		dst  *time.Duration
		def  time.Duration
	}{
		{"TOKEN_EXPIRY", &cfg.TokenExpiry, 24 * time.Hour},
		{"CONTEXT_TIMEOUT", &cfg.ContextTimeout, 5 * time.Second},
		{"HOUSEKEEPING_INTERVAL", &cfg.HousekeepingPeriod, 10 * time.Minute},
		{"SHUTDOWN_GRACE_PERIOD", &cfg.ShutdownGracePeriod, 15 * time.Second},
		// Kept below the server's write timeout.
		{"AGENDA_IMPORT_TIMEOUT", &cfg.AgendaImportTimeout, 25 * time.Second},
	}
	for _, d := range durations {
		if *d.dst, err = parseDuration(getenv(d.name), d.def); err != nil {
			return nil, fmt.Errorf("parse %s: %w", d.name, err)
		}
	}
	attempts, err := parseUint(getenv("DB_CONNECT_ATTEMPTS"), 5)
	if err != nil {
		return nil, fmt.Errorf("parse DB_CONNECT_ATTEMPTS: %w", err)
	}
	cfg.DBConnectAttempts = attempts
	if s := getenv("TRUST_PROXY_HEADERS"); s != "" {
		if cfg.TrustProxyHeaders, err = strconv.ParseBool(s); err != nil {
			return nil, fmt.Errorf("parse TRUST_PROXY_HEADERS: %w", err)
		}
	}
	if s := getenv("SES_INSECURE_SKIP_VERIFY"); s != "" {
		if cfg.Email.SESInsecureSkipVerify, err = strconv.ParseBool(s); err != nil {
			return nil, fmt.Errorf("parse SES_INSECURE_SKIP_VERIFY: %w", err)
		}
	}
	return cfg, nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

func parseUint(s string, def uint) (uint, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.New("must be at least 1")
	}
	return uint(n), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
