package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/service"
	"github.com/aussiebroadwan/moneymanager/pkg/httpx"
	"github.com/aussiebroadwan/moneymanager/pkg/jwtx"
	"github.com/robfig/cron/v3"
)

type Config struct {
	JWTSecret string        // Required: HMAC secret for bearer tokens, at least 32 bytes
	TokenTTL  time.Duration // Optional: bearer token lifetime (default: 10h)

	ActivationBaseURL string // Optional: prefix of the activation link (default: http://localhost:8080)
	FrontendURL       string // Optional: linked from reminder mails (default: http://localhost:5173)

	Timezone     string // Optional: zone for "today", months and schedules (default: Asia/Bangkok)
	JobsEnabled  bool   // Optional: run the reminder and summary jobs (default: true)
	ReminderCron string // Optional: daily reminder schedule (default: 0 10 * * *)
	SummaryCron  string // Optional: expense summary schedule (default: 0 11 * * *)

	SMTPHost     string // Optional: relay host; mail is only logged when empty
	SMTPPort     int    // Optional: relay port (default: 587)
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./moneymanager.db)
	PepperFile          string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	TrustedProxies      []string      // Optional: proxy IPs or CIDRs whose forwarding headers are believed (default: none)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TokenTTL:            getEnvDurationOrDefault("TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		ActivationBaseURL:   getEnvOrDefault("ACTIVATION_BASE_URL", "http://localhost:8080"),
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		Timezone:            getEnvOrDefault("APP_TIMEZONE", "Asia/Bangkok"),
		JobsEnabled:         getEnvBoolOrDefault("JOBS_ENABLED", true),
		ReminderCron:        getEnvOrDefault("REMINDER_CRON", service.DefaultReminderSpec),
		SummaryCron:         getEnvOrDefault("SUMMARY_CRON", service.DefaultSummarySpec),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:            os.Getenv("SMTP_FROM"),
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "moneymanager.db"),
		PepperFile:          getEnvOrDefault("PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		TrustedProxies:      getEnvListOrDefault("TRUSTED_PROXIES", nil),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports every setting the application cannot start with.
func (c Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("APP_TIMEZONE: %w", err))
	}
	if c.JobsEnabled {
		for name, spec := range map[string]string{"REMINDER_CRON": c.ReminderCron, "SUMMARY_CRON": c.SummaryCron} {
			if _, err := cron.ParseStandard(spec); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	if c.SMTPHost != "" && c.SMTPFrom == "" {
		errs = append(errs, errors.New("SMTP_FROM is required when SMTP_HOST is set"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.Split(value, ",")
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
