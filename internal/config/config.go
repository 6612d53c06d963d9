package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port        string
	Debug       bool
	MaxUploadMB int

	// Schedule configuration
	ReportSchedule string // "daily", "weekly" or "monthly"
	ReportWindow   time.Duration

	// Storage configuration
	StorageBackend   string // "azure" or "local"
	StorageAccount   string
	StorageContainer string
	LocalStorageDir  string

	// Notification configuration
	EmailRelayURL      string
	EmailRelayFunction string
	EmailRelayVerify   string
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPFrom           string
	MailerConfig       string
	Recipients         Recipients

	// Logging
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Debug:          getBoolEnv("DEBUG", false),
		MaxUploadMB:    getIntEnv("MAX_UPLOAD_MB", 32),
		ReportSchedule: getEnv("REPORT_SCHEDULE", "weekly"),
		ReportWindow:   getDurationEnv("REPORT_WINDOW", 0),

		StorageBackend:   getEnv("STORAGE_BACKEND", "local"),
		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "exposure"),
		LocalStorageDir:  getEnv("LOCAL_STORAGE_DIR", "data"),

		EmailRelayURL:      getEnv("EMAIL_RELAY_URL", ""),
		EmailRelayFunction: getEnv("EMAIL_RELAY_FUNCTION", "exposure-dashboard"),
		EmailRelayVerify:   getEnv("EMAIL_RELAY_VERIFY", ""),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getIntEnv("SMTP_PORT", 587),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:           getEnv("SMTP_FROM", ""),
		MailerConfig:       getEnv("MAILER_CONFIG", ""),

		LogFile:       getEnv("LOG_FILE", ""),
		LogMaxSizeMB:  getIntEnv("LOG_MAX_SIZE_MB", 50),
		LogMaxBackups: getIntEnv("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getIntEnv("LOG_MAX_AGE_DAYS", 28),
	}

	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUsername
	}

	recipients, err := loadRecipients(cfg.MailerConfig)
	if err != nil {
		return nil, err
	}
	cfg.Recipients = recipients

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RelayEnabled reports whether reports go through the HTTP email relay
func (c *Config) RelayEnabled() bool {
	return c.EmailRelayURL != ""
}

// SMTPEnabled reports whether reports are sent directly over SMTP
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

func (c *Config) validate() error {
	switch c.ReportSchedule {
	case "daily", "weekly", "monthly":
	default:
		return fmt.Errorf("REPORT_SCHEDULE must be 'daily', 'weekly' or 'monthly'")
	}

	if c.ReportWindow < 0 {
		return fmt.Errorf("REPORT_WINDOW must not be negative")
	}

	switch c.StorageBackend {
	case "azure":
		if c.StorageAccount == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT is required when STORAGE_BACKEND is 'azure'")
		}
	case "local":
		if c.LocalStorageDir == "" {
			return fmt.Errorf("LOCAL_STORAGE_DIR is required when STORAGE_BACKEND is 'local'")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be 'azure' or 'local'")
	}

	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}

	if c.SMTPEnabled() {
		if c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP_USERNAME and SMTP_PASSWORD are required when SMTP_HOST is set")
		}
	}

	if (c.RelayEnabled() || c.SMTPEnabled()) && len(c.Recipients.To) == 0 {
		return fmt.Errorf("at least one recipient is required (MAILER_CONFIG or NOTIFICATION_TO)")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return defaultValue
}
