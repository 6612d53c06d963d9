package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("REPORT_SCHEDULE", "")
	t.Setenv("EMAIL_RELAY_URL", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("MAILER_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "weekly", cfg.ReportSchedule)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, 32, cfg.MaxUploadMB)
	assert.Equal(t, time.Duration(0), cfg.ReportWindow)
	assert.False(t, cfg.RelayEnabled())
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MAILER_CONFIG", "")
	t.Setenv("REPORT_SCHEDULE", "monthly")
	t.Setenv("REPORT_WINDOW", "720h")
	t.Setenv("EMAIL_RELAY_URL", "https://relay.example.com/send")
	t.Setenv("NOTIFICATION_TO", "ops@example.com, legal@example.com")
	t.Setenv("NOTIFICATION_CC", "")
	t.Setenv("SMTP_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "monthly", cfg.ReportSchedule)
	assert.Equal(t, 720*time.Hour, cfg.ReportWindow)
	assert.True(t, cfg.RelayEnabled())
	assert.Equal(t, []string{"ops@example.com", "legal@example.com"}, cfg.Recipients.To)
	assert.Empty(t, cfg.Recipients.CC)
}

func TestLoad_MailerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mailer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("to:\n  - a@example.com\ncc:\n  - b@example.com\n"), 0o600))

	t.Setenv("MAILER_CONFIG", path)
	t.Setenv("NOTIFICATION_TO", "ignored@example.com")
	t.Setenv("EMAIL_RELAY_URL", "https://relay.example.com/send")
	t.Setenv("SMTP_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, cfg.Recipients.To)
	assert.Equal(t, []string{"b@example.com"}, cfg.Recipients.CC)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ReportSchedule:  "daily",
			StorageBackend:  "local",
			LocalStorageDir: "data",
			MaxUploadMB:     10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad schedule", func(c *Config) { c.ReportSchedule = "hourly" }, "REPORT_SCHEDULE"},
		{"negative window", func(c *Config) { c.ReportWindow = -time.Hour }, "REPORT_WINDOW"},
		{"bad backend", func(c *Config) { c.StorageBackend = "s3" }, "STORAGE_BACKEND"},
		{"azure without account", func(c *Config) { c.StorageBackend = "azure" }, "AZURE_STORAGE_ACCOUNT"},
		{"smtp without credentials", func(c *Config) {
			c.SMTPHost = "smtp.example.com"
			c.Recipients.To = []string{"a@example.com"}
		}, "SMTP_USERNAME"},
		{"relay without recipients", func(c *Config) { c.EmailRelayURL = "https://relay" }, "recipient"},
		{"zero upload limit", func(c *Config) { c.MaxUploadMB = 0 }, "MAX_UPLOAD_MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseRecipients_Invalid(t *testing.T) {
	_, err := ParseRecipients([]byte("to: [unclosed"))
	assert.Error(t, err)
}
