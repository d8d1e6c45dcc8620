package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, defaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, DefaultReminderConfig(), cfg.Reminders)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadReminderOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formatech.yaml")
	content := `
reminders:
  dormant_days: 15
  training_alert_days: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Reminders.DormantDays)
	assert.Equal(t, 7, cfg.Reminders.TrainingAlertDays)
	// untouched thresholds keep their defaults
	assert.Equal(t, 5, cfg.Reminders.LeadIdleDays)
	assert.Equal(t, 20, cfg.Reminders.NegotiationMaxDays)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":                     "http",
		"LOG_LEVEL":                "verbose",
		"LOG_FORMAT":               "xml",
		"HTTP_READ_TIMEOUT":        "soon",
		"OUTREACH_RATE_PER_MINUTE": "0",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			t.Setenv(name, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
