package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = "8080"
	defaultDatabaseURL     = "file:formatech.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
	defaultCORSOrigins     = "http://localhost:5173,http://localhost:3000"
	defaultReadTimeout     = "15s"
	defaultWriteTimeout    = "30s"
	defaultShutdownTimeout = "10s"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultApolloBaseURL   = "https://api.apollo.io"
	defaultOutreachRate    = "30"
)

type Config struct {
	AppEnv          string
	Port            string
	DatabaseURL     string
	LogLevel        string
	LogFormat       string
	CORSOrigins     []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Empty means the in-memory staffing store.
	StaffingDataDir string

	OpenAIAPIKey      string
	OpenAIModel       string
	SendgridAPIKey    string
	SendgridFromEmail string
	ApolloAPIKey      string
	ApolloBaseURL     string

	// Requests per minute and per client on the outreach endpoints.
	OutreachRatePerMinute int

	Reminders ReminderConfig
}

// ReminderConfig holds the day thresholds of the reminder rules.
// It can be overridden from the YAML file pointed to by CONFIG_FILE.
type ReminderConfig struct {
	LeadIdleDays             int `yaml:"lead_idle_days"`
	ColdLeadIdleDays         int `yaml:"cold_lead_idle_days"`
	ColdLeadMaxScore         int `yaml:"cold_lead_max_score"`
	DormantDays              int `yaml:"dormant_days"`
	ProposalFollowUpDays     int `yaml:"proposal_follow_up_days"`
	ProposalExpiryWindowDays int `yaml:"proposal_expiry_window_days"`
	NegotiationMaxDays       int `yaml:"negotiation_max_days"`
	TrainingAlertDays        int `yaml:"training_alert_days"`
}

func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		LeadIdleDays:             5,
		ColdLeadIdleDays:         3,
		ColdLeadMaxScore:         12,
		DormantDays:              10,
		ProposalFollowUpDays:     7,
		ProposalExpiryWindowDays: 5,
		NegotiationMaxDays:       20,
		TrainingAlertDays:        14,
	}
}

type fileConfig struct {
	Reminders *ReminderConfig `yaml:"reminders"`
}

// Load reads .env (when present), the process environment and the optional
// YAML file named by CONFIG_FILE.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat)))
	cfg.CORSOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins))
	cfg.StaffingDataDir = strings.TrimSpace(os.Getenv("STAFFING_DATA_DIR"))

	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.OpenAIModel = strings.TrimSpace(getEnv("OPENAI_MODEL", defaultOpenAIModel))
	cfg.SendgridAPIKey = strings.TrimSpace(os.Getenv("SENDGRID_API_KEY"))
	cfg.SendgridFromEmail = strings.TrimSpace(os.Getenv("SENDGRID_FROM_EMAIL"))
	cfg.ApolloAPIKey = strings.TrimSpace(os.Getenv("APOLLO_API_KEY"))
	cfg.ApolloBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("APOLLO_BASE_URL", defaultApolloBaseURL)), "/")

	var err error
	if cfg.ReadTimeout, err = parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.OutreachRatePerMinute, err = parseIntEnv("OUTREACH_RATE_PER_MINUTE", defaultOutreachRate); err != nil {
		return nil, err
	}

	cfg.Reminders = DefaultReminderConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	slog.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.Port,
		"staffing_store", storeKind(cfg.StaffingDataDir),
	)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if fc.Reminders != nil {
		c.Reminders = mergeReminders(c.Reminders, *fc.Reminders)
	}
	return nil
}

// mergeReminders keeps the defaults for every threshold the file leaves at zero.
func mergeReminders(base, override ReminderConfig) ReminderConfig {
	pick := func(def, v int) int {
		if v > 0 {
			return v
		}
		return def
	}
	return ReminderConfig{
		LeadIdleDays:             pick(base.LeadIdleDays, override.LeadIdleDays),
		ColdLeadIdleDays:         pick(base.ColdLeadIdleDays, override.ColdLeadIdleDays),
		ColdLeadMaxScore:         pick(base.ColdLeadMaxScore, override.ColdLeadMaxScore),
		DormantDays:              pick(base.DormantDays, override.DormantDays),
		ProposalFollowUpDays:     pick(base.ProposalFollowUpDays, override.ProposalFollowUpDays),
		ProposalExpiryWindowDays: pick(base.ProposalExpiryWindowDays, override.ProposalExpiryWindowDays),
		NegotiationMaxDays:       pick(base.NegotiationMaxDays, override.NegotiationMaxDays),
		TrainingAlertDays:        pick(base.TrainingAlertDays, override.TrainingAlertDays),
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json")
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP timeouts must be > 0")
	}
	if cfg.OutreachRatePerMinute <= 0 {
		return fmt.Errorf("OUTREACH_RATE_PER_MINUTE must be > 0")
	}
	if isProdLike(cfg.AppEnv) && strings.HasPrefix(cfg.DatabaseURL, "file:") {
		slog.Warn("running a production environment on SQLite", "dsn", cfg.DatabaseURL)
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func storeKind(dir string) string {
	if dir == "" {
		return "memory"
	}
	return "badger:" + dir
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
