package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/example/vocabday/internal/database"
	"github.com/example/vocabday/internal/spaced_repetition"
	"github.com/example/vocabday/pkg/models"
)

// Config holds application configuration
type Config struct {
	DBType           string          `validate:"oneof=sqlite sqlite3 postgres postgresql"`
	DBDSN            string          `validate:"required"`
	TelegramBotToken string
	Timezone         string          `validate:"required"`
	DefaultSeverity  models.Severity `validate:"oneof=light moderate intense"`
	Severity         spaced_repetition.SeverityRanges

	// Reminders are sent at whole hours in [NotificationStartHour, NotificationEndHour]
	NotificationStartHour int `validate:"min=0,max=23"`
	NotificationEndHour   int `validate:"min=0,max=23,gtefield=NotificationStartHour"`

	// PrebuildAt is the HH:MM at which every user's list for the day is built
	PrebuildAt   string `validate:"required"`
	LogDir       string
	Debug        bool
	AdminUserIDs []int64

	location *time.Location
}

// Load reads configuration from the environment with sensible defaults.
// Variables from envFile (if it exists) are loaded first and never override the real environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		DBType:           getEnv("DB_TYPE", database.TypeSQLite),
		DBDSN:            getEnv("DB_DSN", "./data/vocabday.db"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		Timezone:         getEnv("TIMEZONE", "UTC"),
		DefaultSeverity:  models.Severity(strings.ToLower(getEnv("DEFAULT_SEVERITY", string(models.SeverityLight)))),
		Severity:         spaced_repetition.DefaultSeverityRanges(),
		PrebuildAt:       getEnv("PREBUILD_AT", "00:05"),
		LogDir:           getEnv("LOG_DIR", ""),
	}

	var err error
	if cfg.NotificationStartHour, err = getEnvInt("NOTIFICATION_START_HOUR", 8); err != nil {
		return nil, err
	}
	if cfg.NotificationEndHour, err = getEnvInt("NOTIFICATION_END_HOUR", 22); err != nil {
		return nil, err
	}
	if cfg.Debug, err = getEnvBool("DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.AdminUserIDs, err = parseIDs(getEnv("ADMIN_USER_IDS", "")); err != nil {
		return nil, err
	}

	for _, sev := range models.Severities {
		key := "SEVERITY_" + strings.ToUpper(string(sev))
		raw := getEnv(key, "")
		if raw == "" {
			continue
		}
		rng, err := spaced_repetition.ParseSeverityRange(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		cfg.Severity[sev] = rng
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and resolves the time zone
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc
	if _, _, err := c.PrebuildTime(); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone in which calendar days are counted
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// PrebuildTime splits PrebuildAt into hour and minute
func (c *Config) PrebuildTime() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.PrebuildAt)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid PREBUILD_AT %q: want HH:MM", c.PrebuildAt)
	}
	return t.Hour(), t.Minute(), nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_USER_IDS entry %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
