package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/validator"
	"github.com/joho/godotenv"
)

type Config struct {
	Database       DatabaseConfig
	App            AppConfig
	Sage           SageConfig
	GoogleCalendar GoogleCalendarConfig
	Sync           SyncConfig
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	TriggerSecret      string
	CORSAllowedOrigins []string
}

// SageConfig holds the HR platform API configuration
type SageConfig struct {
	Domain      string
	APIKey      string
	CacheTTL    time.Duration
	HTTPTimeout time.Duration
}

type GoogleCalendarConfig struct {
	CalendarID     string
	Credentials    string // service account JSON
	SubjectEmail   string
	UpdateStrategy string // "replace" or "update"
}

// SyncConfig holds the reconciliation pass settings
type SyncConfig struct {
	CronSchedule     string
	LookaheadDays    int
	Concurrency      int
	Timezone         string
	FirstPartStart   string
	SecondPartStart  string
	PartDefaultHours float64
	TestUsersEnabled bool
	TestUsers        []int64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:     getEnv("DB_DRIVER", "postgres"),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       dbPort,
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "leave_calendar_sync"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "leave_calendar_sync.db"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		TriggerSecret:      getEnv("SYNC_TRIGGER_SECRET", ""),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// Sage HR configuration
	cacheTTL, err := time.ParseDuration(getEnv("SAGE_CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SAGE_CACHE_TTL: %w", err)
	}
	httpTimeout, err := time.ParseDuration(getEnv("SAGE_HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SAGE_HTTP_TIMEOUT: %w", err)
	}

	config.Sage = SageConfig{
		Domain:      strings.TrimRight(getEnv("SAGE_DOMAIN", ""), "/"),
		APIKey:      getEnv("SAGE_API_KEY", ""),
		CacheTTL:    cacheTTL,
		HTTPTimeout: httpTimeout,
	}

	// Google Calendar configuration
	config.GoogleCalendar = GoogleCalendarConfig{
		CalendarID:     getEnv("GOOGLE_CALENDAR_ID", ""),
		Credentials:    getEnv("GOOGLE_CALENDAR_CREDENTIALS", ""),
		SubjectEmail:   getEnv("GOOGLE_CALENDAR_SUBJECT_EMAIL", ""),
		UpdateStrategy: getEnv("GOOGLE_CALENDAR_UPDATE_STRATEGY", "replace"),
	}

	// Sync configuration
	lookahead, err := strconv.Atoi(getEnv("SYNC_LOOKAHEAD_DAYS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_LOOKAHEAD_DAYS: %w", err)
	}
	concurrency, err := strconv.Atoi(getEnv("SYNC_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_CONCURRENCY: %w", err)
	}
	partHours, err := strconv.ParseFloat(getEnv("SYNC_PART_DEFAULT_HOURS", "4"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_PART_DEFAULT_HOURS: %w", err)
	}
	testUsers, err := getEnvInt64Slice("TEST_USERS")
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_USERS: %w", err)
	}

	config.Sync = SyncConfig{
		CronSchedule:     getEnv("SYNC_SAGE_CALENDAR_CRON_SCHEDULE", "*/20 * * * *"),
		LookaheadDays:    lookahead,
		Concurrency:      concurrency,
		Timezone:         getEnv("SYNC_TIMEZONE", "Local"),
		FirstPartStart:   getEnv("SYNC_FIRST_PART_START", "09:00"),
		SecondPartStart:  getEnv("SYNC_SECOND_PART_START", "14:00"),
		PartDefaultHours: partHours,
		TestUsersEnabled: getEnvBool("ENABLE_TEST_USERS_ALL", false),
		TestUsers:        testUsers,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.Database.Driver)
	}
	if validator.IsEmpty(c.Sage.Domain) {
		return fmt.Errorf("SAGE_DOMAIN is required")
	}
	if validator.IsEmpty(c.Sage.APIKey) {
		return fmt.Errorf("SAGE_API_KEY is required")
	}
	if validator.IsEmpty(c.GoogleCalendar.CalendarID) {
		return fmt.Errorf("GOOGLE_CALENDAR_ID is required")
	}
	if validator.IsEmpty(c.GoogleCalendar.Credentials) {
		return fmt.Errorf("GOOGLE_CALENDAR_CREDENTIALS is required")
	}
	if s := c.GoogleCalendar.UpdateStrategy; !validator.IsInSlice(s, []string{"replace", "update"}) {
		return fmt.Errorf("GOOGLE_CALENDAR_UPDATE_STRATEGY must be replace or update, got %q", s)
	}
	if c.Sync.LookaheadDays <= 0 {
		return fmt.Errorf("SYNC_LOOKAHEAD_DAYS must be positive")
	}
	if c.Sync.Concurrency <= 0 {
		return fmt.Errorf("SYNC_CONCURRENCY must be positive")
	}
	if c.Sync.PartDefaultHours <= 0 || c.Sync.PartDefaultHours > 24 {
		return fmt.Errorf("SYNC_PART_DEFAULT_HOURS must be within (0, 24]")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid SYNC_TIMEZONE: %w", err)
	}
	for _, hhmm := range []string{c.Sync.FirstPartStart, c.Sync.SecondPartStart} {
		if !validator.IsValidTimeOfDay(hhmm) {
			return fmt.Errorf("invalid part-of-day start %q", hhmm)
		}
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the zone leave request dates are interpreted in.
func (c *Config) Location() (*time.Location, error) {
	if c.Sync.Timezone == "" || c.Sync.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Sync.Timezone)
}

// SlogLevel parses LOG_LEVEL, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func getEnvInt64Slice(env string) ([]int64, error) {
	var result []int64
	for _, part := range getEnvSlice(env) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, nil
}
