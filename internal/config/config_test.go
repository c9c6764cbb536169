package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("SAGE_DOMAIN", "https://acme.sage.hr/")
	t.Setenv("SAGE_API_KEY", "key")
	t.Setenv("GOOGLE_CALENDAR_ID", "leave@group.calendar.google.com")
	t.Setenv("GOOGLE_CALENDAR_CREDENTIALS", "/secrets/sa.json")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://acme.sage.hr", cfg.Sage.Domain)
	assert.Equal(t, time.Hour, cfg.Sage.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.Sage.HTTPTimeout)
	assert.Equal(t, "replace", cfg.GoogleCalendar.UpdateStrategy)
	assert.Equal(t, "*/20 * * * *", cfg.Sync.CronSchedule)
	assert.Equal(t, 60, cfg.Sync.LookaheadDays)
	assert.Equal(t, 4, cfg.Sync.Concurrency)
	assert.Equal(t, "09:00", cfg.Sync.FirstPartStart)
	assert.Equal(t, "14:00", cfg.Sync.SecondPartStart)
	assert.Equal(t, 4.0, cfg.Sync.PartDefaultHours)
	assert.False(t, cfg.Sync.TestUsersEnabled)
	assert.Empty(t, cfg.Sync.TestUsers)
	assert.Empty(t, cfg.App.CORSAllowedOrigins)
}

func TestLoad_TestUsers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENABLE_TEST_USERS_ALL", "true")
	t.Setenv("TEST_USERS", "12, 34,56")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Sync.TestUsersEnabled)
	assert.Equal(t, []int64{12, 34, 56}, cfg.Sync.TestUsers)

	t.Setenv("TEST_USERS", "12,abc")
	_, err = Load()
	assert.ErrorContains(t, err, "TEST_USERS")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"bad port", "APP_PORT", "eighty", "APP_PORT"},
		{"bad ttl", "SAGE_CACHE_TTL", "an hour", "SAGE_CACHE_TTL"},
		{"bad strategy", "GOOGLE_CALENDAR_UPDATE_STRATEGY", "patch", "GOOGLE_CALENDAR_UPDATE_STRATEGY"},
		{"bad lookahead", "SYNC_LOOKAHEAD_DAYS", "-1", "SYNC_LOOKAHEAD_DAYS"},
		{"bad concurrency", "SYNC_CONCURRENCY", "0", "SYNC_CONCURRENCY"},
		{"bad part hours", "SYNC_PART_DEFAULT_HOURS", "25", "SYNC_PART_DEFAULT_HOURS"},
		{"bad timezone", "SYNC_TIMEZONE", "Mars/Olympus", "SYNC_TIMEZONE"},
		{"bad part start", "SYNC_FIRST_PART_START", "9am", "part-of-day"},
		{"bad driver", "DB_DRIVER", "mysql", "DB_DRIVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database:       DatabaseConfig{Driver: "postgres", Password: "secret"},
			Sage:           SageConfig{Domain: "https://acme.sage.hr", APIKey: "key"},
			GoogleCalendar: GoogleCalendarConfig{CalendarID: "cal", Credentials: "{}", UpdateStrategy: "update"},
			Sync: SyncConfig{
				LookaheadDays:    60,
				Concurrency:      1,
				PartDefaultHours: 4,
				FirstPartStart:   "09:00",
				SecondPartStart:  "14:00",
			},
		}
	}
	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Database.Password = ""
	assert.ErrorContains(t, cfg.Validate(), "DB_PASSWORD")

	cfg = valid()
	cfg.Sage.APIKey = ""
	assert.ErrorContains(t, cfg.Validate(), "SAGE_API_KEY")

	cfg = valid()
	cfg.GoogleCalendar.CalendarID = ""
	assert.ErrorContains(t, cfg.Validate(), "GOOGLE_CALENDAR_ID")
}

func TestLocation(t *testing.T) {
	cfg := &Config{Sync: SyncConfig{Timezone: "Local"}}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Sync.Timezone = "Europe/Madrid"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", loc.String())
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{App: AppConfig{LogLevel: in}}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		User: "postgres", Password: "pw", Host: "db", Port: 5432, Name: "sync", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://postgres:pw@db:5432/sync?sslmode=disable", cfg.DatabaseURL())
}
