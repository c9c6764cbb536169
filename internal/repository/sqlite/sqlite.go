package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// timeLayout keeps timestamps lexically ordered so range filters can compare text.
const timeLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// Migrate creates the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS leave_request_calendar_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		integration TEXT NOT NULL DEFAULT 'google_calendar',
		sage_leave_request_id INTEGER NOT NULL,
		calendar_event_id TEXT,
		start_date_time TEXT NOT NULL,
		end_date_time TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_lrce_integration_sage_id
		ON leave_request_calendar_events(integration, sage_leave_request_id);

	CREATE INDEX IF NOT EXISTS idx_lrce_date_range
		ON leave_request_calendar_events(start_date_time, end_date_time);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
