package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestCalendarEventColumns = `
	id, integration, sage_leave_request_id, calendar_event_id,
	start_date_time, end_date_time, created_at, updated_at`

type leaveRequestCalendarEventRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestCalendarEventRepository(db *database.DB) leave.LeaveRequestCalendarEventRepository {
	return &leaveRequestCalendarEventRepositoryImpl{db: db}
}

func scanLeaveRequestCalendarEvent(row pgx.Row) (leave.LeaveRequestCalendarEvent, error) {
	var e leave.LeaveRequestCalendarEvent
	err := row.Scan(
		&e.ID,
		&e.Integration,
		&e.SageLeaveRequestID,
		&e.CalendarEventID,
		&e.StartDateTime,
		&e.EndDateTime,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

func collectLeaveRequestCalendarEvents(rows pgx.Rows) ([]leave.LeaveRequestCalendarEvent, error) {
	defer rows.Close()

	var events []leave.LeaveRequestCalendarEvent
	for rows.Next() {
		e, err := scanLeaveRequestCalendarEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Create implements leave.LeaveRequestCalendarEventRepository.
func (r *leaveRequestCalendarEventRepositoryImpl) Create(ctx context.Context, event leave.LeaveRequestCalendarEvent) (leave.LeaveRequestCalendarEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_request_calendar_events (
			integration, sage_leave_request_id, calendar_event_id,
			start_date_time, end_date_time, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		event.Integration, event.SageLeaveRequestID, event.CalendarEventID,
		event.StartDateTime, event.EndDateTime,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return leave.LeaveRequestCalendarEvent{}, fmt.Errorf("insert leave request calendar event: %w", err)
	}

	return event, nil
}

// GetByID implements leave.LeaveRequestCalendarEventRepository.
func (r *leaveRequestCalendarEventRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.LeaveRequestCalendarEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestCalendarEventColumns + `
		FROM leave_request_calendar_events
		WHERE id = $1`

	e, err := scanLeaveRequestCalendarEvent(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequestCalendarEvent{}, leave.ErrMappingNotFound
		}
		return leave.LeaveRequestCalendarEvent{}, err
	}
	return e, nil
}

// List implements leave.LeaveRequestCalendarEventRepository.
func (r *leaveRequestCalendarEventRepositoryImpl) List(ctx context.Context) ([]leave.LeaveRequestCalendarEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestCalendarEventColumns + `
		FROM leave_request_calendar_events
		ORDER BY start_date_time, id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectLeaveRequestCalendarEvents(rows)
}

// Update implements leave.LeaveRequestCalendarEventRepository.
func (r *leaveRequestCalendarEventRepositoryImpl) Update(ctx context.Context, event leave.LeaveRequestCalendarEvent) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_request_calendar_events
		SET calendar_event_id = $2,
			start_date_time = $3,
			end_date_time = $4,
			updated_at = NOW()
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query, event.ID, event.CalendarEventID, event.StartDateTime, event.EndDateTime)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrMappingNotFound
	}
	return nil
}

// Delete implements leave.LeaveRequestCalendarEventRepository.
func (r *leaveRequestCalendarEventRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM leave_request_calendar_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrMappingNotFound
	}
	return nil
}

// FindBySageID implements leave.LeaveRequestCalendarEventRepository.
func (r *leaveRequestCalendarEventRepositoryImpl) FindBySageID(ctx context.Context, integration string, sageLeaveRequestID int64) (*leave.LeaveRequestCalendarEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestCalendarEventColumns + `
		FROM leave_request_calendar_events
		WHERE integration = $1 AND sage_leave_request_id = $2`

	e, err := scanLeaveRequestCalendarEvent(q.QueryRow(ctx, query, integration, sageLeaveRequestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// FindBySageIDs implements leave.LeaveRequestCalendarEventRepository.
func (r *leaveRequestCalendarEventRepositoryImpl) FindBySageIDs(ctx context.Context, integration string, sageLeaveRequestIDs []int64) ([]leave.LeaveRequestCalendarEvent, error) {
	if len(sageLeaveRequestIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestCalendarEventColumns + `
		FROM leave_request_calendar_events
		WHERE integration = $1 AND sage_leave_request_id = ANY($2)
		ORDER BY sage_leave_request_id`

	rows, err := q.Query(ctx, query, integration, sageLeaveRequestIDs)
	if err != nil {
		return nil, err
	}
	return collectLeaveRequestCalendarEvents(rows)
}

// FindByDateRange implements leave.LeaveRequestCalendarEventRepository.
func (r *leaveRequestCalendarEventRepositoryImpl) FindByDateRange(ctx context.Context, from, to time.Time) ([]leave.LeaveRequestCalendarEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestCalendarEventColumns + `
		FROM leave_request_calendar_events
		WHERE start_date_time <= $2 AND end_date_time >= $1
		ORDER BY start_date_time, id`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return collectLeaveRequestCalendarEvents(rows)
}
