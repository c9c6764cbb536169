package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
)

const leaveRequestCalendarEventColumns = `
	id, integration, sage_leave_request_id, calendar_event_id,
	start_date_time, end_date_time, created_at, updated_at`

type leaveRequestCalendarEventRepositoryImpl struct {
	db *sql.DB
}

func NewLeaveRequestCalendarEventRepository(db *sql.DB) leave.LeaveRequestCalendarEventRepository {
	return &leaveRequestCalendarEventRepositoryImpl{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeaveRequestCalendarEvent(row rowScanner) (leave.LeaveRequestCalendarEvent, error) {
	var e leave.LeaveRequestCalendarEvent
	var calendarEventID sql.NullString
	var start, end, created, updated string
	err := row.Scan(
		&e.ID,
		&e.Integration,
		&e.SageLeaveRequestID,
		&calendarEventID,
		&start,
		&end,
		&created,
		&updated,
	)
	if err != nil {
		return e, err
	}

	if calendarEventID.Valid {
		e.CalendarEventID = &calendarEventID.String
	}
	for _, f := range []struct {
		src string
		dst *time.Time
	}{
		{start, &e.StartDateTime},
		{end, &e.EndDateTime},
		{created, &e.CreatedAt},
		{updated, &e.UpdatedAt},
	} {
		if *f.dst, err = parseTime(f.src); err != nil {
			return e, err
		}
	}
	return e, nil
}

func collectLeaveRequestCalendarEvents(rows *sql.Rows) ([]leave.LeaveRequestCalendarEvent, error) {
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

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *leaveRequestCalendarEventRepositoryImpl) Create(ctx context.Context, event leave.LeaveRequestCalendarEvent) (leave.LeaveRequestCalendarEvent, error) {
	now := time.Now().UTC().Truncate(time.Second)

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO leave_request_calendar_events (
			integration, sage_leave_request_id, calendar_event_id,
			start_date_time, end_date_time, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.Integration, event.SageLeaveRequestID, nullString(event.CalendarEventID),
		formatTime(event.StartDateTime), formatTime(event.EndDateTime),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return leave.LeaveRequestCalendarEvent{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return leave.LeaveRequestCalendarEvent{}, err
	}
	event.ID = id
	event.CreatedAt = now
	event.UpdatedAt = now
	return event, nil
}

func (r *leaveRequestCalendarEventRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.LeaveRequestCalendarEvent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+leaveRequestCalendarEventColumns+`
		FROM leave_request_calendar_events WHERE id = ?`, id)

	e, err := scanLeaveRequestCalendarEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return leave.LeaveRequestCalendarEvent{}, leave.ErrMappingNotFound
	}
	return e, err
}

func (r *leaveRequestCalendarEventRepositoryImpl) List(ctx context.Context) ([]leave.LeaveRequestCalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+leaveRequestCalendarEventColumns+`
		FROM leave_request_calendar_events ORDER BY start_date_time, id`)
	if err != nil {
		return nil, err
	}
	return collectLeaveRequestCalendarEvents(rows)
}

func (r *leaveRequestCalendarEventRepositoryImpl) Update(ctx context.Context, event leave.LeaveRequestCalendarEvent) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE leave_request_calendar_events
		SET calendar_event_id = ?, start_date_time = ?, end_date_time = ?, updated_at = ?
		WHERE id = ?`,
		nullString(event.CalendarEventID),
		formatTime(event.StartDateTime), formatTime(event.EndDateTime),
		formatTime(time.Now()), event.ID,
	)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (r *leaveRequestCalendarEventRepositoryImpl) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leave_request_calendar_events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return leave.ErrMappingNotFound
	}
	return nil
}

func (r *leaveRequestCalendarEventRepositoryImpl) FindBySageID(ctx context.Context, integration string, sageLeaveRequestID int64) (*leave.LeaveRequestCalendarEvent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+leaveRequestCalendarEventColumns+`
		FROM leave_request_calendar_events
		WHERE integration = ? AND sage_leave_request_id = ?`, integration, sageLeaveRequestID)

	e, err := scanLeaveRequestCalendarEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *leaveRequestCalendarEventRepositoryImpl) FindBySageIDs(ctx context.Context, integration string, sageLeaveRequestIDs []int64) ([]leave.LeaveRequestCalendarEvent, error) {
	if len(sageLeaveRequestIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(sageLeaveRequestIDs)+1)
	args = append(args, integration)
	for _, id := range sageLeaveRequestIDs {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sageLeaveRequestIDs)), ",")

	rows, err := r.db.QueryContext(ctx, `SELECT `+leaveRequestCalendarEventColumns+`
		FROM leave_request_calendar_events
		WHERE integration = ? AND sage_leave_request_id IN (`+placeholders+`)
		ORDER BY sage_leave_request_id`, args...)
	if err != nil {
		return nil, err
	}
	return collectLeaveRequestCalendarEvents(rows)
}

func (r *leaveRequestCalendarEventRepositoryImpl) FindByDateRange(ctx context.Context, from, to time.Time) ([]leave.LeaveRequestCalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+leaveRequestCalendarEventColumns+`
		FROM leave_request_calendar_events
		WHERE start_date_time <= ? AND end_date_time >= ?
		ORDER BY start_date_time, id`, formatTime(to), formatTime(from))
	if err != nil {
		return nil, err
	}
	return collectLeaveRequestCalendarEvents(rows)
}
