package leave

import (
	"context"
	"time"
)

// LeaveRequestCalendarEventRepository - interface for leave_request_calendar_events table
type LeaveRequestCalendarEventRepository interface {
	Create(ctx context.Context, event LeaveRequestCalendarEvent) (LeaveRequestCalendarEvent, error)
	GetByID(ctx context.Context, id int64) (LeaveRequestCalendarEvent, error)
	List(ctx context.Context) ([]LeaveRequestCalendarEvent, error)
	Update(ctx context.Context, event LeaveRequestCalendarEvent) error
	Delete(ctx context.Context, id int64) error

	// FindBySageID returns nil when the integration has no mapping for the request.
	FindBySageID(ctx context.Context, integration string, sageLeaveRequestID int64) (*LeaveRequestCalendarEvent, error)
	FindBySageIDs(ctx context.Context, integration string, sageLeaveRequestIDs []int64) ([]LeaveRequestCalendarEvent, error)
	// FindByDateRange returns mappings whose [start, end] overlaps [from, to].
	FindByDateRange(ctx context.Context, from, to time.Time) ([]LeaveRequestCalendarEvent, error)
}
