package leave

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/validator"
)

// SyncResult summarises one reconciliation pass.
type SyncResult struct {
	RunID      string    `json:"run_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Fetched    int       `json:"fetched"`
	Approved   int       `json:"approved"`
	Cancelled  int       `json:"cancelled"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Unchanged  int       `json:"unchanged"`
	Removed    int       `json:"removed"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type LeaveRequestCalendarEventResponse struct {
	ID                 int64     `json:"id"`
	Integration        string    `json:"integration"`
	SageLeaveRequestID int64     `json:"sage_leave_request_id"`
	CalendarEventID    *string   `json:"calendar_event_id"`
	StartDateTime      time.Time `json:"start_date_time"`
	EndDateTime        time.Time `json:"end_date_time"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewLeaveRequestCalendarEventResponse(e LeaveRequestCalendarEvent) LeaveRequestCalendarEventResponse {
	return LeaveRequestCalendarEventResponse{
		ID:                 e.ID,
		Integration:        e.Integration,
		SageLeaveRequestID: e.SageLeaveRequestID,
		CalendarEventID:    e.CalendarEventID,
		StartDateTime:      e.StartDateTime,
		EndDateTime:        e.EndDateTime,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

// DateRangeFilter is the from/to query of the listing endpoints.
type DateRangeFilter struct {
	From string `json:"from"`
	To   string `json:"to"`

	FromDate time.Time `json:"-"`
	ToDate   time.Time `json:"-"`
}

func (f *DateRangeFilter) Validate() error {
	var errs validator.ValidationErrors

	from, ok := validator.IsValidDate(f.From)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be a date in YYYY-MM-DD format",
		})
	}
	to, ok := validator.IsValidDate(f.To)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be a date in YYYY-MM-DD format",
		})
	}
	if len(errs) > 0 {
		return errs
	}

	if to.Before(from) {
		return fmt.Errorf("%w: to %s is before from %s", ErrInvalidDateRange, f.To, f.From)
	}

	f.FromDate = from
	// inclusive of the whole "to" day
	f.ToDate = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return nil
}
