package http

import (
	"context"
	"net/http"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/gcal"
	"github.com/go-chi/chi/v5"
)

type CalendarHandler interface {
	ListEvents(w http.ResponseWriter, r *http.Request)
	GetEvent(w http.ResponseWriter, r *http.Request)
}

type CalendarReader interface {
	ListEvents(ctx context.Context, from, to time.Time) ([]gcal.Event, error)
	GetEvent(ctx context.Context, eventID string) (*gcal.Event, error)
}

type CalendarHandlerImpl struct {
	calendar CalendarReader
	loc      *time.Location
}

func NewCalendarHandler(calendar CalendarReader, loc *time.Location) CalendarHandler {
	if loc == nil {
		loc = time.Local
	}
	return &CalendarHandlerImpl{calendar: calendar, loc: loc}
}

// ListEvents implements CalendarHandler. from and to are required.
func (h *CalendarHandlerImpl) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := leave.DateRangeFilter{From: query.Get("from"), To: query.Get("to")}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	from, to := inLocation(filter, h.loc)
	events, err := h.calendar.ListEvents(r.Context(), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if events == nil {
		events = []gcal.Event{}
	}

	response.SuccessWithMeta(w, events, &response.Meta{
		From:       filter.From,
		To:         filter.To,
		TotalItems: int64(len(events)),
	})
}

// GetEvent implements CalendarHandler.
func (h *CalendarHandlerImpl) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		response.BadRequest(w, "Event ID is required", nil)
		return
	}

	event, err := h.calendar.GetEvent(r.Context(), eventID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, event)
}
