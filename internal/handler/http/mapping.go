package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MappingHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type MappingHandlerImpl struct {
	repo leave.LeaveRequestCalendarEventRepository
	loc  *time.Location
}

// NewMappingHandler serves the stored leave request to calendar event
// mappings. Query dates are read in loc.
func NewMappingHandler(repo leave.LeaveRequestCalendarEventRepository, loc *time.Location) MappingHandler {
	if loc == nil {
		loc = time.Local
	}
	return &MappingHandlerImpl{repo: repo, loc: loc}
}

// List implements MappingHandler. Without from/to every mapping is returned.
func (h *MappingHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var (
		events []leave.LeaveRequestCalendarEvent
		meta   response.Meta
		err    error
	)

	if query.Get("from") == "" && query.Get("to") == "" {
		events, err = h.repo.List(ctx)
	} else {
		filter := leave.DateRangeFilter{From: query.Get("from"), To: query.Get("to")}
		if err := filter.Validate(); err != nil {
			response.HandleError(w, err)
			return
		}
		from, to := inLocation(filter, h.loc)
		meta.From, meta.To = filter.From, filter.To
		events, err = h.repo.FindByDateRange(ctx, from, to)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data := make([]leave.LeaveRequestCalendarEventResponse, 0, len(events))
	for _, e := range events {
		data = append(data, leave.NewLeaveRequestCalendarEventResponse(e))
	}
	meta.TotalItems = int64(len(data))

	response.SuccessWithMeta(w, data, &meta)
}

// Get implements MappingHandler.
func (h *MappingHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Mapping ID must be a positive integer", nil)
		return
	}

	event, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveRequestCalendarEventResponse(event))
}

// inLocation re-anchors a validated filter's calendar dates in loc.
func inLocation(f leave.DateRangeFilter, loc *time.Location) (from, to time.Time) {
	from = time.Date(f.FromDate.Year(), f.FromDate.Month(), f.FromDate.Day(), 0, 0, 0, 0, loc)
	to = time.Date(f.ToDate.Year(), f.ToDate.Month(), f.ToDate.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to
}
