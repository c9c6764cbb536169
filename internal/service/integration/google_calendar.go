package integration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/gcal"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/tzlocale"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/validator"
)

const GoogleCalendarName = "google_calendar"

// Update strategies for changed leave requests.
const (
	StrategyReplace = "replace"
	StrategyUpdate  = "update"
)

type CalendarClient interface {
	CreateEvent(ctx context.Context, data gcal.EventUpsert) (*gcal.Event, error)
	UpdateEvent(ctx context.Context, eventID string, data gcal.EventUpsert) (*gcal.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

type GoogleCalendarIntegration struct {
	calendar CalendarClient
	strategy string
}

func NewGoogleCalendarIntegration(calendar CalendarClient, strategy string) leave.IntegrationService {
	if strategy == "" {
		strategy = StrategyReplace
	}
	return &GoogleCalendarIntegration{calendar: calendar, strategy: strategy}
}

func (g *GoogleCalendarIntegration) Name() string {
	return GoogleCalendarName
}

// HandleCreate implements leave.IntegrationService.
func (g *GoogleCalendarIntegration) HandleCreate(ctx context.Context, lr leave.LeaveRequest) (string, error) {
	data, err := BuildEventUpsert(lr)
	if err != nil {
		return "", err
	}

	event, err := g.calendar.CreateEvent(ctx, data)
	if err != nil {
		return "", fmt.Errorf("create calendar event: %w", err)
	}

	slog.Info("Calendar event created", "leave_request_id", lr.ID, "event_id", event.ID, "summary", event.Summary)
	return event.ID, nil
}

// HandleUpdate implements leave.IntegrationService.
func (g *GoogleCalendarIntegration) HandleUpdate(ctx context.Context, lr leave.LeaveRequest, eventID string) (string, error) {
	data, err := BuildEventUpsert(lr)
	if err != nil {
		return "", err
	}

	if g.strategy == StrategyUpdate {
		event, err := g.calendar.UpdateEvent(ctx, eventID, data)
		if err == nil {
			slog.Info("Calendar event updated", "leave_request_id", lr.ID, "event_id", event.ID, "summary", event.Summary)
			return event.ID, nil
		}
		if !errors.Is(err, gcal.ErrNotFound) {
			return "", fmt.Errorf("update calendar event: %w", err)
		}
		slog.Warn("Calendar event missing, recreating", "leave_request_id", lr.ID, "event_id", eventID)
	} else {
		if err := g.calendar.DeleteEvent(ctx, eventID); err != nil && !errors.Is(err, gcal.ErrNotFound) {
			return "", fmt.Errorf("delete calendar event: %w", err)
		}
	}

	event, err := g.calendar.CreateEvent(ctx, data)
	if err != nil {
		return "", fmt.Errorf("create calendar event: %w", err)
	}

	slog.Info("Calendar event replaced", "leave_request_id", lr.ID, "old_event_id", eventID, "event_id", event.ID, "summary", event.Summary)
	return event.ID, nil
}

// HandleRemove implements leave.IntegrationService. An event that is already
// gone counts as removed.
func (g *GoogleCalendarIntegration) HandleRemove(ctx context.Context, lr leave.LeaveRequest, eventID string) error {
	if err := g.calendar.DeleteEvent(ctx, eventID); err != nil && !errors.Is(err, gcal.ErrNotFound) {
		return fmt.Errorf("delete calendar event: %w", err)
	}

	slog.Info("Calendar event removed for cancelled leave request",
		"leave_request_id", lr.ID, "event_id", eventID,
		"employee", lr.EmployeeName(), "policy", lr.PolicyName())
	return nil
}

func (g *GoogleCalendarIntegration) NoUpdateNeededMessage(lr leave.LeaveRequest) string {
	var first, last string
	if lr.Employee != nil {
		first, last = lr.Employee.FirstName, lr.Employee.LastName
	}
	return fmt.Sprintf("Event Calendar already exists for leave request: %s %s: %s", last, first, lr.PolicyName())
}

// BuildEventUpsert renders a leave request as a calendar event: one busy,
// public event per request with the employee as accepted attendee, in the time
// zone of the employee's country.
func BuildEventUpsert(lr leave.LeaveRequest) (gcal.EventUpsert, error) {
	if lr.Employee == nil {
		return gcal.EventUpsert{}, fmt.Errorf("leave request %d: %w", lr.ID, leave.ErrMissingEmployee)
	}
	if lr.Policy == nil {
		return gcal.EventUpsert{}, fmt.Errorf("leave request %d: %w", lr.ID, leave.ErrMissingPolicy)
	}

	timeZone, ok := tzlocale.FindTimeZoneByCountryCode(lr.Employee.Country)
	if !ok {
		slog.Debug("No time zone for employee country, using calendar default",
			"leave_request_id", lr.ID, "country", lr.Employee.Country)
	}

	data := gcal.EventUpsert{
		Summary:             fmt.Sprintf("%s %s: %s", lr.Employee.FirstName, lr.Employee.LastName, lr.Policy.Name),
		Description:         lr.Details,
		UseDefaultReminders: true,
		Visibility:          gcal.VisibilityPublic,
		Transparency:        gcal.TransparencyOpaque,
	}
	if validator.IsValidEmail(lr.Employee.Email) {
		data.Attendees = []gcal.Attendee{{Email: lr.Employee.Email, ResponseStatus: gcal.ResponseStatusAccepted}}
	} else {
		slog.Warn("Employee email invalid, creating event without attendee",
			"leave_request_id", lr.ID, "employee_id", lr.EmployeeID)
	}

	if lr.HasTimes() {
		data.Start = gcal.EventDateTime{DateTime: lr.StartDate + "T" + lr.StartTime + ":00", TimeZone: timeZone}
		data.End = gcal.EventDateTime{DateTime: lr.EndDate + "T" + lr.EndTime + ":00", TimeZone: timeZone}
		return data, nil
	}

	endDate, err := leave.AllDayEndDate(lr)
	if err != nil {
		return gcal.EventUpsert{}, err
	}
	data.Start = gcal.EventDateTime{Date: lr.StartDate, TimeZone: timeZone}
	data.End = gcal.EventDateTime{Date: endDate, TimeZone: timeZone}
	return data, nil
}
