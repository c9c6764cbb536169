package gcal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/config"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrNotFound is returned when the calendar or event does not exist (404) or
// was already deleted (410).
var ErrNotFound = errors.New("calendar resource not found")

// Client operates on a single Google Calendar.
type Client struct {
	service    *calendar.Service
	calendarID string
}

// NewClient creates a client for calendarID. Pass ServiceAccountOption in
// production; tests pass option.WithEndpoint and option.WithoutAuthentication.
func NewClient(ctx context.Context, calendarID string, opts ...option.ClientOption) (*Client, error) {
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Client{service: service, calendarID: calendarID}, nil
}

// ServiceAccountOption authenticates with a service account key, impersonating
// SubjectEmail when set (domain-wide delegation). Credentials holds either the
// key JSON itself or a path to it.
func ServiceAccountOption(ctx context.Context, cfg config.GoogleCalendarConfig) (option.ClientOption, error) {
	key := []byte(cfg.Credentials)
	if !strings.HasPrefix(strings.TrimSpace(cfg.Credentials), "{") {
		b, err := os.ReadFile(cfg.Credentials)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		key = b
	}

	jwtConfig, err := google.JWTConfigFromJSON(key, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	jwtConfig.Subject = cfg.SubjectEmail

	return option.WithHTTPClient(jwtConfig.Client(ctx)), nil
}

func (c *Client) CalendarID() string {
	return c.calendarID
}

func (c *Client) GetCalendar(ctx context.Context) (*Calendar, error) {
	cal, err := c.service.Calendars.Get(c.calendarID).Context(ctx).Do()
	if err != nil {
		return nil, c.fail("get calendar", err)
	}
	return &Calendar{
		ID:          cal.Id,
		Summary:     cal.Summary,
		Description: cal.Description,
		TimeZone:    cal.TimeZone,
	}, nil
}

// ListEvents returns the single (expanded) events overlapping [from, to),
// following every page.
func (c *Client) ListEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	var events []Event
	pageToken := ""

	for {
		req := c.service.Events.List(c.calendarID).
			ShowDeleted(false).
			SingleEvents(true).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		resp, err := req.Do()
		if err != nil {
			return nil, c.fail("list events", err)
		}
		for _, item := range resp.Items {
			events = append(events, fromAPIEvent(item))
		}

		if resp.NextPageToken == "" {
			return events, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (c *Client) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	ev, err := c.service.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, c.fail("get event", err, "event_id", eventID)
	}
	out := fromAPIEvent(ev)
	return &out, nil
}

// CreateEvent inserts the event and notifies attendees.
func (c *Client) CreateEvent(ctx context.Context, data EventUpsert) (*Event, error) {
	ev, err := c.service.Events.Insert(c.calendarID, data.toAPI()).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, c.fail("create event", err, "summary", data.Summary)
	}
	out := fromAPIEvent(ev)
	return &out, nil
}

// UpdateEvent replaces every field of an existing event.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, data EventUpsert) (*Event, error) {
	ev, err := c.service.Events.Update(c.calendarID, eventID, data.toAPI()).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, c.fail("update event", err, "event_id", eventID)
	}
	out := fromAPIEvent(ev)
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.service.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return c.fail("delete event", err, "event_id", eventID)
	}
	return nil
}

// fail logs the error and maps missing resources to ErrNotFound.
func (c *Client) fail(op string, err error, attrs ...any) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
		slog.Warn("Google Calendar resource not found", append([]any{"op", op, "calendar_id", c.calendarID}, attrs...)...)
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	slog.Error("Google Calendar request failed", append([]any{"op", op, "calendar_id", c.calendarID, "error", err}, attrs...)...)
	return fmt.Errorf("%s: %w", op, err)
}
