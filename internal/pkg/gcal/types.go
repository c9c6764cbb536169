package gcal

import (
	"google.golang.org/api/calendar/v3"
)

const (
	VisibilityPublic   = "public"
	TransparencyOpaque = "opaque"

	ResponseStatusAccepted = "accepted"
)

// EventDateTime is either an all-day Date ("2006-01-02") or a DateTime
// ("2006-01-02T15:04:05") interpreted in TimeZone.
type EventDateTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"date_time,omitempty"`
	TimeZone string `json:"time_zone,omitempty"`
}

func (dt EventDateTime) IsAllDay() bool {
	return dt.Date != ""
}

type Attendee struct {
	Email          string `json:"email"`
	ResponseStatus string `json:"response_status,omitempty"`
}

// EventUpsert is the payload for creating or replacing an event.
type EventUpsert struct {
	Summary             string
	Description         string
	Attendees           []Attendee
	UseDefaultReminders bool
	Visibility          string
	Transparency        string
	Start               EventDateTime
	End                 EventDateTime
}

type Event struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	Summary     string        `json:"summary"`
	Description string        `json:"description,omitempty"`
	HTMLLink    string        `json:"html_link,omitempty"`
	Visibility  string        `json:"visibility,omitempty"`
	Attendees   []Attendee    `json:"attendees,omitempty"`
	Start       EventDateTime `json:"start"`
	End         EventDateTime `json:"end"`
	Created     string        `json:"created,omitempty"`
	Updated     string        `json:"updated,omitempty"`
}

type Calendar struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	TimeZone    string `json:"time_zone"`
}

func (u EventUpsert) toAPI() *calendar.Event {
	ev := &calendar.Event{
		Summary:      u.Summary,
		Description:  u.Description,
		Visibility:   u.Visibility,
		Transparency: u.Transparency,
		Start:        toAPIDateTime(u.Start),
		End:          toAPIDateTime(u.End),
		Reminders: &calendar.EventReminders{
			UseDefault:      u.UseDefaultReminders,
			ForceSendFields: []string{"UseDefault"},
		},
	}
	for _, a := range u.Attendees {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{
			Email:          a.Email,
			ResponseStatus: a.ResponseStatus,
		})
	}
	return ev
}

func toAPIDateTime(dt EventDateTime) *calendar.EventDateTime {
	return &calendar.EventDateTime{
		Date:     dt.Date,
		DateTime: dt.DateTime,
		TimeZone: dt.TimeZone,
	}
}

func fromAPIEvent(ev *calendar.Event) Event {
	out := Event{
		ID:          ev.Id,
		Status:      ev.Status,
		Summary:     ev.Summary,
		Description: ev.Description,
		HTMLLink:    ev.HtmlLink,
		Visibility:  ev.Visibility,
		Created:     ev.Created,
		Updated:     ev.Updated,
	}
	if ev.Start != nil {
		out.Start = EventDateTime{Date: ev.Start.Date, DateTime: ev.Start.DateTime, TimeZone: ev.Start.TimeZone}
	}
	if ev.End != nil {
		out.End = EventDateTime{Date: ev.End.Date, DateTime: ev.End.DateTime, TimeZone: ev.End.TimeZone}
	}
	for _, a := range ev.Attendees {
		if a == nil {
			continue
		}
		out.Attendees = append(out.Attendees, Attendee{Email: a.Email, ResponseStatus: a.ResponseStatus})
	}
	return out
}
