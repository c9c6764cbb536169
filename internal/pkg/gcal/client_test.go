package gcal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const testCalendarID = "primary"

// fakeCalendarAPI is an in-memory stand-in for the Calendar v3 REST API.
type fakeCalendarAPI struct {
	mu          sync.Mutex
	events      map[string]*calendar.Event
	order       []string
	nextID      int
	pageSize    int
	sendUpdates []string
	gone        map[string]bool
}

func newFakeCalendarAPI(t *testing.T) (*fakeCalendarAPI, *Client) {
	t.Helper()
	api := &fakeCalendarAPI{
		events:   map[string]*calendar.Event{},
		pageSize: 2,
		gone:     map[string]bool{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /calendars/{cal}", api.getCalendar)
	mux.HandleFunc("GET /calendars/{cal}/events", api.listEvents)
	mux.HandleFunc("POST /calendars/{cal}/events", api.insertEvent)
	mux.HandleFunc("GET /calendars/{cal}/events/{id}", api.getEvent)
	mux.HandleFunc("PUT /calendars/{cal}/events/{id}", api.updateEvent)
	mux.HandleFunc("DELETE /calendars/{cal}/events/{id}", api.deleteEvent)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), testCalendarID,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return api, client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": status, "message": msg},
	})
}

func (f *fakeCalendarAPI) getCalendar(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("cal") != testCalendarID {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, calendar.Calendar{Id: testCalendarID, Summary: "Leaves", TimeZone: "Europe/Madrid"})
}

func (f *fakeCalendarAPI) listEvents(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := 0
	if tok := r.URL.Query().Get("pageToken"); tok != "" {
		fmt.Sscanf(tok, "%d", &start)
	}
	end := min(start+f.pageSize, len(f.order))

	resp := calendar.Events{}
	for _, id := range f.order[start:end] {
		resp.Items = append(resp.Items, f.events[id])
	}
	if end < len(f.order) {
		resp.NextPageToken = fmt.Sprintf("%d", end)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (f *fakeCalendarAPI) insertEvent(w http.ResponseWriter, r *http.Request) {
	var ev calendar.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	ev.Id = fmt.Sprintf("evt-%d", f.nextID)
	ev.Status = "confirmed"
	f.events[ev.Id] = &ev
	f.order = append(f.order, ev.Id)
	f.sendUpdates = append(f.sendUpdates, r.URL.Query().Get("sendUpdates"))
	writeJSON(w, http.StatusOK, ev)
}

func (f *fakeCalendarAPI) getEvent(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (f *fakeCalendarAPI) updateEvent(w http.ResponseWriter, r *http.Request) {
	var ev calendar.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := f.events[id]; !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	ev.Id = id
	f.events[id] = &ev
	writeJSON(w, http.StatusOK, ev)
}

func (f *fakeCalendarAPI) deleteEvent(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	if f.gone[id] {
		writeError(w, http.StatusGone, "Resource has been deleted")
		return
	}
	if _, ok := f.events[id]; !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	delete(f.events, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func sampleUpsert() EventUpsert {
	return EventUpsert{
		Summary:             "Jane Doe: Vacaciones",
		Description:         "Beach",
		Attendees:           []Attendee{{Email: "jane.doe@example.com", ResponseStatus: ResponseStatusAccepted}},
		UseDefaultReminders: true,
		Visibility:          VisibilityPublic,
		Transparency:        TransparencyOpaque,
		Start:               EventDateTime{DateTime: "2024-05-06T09:00:00", TimeZone: "Europe/Madrid"},
		End:                 EventDateTime{DateTime: "2024-05-06T13:00:00", TimeZone: "Europe/Madrid"},
	}
}

func TestClient_GetCalendar(t *testing.T) {
	_, client := newFakeCalendarAPI(t)

	cal, err := client.GetCalendar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testCalendarID, cal.ID)
	assert.Equal(t, "Europe/Madrid", cal.TimeZone)
}

func TestClient_CreateGetDelete(t *testing.T) {
	api, client := newFakeCalendarAPI(t)
	ctx := context.Background()

	created, err := client.CreateEvent(ctx, sampleUpsert())
	require.NoError(t, err)
	assert.Equal(t, "evt-1", created.ID)
	assert.Equal(t, []string{"all"}, api.sendUpdates)

	got, err := client.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe: Vacaciones", got.Summary)
	assert.Equal(t, "2024-05-06T09:00:00", got.Start.DateTime)
	assert.Equal(t, "Europe/Madrid", got.Start.TimeZone)
	require.Len(t, got.Attendees, 1)
	assert.Equal(t, ResponseStatusAccepted, got.Attendees[0].ResponseStatus)

	require.NoError(t, client.DeleteEvent(ctx, created.ID))

	_, err = client.GetEvent(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, client.DeleteEvent(ctx, created.ID), ErrNotFound)
}

func TestClient_DeleteGoneIsNotFound(t *testing.T) {
	api, client := newFakeCalendarAPI(t)
	api.gone["old"] = true

	err := client.DeleteEvent(context.Background(), "old")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_UpdateEvent(t *testing.T) {
	_, client := newFakeCalendarAPI(t)
	ctx := context.Background()

	created, err := client.CreateEvent(ctx, sampleUpsert())
	require.NoError(t, err)

	data := sampleUpsert()
	data.Start = EventDateTime{Date: "2024-05-06", TimeZone: "Europe/Madrid"}
	data.End = EventDateTime{Date: "2024-05-07", TimeZone: "Europe/Madrid"}

	updated, err := client.UpdateEvent(ctx, created.ID, data)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.Start.IsAllDay())
	assert.Equal(t, "2024-05-07", updated.End.Date)

	_, err = client.UpdateEvent(ctx, "missing", data)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_ListEventsFollowsPages(t *testing.T) {
	_, client := newFakeCalendarAPI(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := client.CreateEvent(ctx, sampleUpsert())
		require.NoError(t, err)
	}

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	events, err := client.ListEvents(ctx, from, from.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "evt-5", events[4].ID)
}

func TestEventUpsert_ToAPIForcesReminderFlag(t *testing.T) {
	data := sampleUpsert()
	data.UseDefaultReminders = false

	ev := data.toAPI()
	require.NotNil(t, ev.Reminders)
	assert.False(t, ev.Reminders.UseDefault)
	assert.Contains(t, ev.Reminders.ForceSendFields, "UseDefault")
	assert.Equal(t, "opaque", ev.Transparency)
}
