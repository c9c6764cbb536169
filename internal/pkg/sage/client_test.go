package sage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/config"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

const policiesBody = `{"data":[{"id":1,"name":"Vacaciones","color":"#ff0000","do_not_accrue":false,"unit":"days","default_allowance":"23","max_carryover":"5.5","accrue_type":"yearly"}],"meta":{"current_page":1,"total_pages":1}}`

const employeesBody = `{"data":[{"id":10,"email":"jane.doe@example.com","first_name":"Jane","last_name":"Doe","country":"ES","post_code":28001,"team_id":null}]}`

type sageServer struct {
	*httptest.Server
	leaveRequestPages map[string]string
	employeeCalls     atomic.Int32
	failPage          string
}

func newSageServer(t *testing.T) *sageServer {
	t.Helper()
	s := &sageServer{leaveRequestPages: map[string]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc(policiesPath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, policiesBody)
	})
	mux.HandleFunc(employeesPath, func(w http.ResponseWriter, r *http.Request) {
		s.employeeCalls.Add(1)
		fmt.Fprint(w, employeesBody)
	})
	mux.HandleFunc(leaveRequestsPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Auth-Token") != testAPIKey {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		p := r.URL.Query().Get("page")
		if p == s.failPage {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		body, ok := s.leaveRequestPages[p]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func newTestClient(t *testing.T, s *sageServer, apiKey string) *Client {
	t.Helper()
	c := NewClient(config.SageConfig{
		Domain:      s.URL,
		APIKey:      apiKey,
		CacheTTL:    time.Hour,
		HTTPTimeout: 5 * time.Second,
	}, leave.DefaultPartOfDayConfig())
	require.NoError(t, c.Init(context.Background()))
	return c
}

func window() (time.Time, time.Time) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 60)
}

func TestFetchLeaveRequests_Pagination(t *testing.T) {
	s := newSageServer(t)
	s.leaveRequestPages["1"] = `{"data":[{"id":1,"status_code":"approved","policy_id":1,"employee_id":10,"start_date":"2024-05-06","end_date":"2024-05-06"}],"meta":{"total_pages":2}}`
	s.leaveRequestPages["2"] = `{"data":[{"id":2,"status_code":"canceled","policy_id":1,"employee_id":10,"start_date":"2024-05-07","end_date":"2024-05-08","is_multi_date":true}],"meta":{"total_pages":2}}`

	c := newTestClient(t, s, testAPIKey)
	from, to := window()

	requests, err := c.FetchLeaveRequests(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, requests, 2)

	assert.Equal(t, int64(1), requests[0].ID)
	assert.Equal(t, int64(2), requests[1].ID)
	assert.True(t, requests[0].IsApproved())
	assert.True(t, requests[1].IsCancelled())
	assert.True(t, requests[1].IsMultiDate)

	require.NotNil(t, requests[0].Employee)
	assert.Equal(t, "Jane Doe", requests[0].EmployeeName())
	assert.Equal(t, "28001", requests[0].Employee.PostCode)
	assert.Nil(t, requests[0].Employee.TeamID)
	require.NotNil(t, requests[0].Policy)
	assert.Equal(t, "Vacaciones", requests[0].PolicyName())
	assert.Equal(t, "5.5", requests[0].Policy.MaxCarryover.String())
}

func TestFetchLeaveRequests_SinglePageWithoutMeta(t *testing.T) {
	s := newSageServer(t)
	s.leaveRequestPages["1"] = `{"data":[{"id":7,"status_code":"approved","policy_id":1,"employee_id":10,"start_date":"2024-05-06","end_date":"2024-05-06"}]}`

	c := newTestClient(t, s, testAPIKey)
	from, to := window()

	requests, err := c.FetchLeaveRequests(context.Background(), from, to)
	require.NoError(t, err)
	assert.Len(t, requests, 1)
}

func TestFetchLeaveRequests_FailedPageFailsCall(t *testing.T) {
	s := newSageServer(t)
	s.leaveRequestPages["1"] = `{"data":[{"id":1,"status_code":"approved","policy_id":1,"employee_id":10}],"meta":{"total_pages":2}}`
	s.failPage = "2"

	c := newTestClient(t, s, testAPIKey)
	from, to := window()

	requests, err := c.FetchLeaveRequests(context.Background(), from, to)
	require.Error(t, err)
	assert.Nil(t, requests)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, leaveRequestsPath, apiErr.Path)
}

func TestFetchLeaveRequests_Unauthorized(t *testing.T) {
	s := newSageServer(t)
	c := newTestClient(t, s, "wrong-key")
	from, to := window()

	_, err := c.FetchLeaveRequests(context.Background(), from, to)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestFetchLeaveRequests_Conversion(t *testing.T) {
	s := newSageServer(t)
	s.leaveRequestPages["1"] = `{"data":[
		{"id":1,"status_code":"approved","policy_id":1,"employee_id":10,"start_date":"2024-05-06","end_date":"2024-05-06","is_single_day":true,"hours":4,"first_part_of_day":true},
		{"id":2,"status_code":"approved","policy_id":1,"employee_id":10,"start_date":"2024-05-06","end_date":"2024-05-06","is_single_day":true,"hours":8},
		{"id":3,"status_code":"approved","policy_id":1,"employee_id":10,"start_date":"2024-05-06","end_date":"2024-05-06","is_part_of_day":true,"second_part_of_day":true,"hours":2.5},
		{"id":4,"status_code":"approved","policy_id":1,"employee_id":10,"start_date":"2024-05-06","end_date":"2024-05-06","is_part_of_day":true,"first_part_of_day":true,"hours":null},
		{"id":5,"status_code":"approved","policy_id":1,"employee_id":10,"start_date":"2024-05-06","end_date":"2024-05-06","specific_time":true,"start_time":"10:00","end_time":"12:00","replacement":{"id":11,"full_name":"John Roe"},"fields":[{"title":"Reason","answer":"Doctor"}],"approval_date":"2024-04-30"}
	]}`

	c := newTestClient(t, s, testAPIKey)
	from, to := window()

	requests, err := c.FetchLeaveRequests(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, requests, 5)

	t.Run("short single day becomes part of day", func(t *testing.T) {
		lr := requests[0]
		assert.False(t, lr.IsSingleDay)
		assert.True(t, lr.IsPartOfDay)
		assert.Equal(t, "09:00", lr.StartTime)
		assert.Equal(t, "13:00", lr.EndTime)
	})

	t.Run("full single day untouched", func(t *testing.T) {
		lr := requests[1]
		assert.True(t, lr.IsSingleDay)
		assert.False(t, lr.IsPartOfDay)
		assert.False(t, lr.HasTimes())
	})

	t.Run("second part with fractional hours", func(t *testing.T) {
		assert.Equal(t, "14:00", requests[2].StartTime)
		assert.Equal(t, "16:30", requests[2].EndTime)
	})

	t.Run("null hours default to four", func(t *testing.T) {
		assert.False(t, requests[3].Hours.Valid)
		assert.Equal(t, "09:00", requests[3].StartTime)
		assert.Equal(t, "13:00", requests[3].EndTime)
	})

	t.Run("explicit times and extras carried", func(t *testing.T) {
		lr := requests[4]
		assert.Equal(t, "10:00", lr.StartTime)
		assert.Equal(t, "12:00", lr.EndTime)
		require.NotNil(t, lr.Replacement)
		assert.Equal(t, "John Roe", lr.Replacement.FullName)
		require.Len(t, lr.Fields, 1)
		assert.Equal(t, "Doctor", lr.Fields[0].Answer)
		require.NotNil(t, lr.ApprovalDate)
		assert.Equal(t, "2024-04-30", *lr.ApprovalDate)
	})
}

func TestFetchLeaveRequests_UnknownEmployeeReloadsDirectory(t *testing.T) {
	s := newSageServer(t)
	s.leaveRequestPages["1"] = `{"data":[{"id":1,"status_code":"approved","policy_id":1,"employee_id":99,"start_date":"2024-05-06","end_date":"2024-05-06"}]}`

	c := newTestClient(t, s, testAPIKey)
	assert.Equal(t, int32(1), s.employeeCalls.Load())
	from, to := window()

	requests, err := c.FetchLeaveRequests(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, requests, 1)

	assert.Equal(t, int32(2), s.employeeCalls.Load())
	assert.Nil(t, requests[0].Employee)
	assert.Equal(t, int64(99), requests[0].EmployeeID)
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 500, Path: "/api/employees", Body: "oops"}
	assert.Equal(t, "sage API error [500] /api/employees: oops", err.Error())
}
