package sage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/config"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
	"github.com/goccy/go-json"
)

const (
	leaveRequestsPath = "/api/leave-management/requests"
	policiesPath      = "/api/leave-management/policies"
	employeesPath     = "/api/employees"

	maxErrorBody = 512
)

// Client talks to the Sage HR REST API.
type Client struct {
	domain     string
	apiKey     string
	httpClient *http.Client
	directory  *Directory
	partOfDay  leave.PartOfDayConfig
}

// NewClient creates a Sage HR client. Call Init before fetching leave requests.
func NewClient(cfg config.SageConfig, partOfDay leave.PartOfDayConfig) *Client {
	c := &Client{
		domain:     cfg.Domain,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		partOfDay:  partOfDay,
	}
	c.directory = NewDirectory(c, cfg.CacheTTL)
	return c
}

// APIError represents a non-2xx Sage HR response
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sage API error [%d] %s: %s", e.StatusCode, e.Path, e.Body)
}

// Init eagerly loads the policy and employee directory.
func (c *Client) Init(ctx context.Context) error {
	return c.directory.Load(ctx)
}

func (c *Client) Directory() *Directory {
	return c.directory
}

// FetchLeaveRequests returns every leave request between from and to with its
// policy and employee resolved and part-of-day times filled in.
func (c *Client) FetchLeaveRequests(ctx context.Context, from, to time.Time) ([]leave.LeaveRequest, error) {
	query := url.Values{}
	query.Set("from", from.Format(leave.DateLayout))
	query.Set("to", to.Format(leave.DateLayout))

	raw, err := fetchAll[wireLeaveRequest](ctx, c, leaveRequestsPath, query)
	if err != nil {
		return nil, fmt.Errorf("fetch leave requests: %w", err)
	}

	loadedAt := c.directory.LoadedAt()
	if err := c.directory.Refresh(ctx); err != nil {
		if errors.Is(err, ErrDirectoryNotLoaded) {
			return nil, err
		}
		slog.Warn("Using stale Sage directory", "error", err)
	}
	if c.directory.LoadedAt().Equal(loadedAt) && c.hasUnresolved(raw) {
		slog.Info("Leave requests reference unknown employees or policies, reloading directory")
		if err := c.directory.Reload(ctx); err != nil {
			slog.Warn("Failed to reload Sage directory", "error", err)
		}
	}

	requests := make([]leave.LeaveRequest, 0, len(raw))
	for _, w := range raw {
		lr, err := toLeaveRequest(w, c.directory, c.partOfDay)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, nil
}

func (c *Client) hasUnresolved(raw []wireLeaveRequest) bool {
	for _, w := range raw {
		if _, ok := c.directory.Employee(w.EmployeeID); !ok {
			return true
		}
		if _, ok := c.directory.Policy(w.PolicyID); !ok {
			return true
		}
	}
	return false
}

func (c *Client) FetchPolicies(ctx context.Context) ([]leave.Policy, error) {
	raw, err := fetchAll[wirePolicy](ctx, c, policiesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch policies: %w", err)
	}

	policies := make([]leave.Policy, 0, len(raw))
	for _, w := range raw {
		policies = append(policies, toPolicy(w))
	}
	return policies, nil
}

func (c *Client) FetchEmployees(ctx context.Context) ([]leave.Employee, error) {
	raw, err := fetchAll[wireEmployee](ctx, c, employeesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch employees: %w", err)
	}

	employees := make([]leave.Employee, 0, len(raw))
	for _, w := range raw {
		employees = append(employees, toEmployee(w))
	}
	return employees, nil
}

// fetchAll walks page=1,2,... until page >= meta.total_pages and concatenates
// the data arrays. A response without meta is a single page.
func fetchAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}

	var items []T
	for pageNum := 1; ; pageNum++ {
		query.Set("page", strconv.Itoa(pageNum))

		var p page[T]
		if err := c.get(ctx, path, query, &p); err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}
		items = append(items, p.Data...)

		if p.Meta == nil || pageNum >= p.Meta.TotalPages {
			return items, nil
		}
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.domain + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Path: path, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
