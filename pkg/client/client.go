// Package client is a Go client for the dekad HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dekadapp/dekad/internal/types"
)

// Config holds the client configuration
type Config struct {
	BaseURL string        // dekad server URL, e.g. http://localhost:8080
	APIKey  string        // API key for authentication
	Timeout time.Duration // Request timeout (default: 30 seconds)
}

// Client talks to a dekad server.
type Client struct {
	baseURL string
	apiKey  string
	today   string
	http    *http.Client
}

// New creates a new Client
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("BaseURL is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		http:    &http.Client{Timeout: config.Timeout},
	}, nil
}

// At returns a copy of c whose requests are evaluated as of day instead of
// the server's clock.
func (c *Client) At(day time.Time) *Client {
	cp := *c
	cp.today = day.Format(time.DateOnly)
	return &cp
}

// Health returns the server health.
func (c *Client) Health(ctx context.Context) (*types.HealthResponse, error) {
	var out types.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GeneratePeriods creates the 36 periods of year.
func (c *Client) GeneratePeriods(ctx context.Context, year int) (*types.PeriodListResponse, error) {
	var out types.PeriodListResponse
	if err := c.do(ctx, http.MethodPost, yearPath(year, "/periods"), nil, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPeriods returns the periods of year with their status.
func (c *Client) ListPeriods(ctx context.Context, year int) (*types.PeriodListResponse, error) {
	var out types.PeriodListResponse
	if err := c.do(ctx, http.MethodGet, yearPath(year, "/periods"), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteYear removes the periods of year and everything recorded against them.
func (c *Client) DeleteYear(ctx context.Context, year int) error {
	return c.do(ctx, http.MethodDelete, yearPath(year, "/periods"), nil, http.StatusNoContent, nil)
}

// CurrentPeriod returns the period of year containing today.
func (c *Client) CurrentPeriod(ctx context.Context, year int) (*types.PeriodView, error) {
	var out types.PeriodView
	if err := c.do(ctx, http.MethodGet, yearPath(year, "/periods/current"), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPeriod returns a period with its goals, result and daily records.
func (c *Client) GetPeriod(ctx context.Context, year, number int) (*types.PeriodDetailResponse, error) {
	var out types.PeriodDetailResponse
	if err := c.do(ctx, http.MethodGet, periodPath(year, number, ""), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddGoal adds a goal to a period.
func (c *Client) AddGoal(ctx context.Context, year, number int, goal types.NewGoal) (*types.Goal, error) {
	var out types.Goal
	if err := c.do(ctx, http.MethodPost, periodPath(year, number, "/goals"), goal, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetGoalCompleted marks a goal completed or not.
func (c *Client) SetGoalCompleted(ctx context.Context, id string, completed bool) (*types.Goal, error) {
	var out types.Goal
	body := types.GoalUpdateRequest{Completed: &completed}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/goals/"+url.PathEscape(id), body, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteGoal removes a goal.
func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/goals/"+url.PathEscape(id), nil, http.StatusNoContent, nil)
}

// SaveResult creates or replaces the retrospective of a period.
func (c *Client) SaveResult(ctx context.Context, year, number int, result types.NewResult) (*types.Result, error) {
	var out types.Result
	if err := c.do(ctx, http.MethodPut, periodPath(year, number, "/result"), result, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveDailyRecord creates or replaces the record for one day of a period.
func (c *Client) SaveDailyRecord(ctx context.Context, year, number, day int, rec types.NewDailyRecord) (*types.DailyRecord, error) {
	var out types.DailyRecord
	path := periodPath(year, number, fmt.Sprintf("/days/%d", day))
	if err := c.do(ctx, http.MethodPut, path, rec, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDailyRecord removes what was recorded on one day of a period.
func (c *Client) DeleteDailyRecord(ctx context.Context, year, number, day int) error {
	path := periodPath(year, number, fmt.Sprintf("/days/%d", day))
	return c.do(ctx, http.MethodDelete, path, nil, http.StatusNoContent, nil)
}

// CompareDay compares day dayIndex across the periods of year.
func (c *Client) CompareDay(ctx context.Context, year, dayIndex int) (*types.ComparisonResponse, error) {
	var out types.ComparisonResponse
	path := yearPath(year, fmt.Sprintf("/compare/%d", dayIndex))
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSettings returns the stored preferences.
func (c *Client) GetSettings(ctx context.Context) (*types.Settings, error) {
	var out types.Settings
	if err := c.do(ctx, http.MethodGet, "/api/v1/settings", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSettings replaces the stored preferences.
func (c *Client) UpdateSettings(ctx context.Context, s types.Settings) (*types.Settings, error) {
	var out types.Settings
	if err := c.do(ctx, http.MethodPut, "/api/v1/settings", s, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func yearPath(year int, suffix string) string {
	return fmt.Sprintf("/api/v1/years/%d%s", year, suffix)
}

func periodPath(year, number int, suffix string) string {
	return fmt.Sprintf("/api/v1/years/%d/periods/%d%s", year, number, suffix)
}

// do sends an authenticated request and decodes a successful response into
// out. Any other status is returned as an *Error.
func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reqBody io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if c.today != "" {
		u += "?today=" + c.today
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
