package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

const httpTimeout = 10 * time.Second

// HTTP talks to a remote mioplan server ("mioplan serve").
type HTTP struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTP returns a store for the server at baseURL.
func NewHTTP(baseURL string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: httpTimeout}
	}
	return &HTTP{baseURL: strings.TrimRight(baseURL, "/"), httpClient: client}
}

// PlacementUpdate is the body of PUT /api/tasks/:id.
type PlacementUpdate struct {
	Importance task.Level `json:"importance"`
	Complexity task.Level `json:"complexity"`
	StartDate  *date.Date `json:"startDate"`
	EndDate    *date.Date `json:"endDate"`
}

// UpdateOf extracts the placement fields of t.
func UpdateOf(t task.Task) PlacementUpdate {
	c := t.Clone()
	return PlacementUpdate{
		Importance: c.Importance,
		Complexity: c.Complexity,
		StartDate:  c.StartDate,
		EndDate:    c.EndDate,
	}
}

// Apply copies the update onto t.
func (u PlacementUpdate) Apply(t task.Task) task.Task {
	c := t.Clone()
	c.Importance = u.Importance
	c.Complexity = u.Complexity
	c.StartDate = u.StartDate
	c.EndDate = u.EndDate
	return c
}

// List fetches GET /api/tasks.
func (h *HTTP) List(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := h.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get fetches the task list and picks id.
func (h *HTTP) Get(ctx context.Context, id int) (task.Task, error) {
	tasks, err := h.List(ctx)
	if err != nil {
		return task.Task{}, err
	}
	return find(tasks, id)
}

// Put sends the placement of t to PUT /api/tasks/:id.
func (h *HTTP) Put(ctx context.Context, t task.Task) error {
	body, err := json.Marshal(UpdateOf(t))
	if err != nil {
		return fmt.Errorf("encoding update: %w", err)
	}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := h.do(ctx, http.MethodPut, "/api/tasks/"+strconv.Itoa(t.ID), body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return unavailable(h.baseURL, fmt.Errorf("server did not confirm update of #%d", t.ID))
	}
	return nil
}

func (h *HTTP) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return unavailable(h.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return unavailable(h.baseURL, fmt.Errorf("reading response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return statusError(h.baseURL, resp.StatusCode, apiErr.Error)
		}
		return statusError(h.baseURL, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return unavailable(h.baseURL, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func unavailable(url string, err error) *clierr.Error {
	return clierr.Newf(clierr.SourceUnavailable, "task server %s: %v", url, err).
		WithDetails(map[string]any{"url": url})
}

func statusError(url string, status int, msg string) *clierr.Error {
	code := clierr.SourceUnavailable
	if status == http.StatusNotFound {
		code = clierr.TaskNotFound
	}
	return clierr.Newf(code, "task server %s: %d %s", url, status, msg).
		WithDetails(map[string]any{"url": url, "status": status})
}
