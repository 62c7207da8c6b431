package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

func newTestServer(t *testing.T) (*Server, *store.Files, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	boardDir := t.TempDir()
	files := store.NewFiles(t.TempDir())
	ctx := t.Context()
	for _, title := range []string{"Fix login", "Write docs"} {
		if _, err := files.Create(ctx, task.Task{Title: title}); err != nil {
			t.Fatal(err)
		}
	}

	s := New(files, Options{
		BoardName: "demo",
		BoardDir:  boardDir,
		Context: func() timeline.Context {
			return timeline.Context{
				Scale:  timeline.Week,
				Window: date.Range{Start: date.New(2025, time.July, 1), End: date.New(2025, time.July, 31)},
				Units:  timeline.Units{Day: 4, Week: 14, Month: 31},
			}
		},
		Metrics:        lane.Metrics{SlotHeight: 1, BasePadding: 1, MinHeight: 2},
		AllowedOrigins: []string{"http://localhost:5173"},
		Now:            func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) },
	})
	return s, files, boardDir
}

func do(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := do(s, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "OK" || resp["timestamp"] != "2025-07-01T12:00:00.000Z" {
		t.Fatalf("health = %v", resp)
	}
}

func TestListTasks(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := do(s, http.MethodGet, "/api/tasks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var tasks []task.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 || tasks[0].Title != "Fix login" || tasks[0].Importance != task.Unset {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestUpdateTaskPlacement(t *testing.T) {
	s, files, boardDir := newTestServer(t)
	body := map[string]any{
		"importance": "high",
		"complexity": "low",
		"startDate":  "2025-07-10T00:00:00.000Z",
		"endDate":    "2025-07-12",
	}
	w := do(s, http.MethodPut, "/api/tasks/1", body)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"success":true`)) {
		t.Fatalf("status = %d body = %s", w.Code, w.Body)
	}

	got, err := files.Get(t.Context(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if lane.Of(got) != "high-low" || got.StartDate.String() != "2025-07-10" || got.Title != "Fix login" {
		t.Fatalf("stored = %+v", got)
	}

	entries, err := board.ReadLog(boardDir, 0)
	if err != nil || len(entries) != 1 || entries[0].Action != board.ActionPlace {
		t.Fatalf("activity = %+v, %v", entries, err)
	}
}

func TestUpdateTaskErrors(t *testing.T) {
	s, _, _ := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"bad id", "/api/tasks/abc", map[string]any{}, http.StatusBadRequest},
		{"unknown id", "/api/tasks/99", map[string]any{}, http.StatusNotFound},
		{"bad level", "/api/tasks/1", map[string]any{"importance": "urgent"}, http.StatusBadRequest},
		{"end before start", "/api/tasks/1", map[string]any{"startDate": "2025-07-12", "endDate": "2025-07-10"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, http.MethodPut, tt.path, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := do(s, http.MethodGet, "/api/layout?scale=day", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var surface struct {
		Context      timeline.Context `json:"context"`
		ContentWidth float64          `json:"contentWidth"`
		Lanes        []json.RawMessage
		Unsorted     []task.Task
	}
	if err := json.Unmarshal(w.Body.Bytes(), &surface); err != nil {
		t.Fatal(err)
	}
	if surface.Context.Scale != timeline.Day || surface.ContentWidth != 124 {
		t.Fatalf("context = %+v width = %v", surface.Context, surface.ContentWidth)
	}
	if len(surface.Lanes) != 9 || len(surface.Unsorted) != 2 {
		t.Fatalf("lanes = %d unsorted = %d", len(surface.Lanes), len(surface.Unsorted))
	}

	if w := do(s, http.MethodGet, "/api/layout?scale=year", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad scale status = %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/tasks/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("preflight = %d %v", w.Code, w.Header())
	}
}
