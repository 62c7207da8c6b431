package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

func placed(t task.Task, start string, days int) task.Task {
	d, err := date.Parse(start)
	if err != nil {
		panic(err)
	}
	return t.Place(task.High, task.Low, d, days)
}

// exercise runs the behavior every writable backend shares.
func exercise(t *testing.T, s interface {
	Store
	Creator
	Deleter
}) {
	t.Helper()
	ctx := context.Background()

	a, err := s.Create(ctx, task.Task{Title: "First task", Description: "body", Tags: []string{"x"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := s.Create(ctx, task.Task{Title: "Second"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("ids = %d, %d", a.ID, b.ID)
	}

	moved := placed(a, "2025-07-10", 3)
	if err := s.Put(ctx, moved); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !task.SamePlacement(got, moved) || got.Description != "body" || len(got.Tags) != 1 {
		t.Fatalf("got %+v", got)
	}

	if err := s.Put(ctx, got.Unclassify()); err != nil {
		t.Fatalf("unclassify: %v", err)
	}
	got, _ = s.Get(ctx, a.ID)
	if got.Classified() || got.StartDate != nil {
		t.Fatalf("placement survived: %+v", got)
	}

	list, err := s.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("list = %d, %v", len(list), err)
	}

	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, b.ID); !clierr.HasCode(err, clierr.TaskNotFound) {
		t.Fatalf("get deleted: %v", err)
	}
	if err := s.Delete(ctx, 99); !clierr.HasCode(err, clierr.TaskNotFound) {
		t.Fatalf("delete unknown: %v", err)
	}
}

func TestFilesStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tasks")
	exercise(t, NewFiles(dir))
}

func TestFilesRenamesOnTitleChange(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFiles(dir)
	created, err := s.Create(ctx, task.Task{Title: "Old name"})
	if err != nil {
		t.Fatal(err)
	}
	created.Title = "New name"
	if err := s.Put(ctx, created); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "001-old-name.md")); !os.IsNotExist(err) {
		t.Fatalf("old file still there: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "001-new-name.md")); err != nil {
		t.Fatalf("new file missing: %v", err)
	}
}

func TestFilesWarnsOnBrokenFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "003-bad.md"), []byte("---\nid: [\n---\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := NewFiles(dir)
	tasks, err := s.List(context.Background())
	if err != nil || len(tasks) != 0 {
		t.Fatalf("list = %v, %v", tasks, err)
	}
	if len(s.Warnings()) != 1 {
		t.Fatalf("warnings = %v", s.Warnings())
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "overlay.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestSQLiteReopenKeepsPlacement(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "overlay.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	want := placed(task.Task{ID: 40, Title: "remote card"}, "2025-06-01", 5)
	if err := s.Put(ctx, want); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Get(ctx, 40)
	if err != nil {
		t.Fatal(err)
	}
	if !task.SamePlacement(got, want) || got.Duration() != 5 {
		t.Fatalf("got %+v", got)
	}
}

func TestMerge(t *testing.T) {
	start := date.New(2025, time.June, 1)
	remoteEnd := date.New(2025, time.June, 9)
	remote := []task.Task{
		{ID: 1, Title: "remote title", Description: "remote body", Tags: []string{"r"}},
		{ID: 2, Title: "untouched", EndDate: &remoteEnd},
	}
	overlay := []task.Task{
		{ID: 2, Title: "stale", Importance: task.Low, Complexity: task.Medium, StartDate: &start},
		placed(task.Task{ID: 1, Title: "stale"}, "2025-07-01", 2),
		{ID: 77, Title: "gone remotely"},
	}

	merged := Merge(remote, overlay)
	if len(merged) != 2 {
		t.Fatalf("merged = %d tasks", len(merged))
	}
	if merged[0].Title != "remote title" || merged[0].Importance != task.High || merged[0].Duration() != 2 {
		t.Fatalf("first = %+v", merged[0])
	}
	second := merged[1]
	if second.Title != "untouched" || !second.StartDate.Equal(start) || !second.EndDate.Equal(remoteEnd) {
		t.Fatalf("second = %+v", second)
	}
}

func TestHTTPStore(t *testing.T) {
	var saved PlacementUpdate
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/tasks":
			_ = json.NewEncoder(w).Encode([]task.Task{{ID: 5, Title: "remote"}})
		case r.Method == http.MethodPut && r.URL.Path == "/api/tasks/5":
			if err := json.NewDecoder(r.Body).Decode(&saved); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"success":true}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Failed to update task"}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	s := NewHTTP(srv.URL+"/", nil)
	got, err := s.Get(ctx, 5)
	if err != nil || got.Title != "remote" {
		t.Fatalf("get = %+v, %v", got, err)
	}
	if _, err := s.Get(ctx, 6); !clierr.HasCode(err, clierr.TaskNotFound) {
		t.Fatalf("get unknown: %v", err)
	}

	if err := s.Put(ctx, placed(got, "2025-07-10", 3)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if saved.Importance != task.High || saved.EndDate.String() != "2025-07-12" {
		t.Fatalf("server saw %+v", saved)
	}

	err = s.Put(ctx, task.Task{ID: 9})
	if !clierr.HasCode(err, clierr.SourceUnavailable) {
		t.Fatalf("put failure: %v", err)
	}
}

type staticSource []task.Task

func (s staticSource) List(context.Context) ([]task.Task, error) { return s, nil }

func TestSyncAddsAndRefreshes(t *testing.T) {
	ctx := context.Background()
	local := NewFiles(t.TempDir())
	first, err := local.Create(ctx, task.Task{Title: "Old title", Tags: []string{"old"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := local.Put(ctx, placed(first, "2025-07-10", 3)); err != nil {
		t.Fatal(err)
	}

	remote := staticSource{
		{ID: 1, Title: "New title", Description: "from kaiten", Tags: []string{"api"}},
		{ID: 5, Title: "Fresh card", Description: "No description"},
	}
	res, err := Sync(ctx, remote, local)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Added) != 1 || len(res.Refreshed) != 1 || res.Unchanged != 0 {
		t.Fatalf("result = %+v", res)
	}

	got, err := local.Get(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "New title" || got.Description != "from kaiten" || got.Tags[0] != "api" {
		t.Fatalf("refreshed = %+v", got)
	}
	if got.Importance != task.High || got.StartDate.String() != "2025-07-10" || got.Duration() != 3 {
		t.Fatalf("placement lost: %+v", got)
	}

	fresh, err := local.Get(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Classified() || fresh.StartDate != nil {
		t.Fatalf("added task should be unclassified: %+v", fresh)
	}

	again, err := Sync(ctx, remote, local)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Added) != 0 || len(again.Refreshed) != 0 || again.Unchanged != 2 {
		t.Fatalf("second sync = %+v", again)
	}
}
