package cmd

import (
	"context"
	"testing"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/config"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// setupBoard creates a board with one unsorted task and points --dir at it.
func setupBoard(t *testing.T) *store.Files {
	t.Helper()
	cfg, err := config.Init(t.TempDir(), "test")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Timeline.WindowStart = "2025-07-01"
	cfg.Timeline.WindowEnd = "2025-09-30"
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	files := store.NewFiles(cfg.TasksPath())
	if _, err := files.Create(context.Background(), task.Task{Title: "Fix login"}); err != nil {
		t.Fatal(err)
	}

	old := flagDir
	flagDir = cfg.Dir()
	t.Cleanup(func() { flagDir = old })
	return files
}

func TestPlaceResizeUnsort(t *testing.T) {
	files := setupBoard(t)
	ctx := context.Background()

	if err := runPlace(nil, []string{"1", "high-low", "2025-07-10"}); err != nil {
		t.Fatalf("place: %v", err)
	}
	got, err := files.Get(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Importance != task.High || got.Complexity != task.Low ||
		got.StartDate.String() != "2025-07-10" || got.EndDate.String() != "2025-07-12" {
		t.Fatalf("after place = %+v", got)
	}

	resizeCmd.Flags().Set("days", "2")     //nolint:errcheck // known flag
	resizeCmd.Flags().Set("edge", "right") //nolint:errcheck // known flag
	if err := runResize(resizeCmd, []string{"1"}); err != nil {
		t.Fatalf("resize: %v", err)
	}
	got, _ = files.Get(ctx, 1)
	if got.EndDate.String() != "2025-07-14" || got.StartDate.String() != "2025-07-10" {
		t.Fatalf("after resize = %+v", got)
	}

	resizeCmd.Flags().Set("days", "-1")   //nolint:errcheck // known flag
	resizeCmd.Flags().Set("edge", "left") //nolint:errcheck // known flag
	if err := runResize(resizeCmd, []string{"1"}); err != nil {
		t.Fatalf("resize left: %v", err)
	}
	got, _ = files.Get(ctx, 1)
	if got.StartDate.String() != "2025-07-09" || got.EndDate.String() != "2025-07-14" {
		t.Fatalf("after left resize = %+v", got)
	}

	if err := runUnsort(nil, []string{"1"}); err != nil {
		t.Fatalf("unsort: %v", err)
	}
	got, _ = files.Get(ctx, 1)
	if got.Classified() || got.StartDate != nil || got.EndDate != nil {
		t.Fatalf("after unsort = %+v", got)
	}
	if err := runUnsort(nil, []string{"1"}); !clierr.HasCode(err, clierr.NoChanges) {
		t.Fatalf("second unsort err = %v", err)
	}

	entries, err := board.ReadLog(flagDir, 0)
	if err != nil {
		t.Fatal(err)
	}
	var actions []string
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	want := []string{board.ActionPlace, board.ActionResize, board.ActionResize, board.ActionUnsort}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v", actions)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("actions = %v, want %v", actions, want)
		}
	}
}

func TestPlaceRejectsBadInput(t *testing.T) {
	setupBoard(t)

	cases := []struct {
		args []string
		code string
	}{
		{[]string{"x", "high-low", "2025-07-10"}, clierr.InvalidTaskID},
		{[]string{"1", "high-huge", "2025-07-10"}, clierr.InvalidLane},
		{[]string{"1", "high-low", "July"}, clierr.InvalidDate},
		{[]string{"9", "high-low", "2025-07-10"}, clierr.TaskNotFound},
	}
	for _, tc := range cases {
		if err := runPlace(nil, tc.args); !clierr.HasCode(err, tc.code) {
			t.Errorf("place %v: err = %v, want %s", tc.args, err, tc.code)
		}
	}
}
