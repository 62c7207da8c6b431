package task

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
)

func TestPlaceKeepsDurationAndClones(t *testing.T) {
	start := date.New(2025, time.June, 1)
	end := date.New(2025, time.June, 5)
	orig := Task{ID: 7, Title: "Ship", StartDate: &start, EndDate: &end, Tags: []string{"a"}}

	placed := orig.Place(High, Low, date.New(2025, time.July, 10), orig.Duration())
	if placed.Duration() != 5 {
		t.Fatalf("duration = %d, want 5", placed.Duration())
	}
	if placed.EndDate.String() != "2025-07-14" {
		t.Fatalf("end = %s", placed.EndDate)
	}
	if !orig.StartDate.Equal(start) {
		t.Fatalf("original start mutated: %s", orig.StartDate)
	}

	placed.Tags[0] = "b"
	if orig.Tags[0] != "a" {
		t.Fatal("tags share backing array with original")
	}
	if !placed.Classified() {
		t.Fatal("placed task should be classified")
	}
}

func TestPlaceClampsDuration(t *testing.T) {
	placed := Task{ID: 1}.Place(Medium, Medium, date.New(2025, time.May, 3), 0)
	if !placed.StartDate.Equal(*placed.EndDate) {
		t.Fatalf("zero duration should give a one-day span, got %s..%s", placed.StartDate, placed.EndDate)
	}
}

func TestUnclassify(t *testing.T) {
	placed := Task{ID: 1}.Place(High, High, date.New(2025, time.May, 3), 3)
	cleared := placed.Unclassify()
	if cleared.Classified() || cleared.HasDates() || cleared.Importance.IsSet() {
		t.Fatalf("unclassify left placement: %+v", cleared)
	}
	if !placed.Classified() {
		t.Fatal("unclassify mutated the receiver")
	}
	if SamePlacement(placed, cleared) {
		t.Fatal("SamePlacement should differ")
	}
	if !SamePlacement(placed, placed.Clone()) {
		t.Fatal("clone should keep placement")
	}
}

func TestParseLevel(t *testing.T) {
	for _, in := range []string{"", "null", "None", "undefined"} {
		if l, err := ParseLevel(in); err != nil || l != Unset {
			t.Errorf("ParseLevel(%q) = %q, %v", in, l, err)
		}
	}
	if l, err := ParseLevel(" HIGH "); err != nil || l != High {
		t.Fatalf("ParseLevel(HIGH) = %q, %v", l, err)
	}
	_, err := ParseLevel("urgent")
	if !clierr.HasCode(err, clierr.InvalidLevel) {
		t.Fatalf("expected INVALID_LEVEL, got %v", err)
	}
}

func TestValidateRejectsReversedDates(t *testing.T) {
	start := date.New(2025, time.June, 5)
	end := date.New(2025, time.June, 1)
	err := Validate(Task{ID: 3, StartDate: &start, EndDate: &end})
	if !clierr.HasCode(err, clierr.InvalidDate) {
		t.Fatalf("expected INVALID_DATE, got %v", err)
	}
}

func TestWriteReadRoundTripsDescription(t *testing.T) {
	dir := t.TempDir()
	placed := Task{ID: 12, Title: "Fix login", Description: "Steps:\n\n1. open", Tags: []string{"auth"}}.
		Place(Low, High, date.New(2025, time.March, 2), 2)

	path := filepath.Join(dir, Filename(placed))
	if filepath.Base(path) != "012-fix-login.md" {
		t.Fatalf("filename = %s", filepath.Base(path))
	}
	if err := Write(path, &placed); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Description != placed.Description {
		t.Fatalf("description = %q", got.Description)
	}
	if !SamePlacement(*got, placed) {
		t.Fatalf("placement lost: %+v", got)
	}
	if got.File != path {
		t.Fatalf("file = %q", got.File)
	}
}

func TestReadAllLenientSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	ok := Task{ID: 1, Title: "ok"}
	if err := Write(filepath.Join(dir, Filename(ok)), &ok); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "002-broken.md"), []byte("no frontmatter"), 0o600); err != nil {
		t.Fatal(err)
	}

	tasks, warnings, err := ReadAllLenient(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || len(warnings) != 1 || warnings[0].File != "002-broken.md" {
		t.Fatalf("tasks=%d warnings=%v", len(tasks), warnings)
	}

	if id, err := MaxID(dir); err != nil || id != 2 {
		t.Fatalf("MaxID = %d, %v", id, err)
	}
	if _, err := FindByID(dir, 42); !clierr.HasCode(err, clierr.TaskNotFound) {
		t.Fatalf("expected TASK_NOT_FOUND, got %v", err)
	}
	if p, err := FindByID(dir, 1); err != nil || filepath.Base(p) != "001-ok.md" {
		t.Fatalf("FindByID(1) = %q, %v", p, err)
	}
}

func TestSlugTruncatesAtWordBoundary(t *testing.T) {
	got := Slug("An extremely long title that keeps going well past the fifty character limit")
	if len(got) > maxSlugLength || got[len(got)-1] == '-' {
		t.Fatalf("slug = %q", got)
	}
	if Slug("  !!  ") != "" {
		t.Fatal("punctuation-only title should slug to empty")
	}
}
