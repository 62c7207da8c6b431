package task

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

const (
	fileMode      = 0o600
	maxSlugLength = 50
	idPadWidth    = 3
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Read parses a task file and returns the Task with its description populated.
func Read(path string) (*Task, error) {
	data, err := os.ReadFile(path) //nolint:gosec // task path from trusted source
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}

	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var t Task
	if err := yaml.Unmarshal(fm, &t); err != nil {
		return nil, fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}
	if err := Validate(t); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	t.Description = strings.TrimRight(body, "\n")
	t.File = path

	return &t, nil
}

// Write serializes a task to a markdown file with YAML frontmatter.
// The description becomes the markdown body.
func Write(path string, t *Task) error {
	fm, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	if t.Description != "" {
		buf.WriteString("\n")
		buf.WriteString(t.Description)
		if !strings.HasSuffix(t.Description, "\n") {
			buf.WriteString("\n")
		}
	}

	return os.WriteFile(path, buf.Bytes(), fileMode)
}

// Filename creates the task filename from its ID and title, e.g. "007-fix-login.md".
func Filename(t Task) string {
	slug := Slug(t.Title)
	if slug == "" {
		slug = "task"
	}
	return fmt.Sprintf("%0*d-%s.md", max(idPadWidth, len(strconv.Itoa(t.ID))), t.ID, slug)
}

// Slug converts a title to a filename-friendly slug, cut at a word boundary.
func Slug(title string) string {
	slug := strings.Trim(nonAlphanumeric.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(slug) <= maxSlugLength {
		return slug
	}
	truncated := slug[:maxSlugLength]
	if slug[maxSlugLength] != '-' {
		if idx := strings.LastIndex(truncated, "-"); idx > 0 {
			truncated = truncated[:idx]
		}
	}
	return strings.TrimRight(truncated, "-")
}

// splitFrontmatter splits a markdown file into YAML frontmatter and body.
// The file must start with "---\n".
func splitFrontmatter(data []byte) ([]byte, string, error) {
	content := string(data)

	if !strings.HasPrefix(content, "---\n") {
		return nil, "", errors.New("file does not start with YAML frontmatter (---)")
	}

	rest := content[4:]
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		if !strings.HasSuffix(rest, "\n---") {
			return nil, "", errors.New("unclosed frontmatter (missing closing ---)")
		}
		idx = len(rest) - len("---")
	}

	body := ""
	if closingEnd := idx + len("\n---\n"); closingEnd < len(rest) {
		body = strings.TrimLeft(rest[closingEnd:], "\n")
	}

	return []byte(rest[:idx]), body, nil
}
