package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS placements (
    id INTEGER PRIMARY KEY,
    importance TEXT,
    complexity TEXT,
    start_date TEXT,
    end_date TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (id) REFERENCES tasks(id)
);
`

// SQLite keeps tasks and their placements in a SQLite database. Used as an
// overlay, it stores placements for tasks whose content lives elsewhere.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection: SQLite has a single writer, and ":memory:" databases
	// are per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const selectTasks = `
SELECT t.id, t.title, t.description, t.tags,
       p.importance, p.complexity, p.start_date, p.end_date
FROM tasks t
LEFT JOIN placements p ON p.id = t.id`

// List returns every task with its placement, by id.
func (s *SQLite) List(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, selectTasks+" ORDER BY t.id")
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Get returns the task with id.
func (s *SQLite) Get(ctx context.Context, id int) (task.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, selectTasks+" WHERE t.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, task.NotFound(id)
	}
	return t, err
}

// Put upserts t and its placement in one transaction.
func (s *SQLite) Put(ctx context.Context, t task.Task) error {
	if err := task.Validate(t); err != nil {
		return err
	}
	tags, err := json.Marshal(nonNil(t.Tags))
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, tags) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title,
			description = excluded.description, tags = excluded.tags`,
		t.ID, t.Title, t.Description, string(tags))
	if err != nil {
		return fmt.Errorf("saving task #%d: %w", t.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO placements (id, importance, complexity, start_date, end_date, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET importance = excluded.importance,
			complexity = excluded.complexity, start_date = excluded.start_date,
			end_date = excluded.end_date, updated_at = excluded.updated_at`,
		t.ID, level(t.Importance), level(t.Complexity), dateValue(t.StartDate), dateValue(t.EndDate))
	if err != nil {
		return fmt.Errorf("saving placement of #%d: %w", t.ID, err)
	}
	return tx.Commit()
}

// Create assigns the next free id and stores t.
func (s *SQLite) Create(ctx context.Context, t task.Task) (task.Task, error) {
	var highest sql.NullInt64
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(id) FROM tasks").Scan(&highest); err != nil {
		return task.Task{}, fmt.Errorf("allocating id: %w", err)
	}
	t.ID = int(highest.Int64) + 1
	if err := s.Put(ctx, t); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// Delete removes the task and its placement.
func (s *SQLite) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task #%d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return task.NotFound(id)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM placements WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting placement of #%d: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var (
		t                      task.Task
		tags                   string
		importance, complexity sql.NullString
		start, end             sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &tags, &importance, &complexity, &start, &end); err != nil {
		return task.Task{}, err
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return task.Task{}, fmt.Errorf("task #%d: decoding tags: %w", t.ID, err)
	}
	var err error
	if t.Importance, err = task.ParseLevel(importance.String); err != nil {
		return task.Task{}, err
	}
	if t.Complexity, err = task.ParseLevel(complexity.String); err != nil {
		return task.Task{}, err
	}
	if t.StartDate, err = parseNullDate(start); err != nil {
		return task.Task{}, fmt.Errorf("task #%d: %w", t.ID, err)
	}
	if t.EndDate, err = parseNullDate(end); err != nil {
		return task.Task{}, fmt.Errorf("task #%d: %w", t.ID, err)
	}
	if len(t.Tags) == 0 {
		t.Tags = nil
	}
	return t, nil
}

func parseNullDate(s sql.NullString) (*date.Date, error) {
	if !s.Valid || s.String == "" {
		return nil, nil //nolint:nilnil // absent date
	}
	d, err := date.ParseISO(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func level(l task.Level) any {
	if !l.IsSet() {
		return nil
	}
	return string(l)
}

func dateValue(d *date.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
