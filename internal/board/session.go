package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/logging"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// Session applies gesture results to a View and hands committed tasks to
// a Sink without waiting for it. Writes reach the sink in commit order from
// a single writer goroutine. A failed Put is logged and the view keeps the
// mutation.
type Session struct {
	view     *View
	sink     store.Sink
	boardDir string // activity log location; empty disables it
	logger   *logging.Logger

	wg      sync.WaitGroup
	mu      sync.Mutex
	queue   []pendingPut
	writing bool
	errs    []error

	// OnCommit, when set, runs after each commit has been applied to the view.
	OnCommit func(old, updated task.Task)
}

// NewSession returns a session over view writing to sink.
func NewSession(view *View, sink store.Sink, boardDir string, logger *logging.Logger) *Session {
	return &Session{view: view, sink: sink, boardDir: boardDir, logger: logger}
}

// View returns the session's working view.
func (s *Session) View() *View { return s.view }

// Preview applies an uncommitted resize step to the view.
func (s *Session) Preview(t task.Task) {
	s.view.Apply(t)
}

// Commit applies t to the view, records it in the activity log, and
// persists it in the background.
func (s *Session) Commit(t task.Task) {
	old, _ := s.view.Get(t.ID)
	s.view.Apply(t)

	action := CommitAction(old, t)
	if s.boardDir != "" {
		LogMutation(s.boardDir, action, t.ID, string(lane.Of(t)), describe(t))
	}
	if s.OnCommit != nil {
		s.OnCommit(old, t)
	}

	if s.sink == nil {
		return
	}
	s.wg.Add(1)
	s.mu.Lock()
	s.queue = append(s.queue, pendingPut{task: t.Clone(), action: action})
	start := !s.writing
	s.writing = true
	s.mu.Unlock()
	if start {
		go s.drain()
	}
}

type pendingPut struct {
	task   task.Task
	action string
}

// drain writes queued tasks in FIFO order until the queue is empty.
func (s *Session) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.writing = false
			s.mu.Unlock()
			return
		}
		p := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		if err := s.sink.Put(context.Background(), p.task); err != nil {
			s.logger.Printf("sink: %s task #%d: %v", p.action, p.task.ID, err)
			s.mu.Lock()
			s.errs = append(s.errs, fmt.Errorf("saving task #%d: %w", p.task.ID, err))
			s.mu.Unlock()
		}
		s.wg.Done()
	}
}

// Flush waits for pending writes and returns their failures joined.
func (s *Session) Flush() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	err := errors.Join(s.errs...)
	s.errs = nil
	return err
}

// CommitAction names the mutation from old to updated: unsort when the task
// lost its lane, resize when only its dates moved within the same lane, and
// place otherwise.
func CommitAction(old, updated task.Task) string {
	switch {
	case lane.Of(updated) == lane.Unsorted:
		return ActionUnsort
	case lane.Of(old) == lane.Of(updated) && old.StartDate != nil && updated.StartDate != nil &&
		(old.StartDate.Equal(*updated.StartDate) || old.EndDate != nil && updated.EndDate != nil && old.EndDate.Equal(*updated.EndDate)):
		return ActionResize
	default:
		return ActionPlace
	}
}

func describe(t task.Task) string {
	if !t.HasDates() {
		return t.Title
	}
	return fmt.Sprintf("%s (%s..%s)", t.Title, t.StartDate, t.EndDate)
}
