package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": s.opts.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := s.taskID(c)
	if !ok {
		return
	}
	t, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	var update store.PlacementUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		s.fail(c, clierr.Newf(clierr.InvalidInput, "invalid request body: %v", err))
		return
	}

	ctx := c.Request.Context()
	old, err := s.store.Get(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	updated := update.Apply(old)
	if err := task.Validate(updated); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.store.Put(ctx, updated); err != nil {
		s.fail(c, err)
		return
	}

	if s.opts.BoardDir != "" && !task.SamePlacement(old, updated) {
		board.LogMutation(s.opts.BoardDir, board.CommitAction(old, updated), id, string(lane.Of(updated)), "via api")
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleLayout(c *gin.Context) {
	if s.opts.Context == nil {
		s.fail(c, clierr.New(clierr.InternalError, "layout not configured"))
		return
	}
	ctx := s.opts.Context()
	if raw := c.Query("scale"); raw != "" {
		scale, err := timeline.ParseScale(raw)
		if err != nil {
			s.fail(c, err)
			return
		}
		ctx = ctx.WithScale(scale)
	}

	tasks, err := s.store.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, board.Layout(ctx, tasks, s.opts.Metrics))
}

func (s *Server) handleOverview(c *gin.Context) {
	tasks, err := s.store.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, board.Summary(s.opts.BoardName, tasks))
}

func (s *Server) taskID(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		s.fail(c, task.ValidateTaskID(raw))
		return 0, false
	}
	return id, true
}

// fail writes err as {error, code} with a status derived from its code.
func (s *Server) fail(c *gin.Context, err error) {
	var ce *clierr.Error
	if !errors.As(err, &ce) {
		s.opts.Logger.Printf("http: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": clierr.InternalError})
		return
	}
	status := statusFor(ce.Code)
	if status >= http.StatusInternalServerError {
		s.opts.Logger.Printf("http: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": ce.Message, "code": ce.Code})
}

func statusFor(code string) int {
	switch code {
	case clierr.TaskNotFound:
		return http.StatusNotFound
	case clierr.InvalidInput, clierr.InvalidTaskID, clierr.InvalidLevel, clierr.InvalidDate,
		clierr.InvalidScale, clierr.InvalidLane, clierr.InvalidDuration:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
