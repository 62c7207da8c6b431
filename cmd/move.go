package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/config"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/gesture"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/logging"
	"github.com/twiced-technology-gmbh/mioplan/internal/output"
	"github.com/twiced-technology-gmbh/mioplan/internal/placement"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

var placeCmd = &cobra.Command{
	Use:   "place ID LANE DATE",
	Short: "Place a task on a lane starting at a date",
	Long: `Drops a task onto LANE (e.g. high-low) starting at DATE (YYYY-MM-DD), exactly
as dragging it on the board would: a task with dates keeps its duration, one
without gets the default duration. Placing on "unsorted" unclassifies it.`,
	Args: cobra.ExactArgs(3), //nolint:mnd // id, lane, date
	RunE: runPlace,
}

var resizeCmd = &cobra.Command{
	Use:   "resize ID",
	Short: "Move one edge of a task",
	Long: `Drags the right edge (end date) or, with --edge left, the left edge (start
date) of a task by --days days. Negative values shrink from the right or grow
to the left. A task never gets shorter than one day.`,
	Args: cobra.ExactArgs(1),
	RunE: runResize,
}

var unsortCmd = &cobra.Command{
	Use:   "unsort ID",
	Short: "Move a task back to Unsorted",
	Long:  `Clears a task's importance, complexity and dates.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runUnsort,
}

func init() {
	resizeCmd.Flags().IntP("days", "n", 0, "days to move the edge by")
	resizeCmd.Flags().String("edge", gesture.RightEdge.String(), "edge to drag (left, right)")
	rootCmd.AddCommand(placeCmd, resizeCmd, unsortCmd)
}

// gestureRun drives one gesture against the board outside the terminal UI.
type gestureRun struct {
	cfg      *config.Config
	ctx      timeline.Context
	session  *board.Session
	gestures *gesture.Controller
	logger   *logging.Logger
	closeFn  func() error
}

func newGestureRun(cfg *config.Config) (*gestureRun, error) {
	st, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	tasks, err := st.List(context.Background())
	if err != nil {
		closeQuietly(closeStore)
		return nil, err
	}
	printWarnings(st)

	logger := openLogger(cfg)
	session := board.NewSession(board.NewView(tasks), st, cfg.Dir(), logger)
	return &gestureRun{
		cfg:     cfg,
		ctx:     cfg.Context(date.Today()),
		session: session,
		gestures: gesture.New(session, gesture.Options{
			DefaultDuration: cfg.Timeline.DefaultDuration,
			Logger:          logger,
		}),
		logger:  logger,
		closeFn: closeStore,
	}, nil
}

func (r *gestureRun) task(id int) (task.Task, error) {
	t, ok := r.session.View().Get(id)
	if !ok {
		return task.Task{}, task.NotFound(id)
	}
	return t, nil
}

// finish waits for the write and releases the store.
func (r *gestureRun) finish() error {
	err := r.session.Flush()
	closeQuietly(r.closeFn)
	_ = r.logger.Close()
	return err
}

// withinWindow widens the layout window so that d can be resolved.
func (r *gestureRun) withinWindow(d date.Date) {
	w := r.ctx.Window
	if d.Before(w.Start) {
		w.Start = d
	}
	if d.After(w.End) {
		w.End = d
	}
	r.ctx.Window = w
}

func (r *gestureRun) drop(t task.Task, laneID lane.ID, x float64) (task.Task, error) {
	payload, err := r.gestures.StartDrag(t)
	if err != nil {
		return task.Task{}, err
	}
	return r.gestures.Drop(r.ctx, payload, x, laneID)
}

func runPlace(_ *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	laneID, _, _, err := lane.Parse(args[1])
	if err != nil {
		return err
	}
	start, err := date.Parse(args[2])
	if err != nil {
		return task.ValidateDate("start", args[2], err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	run, err := newGestureRun(cfg)
	if err != nil {
		return err
	}

	t, err := run.task(id)
	if err != nil {
		_ = run.finish()
		return err
	}
	run.withinWindow(start)

	placed, err := run.drop(t, laneID, placement.XForDate(run.ctx, start))
	if flushErr := run.finish(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}
	return outputPlacement(placed)
}

func runUnsort(_ *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	run, err := newGestureRun(cfg)
	if err != nil {
		return err
	}

	t, err := run.task(id)
	if err == nil && !t.Classified() && t.StartDate == nil && t.EndDate == nil {
		err = clierr.Newf(clierr.NoChanges, "task #%d is already unsorted", id)
	}
	var result task.Task
	if err == nil {
		result, err = run.drop(t, lane.Unsorted, 0)
	}
	if flushErr := run.finish(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}
	return outputPlacement(result)
}

func runResize(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	days, _ := cmd.Flags().GetInt("days")
	edgeName, _ := cmd.Flags().GetString("edge")
	edge, err := gesture.ParseEdge(edgeName)
	if err != nil {
		return err
	}
	if days == 0 {
		return clierr.New(clierr.NoChanges, "no resize specified; use --days N")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	run, err := newGestureRun(cfg)
	if err != nil {
		return err
	}

	result, err := run.resize(id, edge, days)
	if flushErr := run.finish(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}
	return outputPlacement(result)
}

// resize grabs edge at the pointer position of its day and releases it
// days columns away.
func (r *gestureRun) resize(id int, edge gesture.Edge, days int) (task.Task, error) {
	t, err := r.task(id)
	if err != nil {
		return task.Task{}, err
	}
	if !t.HasDates() {
		return task.Task{}, clierr.Newf(clierr.InvalidDuration, "task #%d has no dates to resize", t.ID).
			WithDetails(map[string]any{"id": t.ID})
	}

	grab := *t.EndDate
	if edge == gesture.LeftEdge {
		grab = *t.StartDate
	}
	origin := placement.XForDate(r.ctx, grab)
	if err := r.gestures.BeginResize(t, edge, origin); err != nil {
		return task.Task{}, err
	}
	r.gestures.ResizeMove(r.ctx, origin+float64(days)*r.ctx.PixelsPerDay())

	result, committed := r.gestures.EndResize()
	if !committed {
		return task.Task{}, clierr.Newf(clierr.NoChanges, "task #%d already spans %s..%s",
			t.ID, t.StartDate, t.EndDate)
	}
	return result, nil
}

func outputPlacement(t task.Task) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	if !t.HasDates() {
		output.Messagef(os.Stdout, "Moved task #%d to unsorted: %s", t.ID, t.Title)
		return nil
	}
	output.Messagef(os.Stdout, "Placed task #%d in %s from %s to %s (%d days): %s",
		t.ID, lane.Of(t), t.StartDate, t.EndDate, t.Duration(), t.Title)
	return nil
}

