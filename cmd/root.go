// Package cmd implements the mioplan CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/config"
	"github.com/twiced-technology-gmbh/mioplan/internal/kaiten"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/logging"
	"github.com/twiced-technology-gmbh/mioplan/internal/output"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "mioplan",
	Short: "Plan tasks on an importance x complexity timeline",
	Long: `mioplan lays tasks out on a timeline with nine lanes, one per
importance and complexity pair. Just run mioplan to open the board, then drag
tasks out of Unsorted onto a lane and day, or grab a card's edge to resize it.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || output.ColorDisabled() {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to board directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// defaultHomeDir returns the path to ~/.config/mioplan.
func defaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mioplan"), nil
}

// resolveDir returns the board directory: --dir, then the nearest board up
// the directory tree, then ~/.config/mioplan.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	if dir, err := config.FindDir(cwd); err == nil {
		return dir, nil
	}
	return defaultHomeDir()
}

// loadConfig finds and loads the board config. The home board is created
// on first use.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}

	if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}
	homeDir, homeErr := defaultHomeDir()
	if homeErr != nil || dir != homeDir {
		return nil, clierr.New(clierr.BoardNotFound, err.Error()).
			WithDetails(map[string]any{"dir": dir})
	}
	return config.Init(homeDir, "mioplan")
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// openStore opens the configured backend. With a Kaiten board configured
// and a token in the environment, Kaiten cards are the task source and the
// backend keeps placements only. The returned func releases the store.
func openStore(cfg *config.Config) (store.Store, func() error, error) {
	st, closeFn, err := openBackend(cfg)
	if err != nil {
		return nil, nil, err
	}
	if src := kaitenSource(cfg); src != nil && cfg.Store.Backend != store.BackendHTTP {
		return &store.Merged{Remote: src, Overlay: st}, closeFn, nil
	}
	return st, closeFn, nil
}

// openBackend opens the configured backend alone.
func openBackend(cfg *config.Config) (store.Store, func() error, error) {
	switch cfg.Store.Backend {
	case store.BackendSQLite:
		db, err := store.OpenSQLite(cfg.StorePath())
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case store.BackendHTTP:
		return store.NewHTTP(cfg.Store.URL, nil), noClose, nil
	default:
		return store.NewFiles(cfg.TasksPath()), noClose, nil
	}
}

func noClose() error { return nil }

// kaitenSource returns a Kaiten client when a board id and token are set.
func kaitenSource(cfg *config.Config) *kaiten.Client {
	token := config.KaitenToken()
	if cfg.Kaiten.BoardID == "" || token == "" {
		return nil
	}
	return kaiten.NewClient(cfg.Kaiten.BaseURL, token, cfg.Kaiten.BoardID,
		kaiten.WithLimit(cfg.KaitenLimit()))
}

// openLogger opens the board's diagnostic log. A log that cannot be opened
// is reported once and replaced by a no-op logger.
func openLogger(cfg *config.Config) *logging.Logger {
	l, err := logging.New(cfg.Dir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return nil
	}
	return l
}

// printWarnings writes the records a store skipped to stderr.
func printWarnings(st store.Store) {
	w, ok := st.(store.Warner)
	if !ok {
		return
	}
	for _, msg := range w.Warnings() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}

// logActivity appends an entry to the activity log. Errors are silently
// discarded because logging should never fail a command.
func logActivity(cfg *config.Config, action string, t task.Task, detail string) {
	laneID := ""
	if id := lane.Of(t); id != lane.Unsorted {
		laneID = string(id)
	}
	board.LogMutation(cfg.Dir(), action, t.ID, laneID, detail)
}

// parseTaskID parses a positive task id argument.
func parseTaskID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, task.ValidateTaskID(arg)
	}
	return id, nil
}

// closeQuietly runs fn and reports a failure to stderr.
func closeQuietly(fn func() error) {
	if err := fn(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// writeResult prints data as JSON, or msg otherwise.
func writeResult(w io.Writer, data any, format string, args ...any) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, data)
	}
	output.Messagef(w, format, args...)
	return nil
}
