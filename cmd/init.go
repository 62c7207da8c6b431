package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/config"
	"github.com/twiced-technology-gmbh/mioplan/internal/output"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new board",
	Long:  `Creates a board directory with config.yml and a tasks/ subdirectory.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("name", "", "board name (defaults to current directory name)")
	initCmd.Flags().String("backend", store.BackendFiles, "task store ("+strings.Join(config.Backends, ", ")+")")
	initCmd.Flags().String("url", "", "server URL for the http backend")
	initCmd.Flags().String("scale", config.DefaultScale, "initial time scale (day, week, month)")
	initCmd.Flags().String("kaiten-board", "", "Kaiten board id to sync cards from")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.BoardAlreadyExists, "board already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg := config.NewDefault(name)
	cfg.SetDir(absDir)

	backend, _ := cmd.Flags().GetString("backend")
	if !slices.Contains(config.Backends, backend) {
		return clierr.Newf(clierr.InvalidInput, "invalid --backend %q; valid: %s",
			backend, strings.Join(config.Backends, ", "))
	}
	cfg.Store.Backend = backend
	cfg.Store.URL, _ = cmd.Flags().GetString("url")
	cfg.Timeline.Scale, _ = cmd.Flags().GetString("scale")
	cfg.Kaiten.BoardID, _ = cmd.Flags().GetString("kaiten-board")

	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}

	const dirMode = 0o750
	if err := os.MkdirAll(cfg.TasksPath(), dirMode); err != nil {
		return fmt.Errorf("creating tasks directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"dir":     absDir,
			"name":    name,
			"config":  cfg.ConfigPath(),
			"tasks":   cfg.TasksPath(),
			"backend": backend,
		})
	}

	output.Messagef(os.Stdout, "Initialized board %q in %s", name, absDir)
	output.Messagef(os.Stdout, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Tasks:   %s", cfg.TasksPath())
	output.Messagef(os.Stdout, "  Backend: %s", backend)
	if cfg.Kaiten.BoardID != "" {
		output.Messagef(os.Stdout, "  Hint:    Put %s in %s, then run: mioplan sync",
			config.EnvKaitenToken, filepath.Join(absDir, config.EnvFileName))
	}
	return nil
}
