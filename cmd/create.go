package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/output"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "add [TITLE]",
	Aliases: []string{"create"},
	Short:   "Add a task to Unsorted",
	Long: `Creates a new unclassified task. It shows up in the Unsorted panel until it
is dragged onto a lane or placed with "mioplan place".

Title can be provided as a positional argument or via --title flag.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("title", "", "task title (alternative to positional argument)")
	createCmd.Flags().StringSlice("tags", nil, "comma-separated tags")
	createCmd.Flags().String("description", "", "task description (markdown)")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "tag":
			name = "tags"
		case "body":
			name = "description"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(closeStore)

	creator, ok := st.(store.Creator)
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "the %s backend cannot add tasks", cfg.Store.Backend).
			WithDetails(map[string]any{"backend": cfg.Store.Backend})
	}

	t := task.Task{Title: title}
	t.Tags, _ = cmd.Flags().GetStringSlice("tags")
	t.Description, _ = cmd.Flags().GetString("description")

	created, err := creator.Create(context.Background(), t)
	if err != nil {
		return err
	}

	logActivity(cfg, board.ActionAdd, created, created.Title)
	return outputCreateResult(created)
}

func outputCreateResult(t task.Task) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Created task #%d: %s", t.ID, t.Title)
	if t.File != "" {
		output.Messagef(os.Stdout, "  File: %s", t.File)
	}
	if len(t.Tags) > 0 {
		output.Messagef(os.Stdout, "  Tags: %s", strings.Join(t.Tags, ", "))
	}
	return nil
}

// resolveCreateTitle returns the task title from either the positional arg or --title flag.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	hasPositional := len(args) > 0
	hasFlag := flagTitle != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	case hasPositional:
		return args[0], nil
	case hasFlag:
		return flagTitle, nil
	default:
		return "", errors.New("title is required: provide it as an argument or with --title")
	}
}
