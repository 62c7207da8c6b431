package cmd

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/config"
	"github.com/twiced-technology-gmbh/mioplan/internal/output"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task",
	Long: `Modifies the content of an existing task. Only specified fields are changed.
Placement (lane and dates) is changed with place, resize and unsort.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("description", "", "new description (replaces the whole text)")
	editCmd.Flags().StringP("append", "a", "", "append text to the description")
	editCmd.Flags().StringSlice("add-tag", nil, "add tags")
	editCmd.Flags().StringSlice("remove-tag", nil, "remove tags")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
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

	ctx := context.Background()
	t, err := st.Get(ctx, id)
	if err != nil {
		return err
	}

	changed := applyEditChanges(cmd, &t)
	if len(changed) == 0 {
		return clierr.New(clierr.NoChanges, "no changes specified")
	}

	if err := st.Put(ctx, t); err != nil {
		return err
	}
	logEditActivity(cfg, t, changed)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, "Updated task #%d: %s", t.ID, t.Title)
	return nil
}

// applyEditChanges applies the edit flags to t and returns the names of the
// fields that changed.
func applyEditChanges(cmd *cobra.Command, t *task.Task) []string {
	var changed []string

	if v, _ := cmd.Flags().GetString("title"); v != "" && v != t.Title {
		t.Title = v
		changed = append(changed, "title")
	}
	if cmd.Flags().Changed("description") {
		v, _ := cmd.Flags().GetString("description")
		if v != t.Description {
			t.Description = v
			changed = append(changed, "description")
		}
	}
	if v, _ := cmd.Flags().GetString("append"); v != "" {
		if t.Description != "" {
			t.Description += "\n\n"
		}
		t.Description += v
		changed = append(changed, "description")
	}

	tags := slices.Clone(t.Tags)
	if add, _ := cmd.Flags().GetStringSlice("add-tag"); len(add) > 0 {
		for _, tag := range add {
			if !slices.Contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
	}
	if remove, _ := cmd.Flags().GetStringSlice("remove-tag"); len(remove) > 0 {
		tags = slices.DeleteFunc(tags, func(tag string) bool { return slices.Contains(remove, tag) })
	}
	if !slices.Equal(tags, t.Tags) {
		t.Tags = tags
		changed = append(changed, "tags")
	}

	return slices.Compact(changed)
}

func logEditActivity(cfg *config.Config, t task.Task, changed []string) {
	logActivity(cfg, board.ActionEdit, t, "changed "+strings.Join(changed, ", "))
}
