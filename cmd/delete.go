package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long:    `Removes a task from the store. Prompts for confirmation in interactive mode.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	deleter, ok := st.(store.Deleter)
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "the %s backend cannot delete tasks", cfg.Store.Backend).
			WithDetails(map[string]any{"backend": cfg.Store.Backend})
	}

	ctx := context.Background()
	t, err := st.Get(ctx, id)
	if err != nil {
		return err
	}

	// Require confirmation in TTY mode unless --yes.
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task #%d %q? [y/N] ", t.ID, t.Title)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	if err := deleter.Delete(ctx, t.ID); err != nil {
		return err
	}
	logActivity(cfg, board.ActionDelete, t, t.Title)

	return writeResult(os.Stdout, map[string]any{
		"status": "deleted",
		"id":     t.ID,
		"title":  t.Title,
	}, "Deleted task #%d: %s", t.ID, t.Title)
}
