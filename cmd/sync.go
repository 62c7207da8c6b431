package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/config"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull cards from Kaiten",
	Long: `Fetches the cards of the configured Kaiten board (kaiten.board_id, with the
API key in ` + config.EnvKaitenToken + `) and stores them locally. New cards
land in Unsorted; known cards get their title, description and tags
refreshed and keep their placement.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Backend == store.BackendHTTP {
		return clierr.New(clierr.InvalidInput, "sync needs a local backend (files or sqlite)")
	}
	src := kaitenSource(cfg)
	if src == nil {
		return clierr.Newf(clierr.InvalidInput,
			"kaiten is not configured: set kaiten.board_id and %s", config.EnvKaitenToken)
	}

	local, closeStore, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(closeStore)

	res, err := store.Sync(context.Background(), src, local)
	if err != nil {
		return err
	}
	for _, t := range res.Added {
		logActivity(cfg, board.ActionSync, t, "added "+t.Title)
	}
	for _, t := range res.Refreshed {
		logActivity(cfg, board.ActionSync, t, "refreshed "+t.Title)
	}

	return writeResult(os.Stdout, res, "Synced %d cards: %d added, %d refreshed, %d unchanged",
		len(res.Added)+len(res.Refreshed)+res.Unchanged, len(res.Added), len(res.Refreshed), res.Unchanged)
}
