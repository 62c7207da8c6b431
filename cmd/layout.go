package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/output"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the computed board layout",
	Long: `Lays the board out under the active time scale and prints, per lane, its
height, slot count and the position and width of every card. Unsorted tasks
are listed separately.`,
	Args: cobra.NoArgs,
	RunE: runLayout,
}

func init() {
	layoutCmd.Flags().String("scale", "", "time scale (day, week, month; default from config)")
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cfg.Context(date.Today())
	if v, _ := cmd.Flags().GetString("scale"); v != "" {
		s, err := timeline.ParseScale(v)
		if err != nil {
			return err
		}
		ctx = ctx.WithScale(s)
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(closeStore)

	tasks, err := st.List(context.Background())
	if err != nil {
		return err
	}
	printWarnings(st)

	surface := board.Layout(ctx, tasks, cfg.Metrics())

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, surface)
	case output.FormatCompact:
		output.SurfaceCompact(os.Stdout, surface)
	default:
		output.SurfaceTable(os.Stdout, surface)
	}
	return nil
}
