package cmd

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/server"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

// defaultOrigins are the browser origins of the local web frontend.
var defaultOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board over HTTP",
	Long: `Starts the HTTP API: GET /api/tasks, PUT /api/tasks/:id, GET /api/health,
GET /api/layout and GET /api/overview. Another mioplan can use it with the
http store backend.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	serveCmd.Flags().StringSlice("origin", defaultOrigins, "allowed CORS origins")
	serveCmd.Flags().Bool("debug", false, "run gin in debug mode")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(closeStore)

	logger := openLogger(cfg)
	defer logger.Close() //nolint:errcheck // best-effort close on exit

	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.ServerAddr()
	}
	origins, _ := cmd.Flags().GetStringSlice("origin")

	srv := server.New(st, server.Options{
		BoardName:      cfg.Board.Name,
		BoardDir:       cfg.Dir(),
		Context:        func() timeline.Context { return cfg.Context(date.Today()) },
		Metrics:        cfg.Metrics(),
		AllowedOrigins: origins,
		Logger:         logger,
	})

	fmt.Fprintf(os.Stderr, "Serving board %q on http://%s\n", cfg.Board.Name, addr)
	return srv.Run(addr)
}
