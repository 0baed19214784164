package cmd

import (
	"fmt"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/internal/logging"
	"github.com/huangsam/anomalyplot/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd serves the annotated chart over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve <dataset>",
	Short: "Serve the annotated chart as a live dashboard.",
	Long: `Start an HTTP server that renders the dataset on every request.

Routes:
  GET /                   HTML page with chart and labels
  GET /chart.svg          SVG chart
  GET /chart.png          PNG chart
  GET /api/v1/annotation  JSON annotation
  GET /api/v1/history     Render history status
  GET /health             Liveness

Every chart route accepts ?revision= to mark another revision.

Examples:
  anomalyplot serve bench.json --port 8080`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runServe(); err != nil {
			contract.LogFatal("Cannot serve dataset", err)
		}
	},
}

func runServe() error {
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}, version)

	srv, err := server.New(server.Deps{
		Config:  cfg,
		Logger:  logger,
		History: historyManager,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	if err := srv.Start(rootCtx); err != nil {
		return err
	}

	<-rootCtx.Done()
	return srv.Close()
}
