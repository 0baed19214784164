package cmd

import (
	"github.com/huangsam/anomalyplot/core"
	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/spf13/cobra"
)

// renderCmd annotates a dataset and writes the result.
var renderCmd = &cobra.Command{
	Use:   "render <dataset>",
	Short: "Render a dataset with its revision marker and anomaly labels.",
	Long: `Render a performance dataset and float a label over every anomaly.

The dataset is a JSON or YAML file with the plotted series, the revision
lookup, the anomalies and an optional revision to mark. Each label shows
the anomaly's revision and its percent change.

Examples:
  # Write an HTML page with the chart and labels
  anomalyplot render bench.json --output-file bench.html

  # Mark a different revision than the dataset's own
  anomalyplot render bench.yaml --revision 1021 --output svg --output-file bench.svg

  # Print a table of labels
  anomalyplot render bench.json --output text`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRender(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot render dataset", err)
		}
	},
}
