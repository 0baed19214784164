// Package cmd defines the command-line interface for anomalyplot.
package cmd

import (
	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.HTMLOut), "Output format: html or svg or png or json or csv or text or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "Render history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("revision", "", "Revision to mark with a vertical line (overrides the dataset)")
	rootCmd.PersistentFlags().Int("width", schema.DefaultChartWidth, "Chart width in pixels")
	rootCmd.PersistentFlags().Int("height", schema.DefaultChartHeight, "Chart height in pixels")
	rootCmd.PersistentFlags().String("title", "", "Chart title (defaults to the dataset title)")
	rootCmd.PersistentFlags().Bool("clamp-upper", false, "Show the last revision for ticks past the end of the lookup")
	rootCmd.PersistentFlags().Bool("strict", false, "Fail on dataset problems instead of warning")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("host", contract.DefaultHost, "Address to listen on")
	serveCmd.Flags().Int("port", contract.DefaultPort, "Port to listen on (0 picks a free port)")
	serveCmd.Flags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	serveCmd.Flags().String("log-format", contract.DefaultLogFormat, "Log format: text or json")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
