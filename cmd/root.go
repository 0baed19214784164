package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/internal/iocache"
	"github.com/huangsam/anomalyplot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. Execute replaces it with
// one that is cancelled on interrupt.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// historyManager is the global render history manager instance.
var historyManager contract.HistoryManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "anomalyplot",
	Short:              "Annotate performance charts with anomaly labels.",
	Long:               `Anomalyplot renders a performance time series, marks a revision of interest and labels every anomaly with its revision and percent change.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigSource()

	// Set environment variable prefix
	viper.SetEnvPrefix("ANOMALYPLOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("output", string(schema.HTMLOut))
	viper.SetDefault("width", schema.DefaultChartWidth)
	viper.SetDefault("height", schema.DefaultChartHeight)
	viper.SetDefault("history-backend", string(schema.SQLiteBackend))
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("host", contract.DefaultHost)
	viper.SetDefault("port", contract.DefaultPort)
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("log-format", contract.DefaultLogFormat)
}

// setConfigSource points viper at --config or the default .anomalyplot.yaml locations.
func setConfigSource() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".anomalyplot") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// loadConfigFile reads the config file if present. A missing file is fine.
func loadConfigFile() error {
	setConfigSource()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// sharedSetup unmarshals config, validates it and opens the history store.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.DatasetPathStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Initialize render history with validated config
	if err := iocache.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command with ctx as the root context.
func Execute(ctx context.Context) error {
	rootCtx = ctx
	return rootCmd.ExecuteContext(ctx)
}

// SetHistoryManager sets the global history manager.
func SetHistoryManager(mgr contract.HistoryManager) {
	historyManager = mgr
}
