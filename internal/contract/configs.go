package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/anomalyplot/schema"
)

// Default values for configuration.
const (
	DefaultHost      = "127.0.0.1"
	DefaultPort      = 8080
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	MaxChartSize     = 8192
	MinChartSize     = 64
)

// Config holds the runtime configuration for a render.
// This struct remains the "final, validated" config.
type Config struct {
	DatasetPath string
	Revision    *float64 // overrides the dataset revision when set
	Output      schema.OutputMode
	OutputFile  string
	Width       int
	Height      int
	Title       string
	ClampUpper  bool // clamp ticks past the lookup to its last revision
	Strict      bool // fail on dataset invariant violations instead of warning
	UseColors   bool // Enable colored labels in table output

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Host      string
	Port      int
	LogLevel  string
	LogFormat string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DatasetPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from renderCmd.Flags() and serveCmd.Flags() ---
	Revision   string `mapstructure:"revision"`
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	Title      string `mapstructure:"title"`
	ClampUpper bool   `mapstructure:"clamp-upper"`
	Strict     bool   `mapstructure:"strict"`

	// --- Fields from serveCmd.Flags() ---
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Revision != nil {
		rev := *c.Revision
		clone.Revision = &rev
	}
	return &clone
}

// WithRevision returns a copy of the Config that marks the given revision.
func (c *Config) WithRevision(rev *float64) *Config {
	clone := c.Clone()
	clone.Revision = rev
	return clone
}

// Params returns the settings recorded alongside a render run.
func (c *Config) Params() map[string]any {
	params := map[string]any{
		"output":      string(c.Output),
		"width":       c.Width,
		"height":      c.Height,
		"clamp_upper": c.ClampUpper,
		"strict":      c.Strict,
	}
	if c.Revision != nil {
		params["revision"] = *c.Revision
	}
	return params
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := resolveDatasetPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Title = input.Title
	cfg.ClampUpper = input.ClampUpper
	cfg.Strict = input.Strict

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Revision Validation ---
	rev, err := schema.ParseRevision(input.Revision)
	if err != nil {
		return fmt.Errorf("invalid revision '%s': must be a number", input.Revision)
	}
	cfg.Revision = rev

	// --- 2. Chart Size Validation ---
	if input.Width < MinChartSize || input.Width > MaxChartSize {
		return fmt.Errorf("width must be between %d and %d (received %d)", MinChartSize, MaxChartSize, input.Width)
	}
	if input.Height < MinChartSize || input.Height > MaxChartSize {
		return fmt.Errorf("height must be between %d and %d (received %d)", MinChartSize, MaxChartSize, input.Height)
	}
	cfg.Width = input.Width
	cfg.Height = input.Height

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.HTMLOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be html, svg, png, json, csv, text, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 4. Server Validation ---
	cfg.Host = input.Host
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if input.Port < 0 || input.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535 (received %d)", input.Port)
	}
	cfg.Port = input.Port

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = DefaultLogLevel
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	cfg.LogFormat = strings.ToLower(input.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = DefaultLogFormat
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format '%s'. must be text, json", input.LogFormat)
	}

	return nil
}

// resolveDatasetPath makes the dataset path absolute and checks that it is a readable file.
// Commands without a dataset argument leave DatasetPath empty.
func resolveDatasetPath(cfg *Config, input *ConfigRawInput) error {
	if input.DatasetPathStr == "" {
		cfg.DatasetPath = ""
		return nil
	}
	absPath, err := filepath.Abs(input.DatasetPathStr)
	if err != nil {
		return fmt.Errorf("failed to resolve dataset path %q: %w", input.DatasetPathStr, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("dataset %q is not accessible: %w", input.DatasetPathStr, err)
	}
	if info.IsDir() {
		return fmt.Errorf("dataset %q is a directory", input.DatasetPathStr)
	}
	cfg.DatasetPath = absPath
	return nil
}
