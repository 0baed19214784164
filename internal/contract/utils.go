package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/anomalyplot/schema"
)

// Change label constants.
const (
	MajorValue    = "Major"    // Major value
	ModerateValue = "Moderate" // Moderate value
	MinorValue    = "Minor"    // Minor value
)

// Color variables for console output.
var (
	MajorColor    = color.New(color.FgRed, color.Bold) // MajorColor represents a large regression or gain.
	ModerateColor = color.New(color.FgYellow)          // ModerateColor represents standard caution, not bold.
	MinorColor    = color.New(color.FgCyan)            // MinorColor represents informational signal.
)

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.GetChangeLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(relativeChange float64) string {
	text := schema.GetChangeLabel(relativeChange)

	switch text {
	case MajorValue:
		return MajorColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default:
		return MinorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for render history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".anomalyplot_history.db"
	}
	return filepath.Join(homeDir, ".anomalyplot_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for the prefix and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
