// Package outwriter writes annotation results in every supported output format.
package outwriter

import (
	"os"

	"golang.org/x/term"
)

// GetMaxTablePathWidth calculates the maximum width for the dataset path in
// table output based on terminal width.
func GetMaxTablePathWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		termWidth = 80
	}

	// Reserve space for the summary text around the path
	available := termWidth - 40
	return min(max(available, 15), 70)
}
