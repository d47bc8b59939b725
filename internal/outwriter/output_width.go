package outwriter

import (
	"os"

	"github.com/qualitydesk/qualens/internal/contract"
	"golang.org/x/term"
)

// getMaxTableTextWidth calculates the maximum width for free-text columns in
// table output based on terminal width and table configuration.
func getMaxTableTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 30 // Rank + Product + Critical + Rate with borders/padding

	// Add detail columns with formatting
	if cfg.Detail {
		baseWidth += 45 // Photos + Exposure + Programs + Evidence with formatting
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 20

	// Calculate available space for the insight column
	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable text width
		return 15
	}
	if available > 70 {
		// Maximum text width to prevent overly long cells
		return 70
	}
	return available
}
