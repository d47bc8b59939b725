package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Criticality label constants.
const (
	CriticalValue = "Critical" // Flagged for priority review
	WatchValue    = "Watch"    // Elevated incident rate, below the gate
	StableValue   = "Stable"   // No notable signal
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold) // criticalColor represents standard danger.
	WatchColor    = color.New(color.FgYellow)          // watchColor represents standard caution, not bold.
	StableColor   = color.New(color.FgCyan)            // stableColor represents informational signal.
)

// GetPlainLabel returns a plain text label for a product based on its
// criticality flag and incident rate. This is the core logic used for
// CSV, JSON, and table printing.
func GetPlainLabel(isCritical bool, incidentRate float64) string {
	switch {
	case isCritical:
		return CriticalValue
	case incidentRate >= 5:
		return WatchValue
	default:
		return StableValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(isCritical bool, incidentRate float64) string {
	text := GetPlainLabel(isCritical, incidentRate)

	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case WatchValue:
		return WatchColor.Sprint(text)
	default: // "Stable"
		return StableColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// TruncateText shortens a string to maxLen runes, keeping the tail visible
// behind a leading ellipsis. Product names and URLs overflow narrow tables
// otherwise.
func TruncateText(text string, maxLen int) string {
	if maxLen <= 0 || len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return "..." + text[len(text)-(maxLen-3):]
}

// FormatUSD renders an amount as a US-style currency string with comma
// grouping, e.g. 1234567.5 -> "$1,234,567.50".
func FormatUSD(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := fmt.Sprintf("%.2f", amount)
	dot := strings.Index(whole, ".")
	intPart, fracPart := whole[:dot], whole[dot:]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	if negative {
		return "-$" + b.String() + fracPart
	}
	return "$" + b.String() + fracPart
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a formatted warning message to stderr.
func LogWarn(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn: "+format+"\n", args...)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".qualens_cache.db"
	}
	return filepath.Join(homeDir, ".qualens_cache.db")
}

// GetIngestDBFilePath returns the path to the SQLite DB file for ingest-run storage.
func GetIngestDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".qualens_ingest.db"
	}
	return filepath.Join(homeDir, ".qualens_ingest.db")
}
