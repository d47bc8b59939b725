package cmd

import (
	"github.com/qualitydesk/qualens/core"
	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd gates CI/CD pipelines on catalog quality thresholds.
var checkCmd = &cobra.Command{
	Use:   "check [source.csv]",
	Short: "Gate on quality thresholds (for CI/CD pipelines).",
	Long: `Build the catalog and fail with a non-zero exit code when quality
thresholds are exceeded.

The gate fails when the number of critical products exceeds --max-critical,
or when total financial exposure exceeds --max-exposure (if set).

Examples:
  # Fail if any product is critical
  qualens check

  # Allow up to 3 critical products
  qualens check --max-critical 3

  # Also cap total exposure at $250k
  qualens check --max-critical 3 --max-exposure 250000`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCatalogCheck(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run quality check", err)
		}
	},
}
