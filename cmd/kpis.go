package cmd

import (
	"github.com/qualitydesk/qualens/core"
	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/spf13/cobra"
)

// kpisCmd prints fleet-wide rollups.
var kpisCmd = &cobra.Command{
	Use:   "kpis [source.csv]",
	Short: "Show fleet-wide quality KPIs.",
	Long: `Compute rollups across the whole catalog: critical product count,
photos analyzed, total financial exposure, suppliers affected, average
incident rate, and total evidence items.

Examples:
  # KPIs from the default source
  qualens kpis

  # KPIs as JSON for dashboards
  qualens kpis --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCatalogKPIs(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute KPIs", err)
		}
	},
}
