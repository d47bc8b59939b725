package cmd

import (
	"github.com/qualitydesk/qualens/core"
	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/spf13/cobra"
)

// productCmd shows the full detail for a single product.
var productCmd = &cobra.Command{
	Use:   "product <product-id> [source.csv]",
	Short: "Show full detail for one product, including evidence items.",
	Long: `Look up a single product by product ID or SKU code and print its full
quality profile: criticality, incident rate, financial exposure, program
assignments, defect types, root cause narrative, and evidence items.

Examples:
  # Look up a product by ID
  qualens product W005553866

  # Look up a product in a specific export
  qualens product W005553866 q3-incidents.csv

  # Emit the detail as JSON
  qualens product W005553866 --output json`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The first positional is the product ID; the rest is the source path.
		return sharedSetup(rootCtx, cmd, args[1:])
	},
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteCatalogProduct(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot look up product", err)
		}
	},
}
