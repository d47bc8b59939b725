package cmd

import (
	"github.com/qualitydesk/qualens/core"
	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/spf13/cobra"
)

// productsCmd lists the ranked product catalog.
var productsCmd = &cobra.Command{
	Use:   "products [source.csv]",
	Short: "Show the product catalog ranked by quality risk.",
	Long: `Build the quality catalog from a supplier incident CSV and rank products
by criticality and incident rate.

Products flagged as critical sort first, then products with higher incident
rates, so the items most in need of supplier review surface at the top.

Examples:
  # Rank products from the default source
  qualens products

  # Rank products from a specific export
  qualens products q3-incidents.csv --limit 50

  # Include photo counts, exposure, and program assignments
  qualens products --detail

  # Export findings to CSV for tracking
  qualens products --output csv --output-file catalog.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCatalogProducts(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build product catalog", err)
		}
	},
}
