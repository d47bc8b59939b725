package cmd

import (
	"github.com/qualitydesk/qualens/core"
	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/internal/httpapi"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP read API.
var serveCmd = &cobra.Command{
	Use:   "serve [source.csv]",
	Short: "Serve the catalog as a read-only JSON API.",
	Long: `Build the catalog once and serve it over HTTP.

Endpoints:
  GET /health                   - liveness probe
  GET /api/v1/products          - ranked catalog (?limit=N, ?critical=true)
  GET /api/v1/products/:id      - single product by ID or SKU code
  GET /api/v1/kpis              - fleet-wide rollups

The catalog is built lazily on the first request and reused for the life of
the process.

Examples:
  # Serve the default source on port 8080
  qualens serve

  # Serve a specific export on another port
  qualens serve q3-incidents.csv --port 9090`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		provider := core.NewCatalogProvider(cfg, cacheManager)
		if err := httpapi.Serve(rootCtx, provider, cfg.ServerPort); err != nil {
			contract.LogFatal("Cannot serve catalog API", err)
		}
	},
}
