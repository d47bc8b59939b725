// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteProducts prints the product catalog using the configured output format.
func (ow *OutWriter) WriteProducts(products []schema.ProductRecord, snap *schema.CatalogSnapshot, cfg *contract.Config, duration time.Duration) error {
	return PrintProducts(products, snap, cfg, duration)
}

// WriteProductDetail prints one product's detail view using the configured output format.
func (ow *OutWriter) WriteProductDetail(product schema.ProductRecord, cfg *contract.Config, duration time.Duration) error {
	return PrintProductDetail(product, cfg, duration)
}

// WriteKPIs prints the fleet KPI rollup using the configured output format.
func (ow *OutWriter) WriteKPIs(kpis schema.FleetKPIs, snap *schema.CatalogSnapshot, cfg *contract.Config, duration time.Duration) error {
	return PrintKPIs(kpis, snap, cfg, duration)
}
