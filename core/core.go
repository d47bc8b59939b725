// Package core implements the source-to-catalog pipeline: parsing,
// aggregation, heuristic classification, insight synthesis and catalog
// assembly, plus the cached provider consumers read from.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/internal/outwriter"
	"github.com/qualitydesk/qualens/schema"
)

// ExecutorFunc defines the function signature for executing different catalog modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// emptySnapshot is the degraded result for an unreadable source: an empty
// catalog with zeroed KPIs, never an error to the caller.
func emptySnapshot(sourcePath string) *schema.CatalogSnapshot {
	return &schema.CatalogSnapshot{
		Products:   []schema.ProductRecord{},
		SourcePath: sourcePath,
		BuiltAt:    time.Now(),
	}
}

// buildFromContent runs the full pipeline over raw source bytes.
func buildFromContent(cfg *contract.Config, content []byte) *schema.CatalogSnapshot {
	builtAt := time.Now()

	// 1. Parse and normalize rows.
	records, dropped := ParseSource(content)

	// 2. Collapse rows into per-product aggregates.
	groups := GroupByProduct(records)

	// 3. Assemble the sorted catalog and fleet KPIs.
	products, kpis := BuildCatalog(groups, builtAt)

	return &schema.CatalogSnapshot{
		Products:    products,
		KPIs:        kpis,
		SourcePath:  cfg.SourcePath,
		BuiltAt:     builtAt,
		RowsParsed:  len(records),
		RowsDropped: dropped,
	}
}

// BuildSnapshot builds the catalog snapshot directly from the configured
// source, bypassing any cache. A failed read degrades to an empty snapshot.
func BuildSnapshot(cfg *contract.Config) *schema.CatalogSnapshot {
	content, err := ReadSource(cfg.SourcePath)
	if err != nil {
		contract.LogWarn("cannot read source %s: %v (serving empty catalog)", cfg.SourcePath, err)
		return emptySnapshot(cfg.SourcePath)
	}
	return buildFromContent(cfg, content)
}

// recordIngestRun persists an audit row for one fresh catalog build, plus
// per-product metric rows. Persistence failures are logged and swallowed:
// the audit trail never blocks serving the catalog.
func recordIngestRun(mgr contract.CacheManager, snap *schema.CatalogSnapshot, start time.Time) {
	if mgr == nil {
		return
	}
	ingest := mgr.GetIngestStore()
	if ingest == nil {
		return
	}

	runID, err := ingest.BeginIngest(start, snap.SourcePath)
	if err != nil {
		contract.LogWarn("cannot record ingest run: %v", err)
		return
	}
	for _, product := range snap.Products {
		if err := ingest.RecordProductMetrics(runID, product); err != nil {
			contract.LogWarn("cannot record metrics for %s: %v", product.ID, err)
		}
	}
	if err := ingest.EndIngest(runID, time.Now(), snap); err != nil {
		contract.LogWarn("cannot finalize ingest run %d: %v", runID, err)
	}
}

// limitProducts applies the configured result limit to the sorted catalog.
func limitProducts(products []schema.ProductRecord, limit int) []schema.ProductRecord {
	if limit > 0 && len(products) > limit {
		return products[:limit]
	}
	return products
}

// ExecuteCatalogProducts builds (or loads) the catalog and renders the
// product listing. It serves as the main entry point for the 'products' mode.
func ExecuteCatalogProducts(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	provider := NewCatalogProvider(cfg, mgr)
	snap := provider.Snapshot()
	products := limitProducts(snap.Products, cfg.ResultLimit)
	duration := time.Since(start)
	return outwriter.PrintProducts(products, snap, cfg, duration)
}

// ExecuteCatalogProduct renders the detail view for one product, looked up
// by product ID or SKU code.
func ExecuteCatalogProduct(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, productID string) error {
	start := time.Now()
	provider := NewCatalogProvider(cfg, mgr)
	product, ok := provider.Product(productID)
	if !ok {
		return fmt.Errorf("product %q not found in catalog", productID)
	}
	duration := time.Since(start)
	return outwriter.PrintProductDetail(product, cfg, duration)
}

// ExecuteCatalogKPIs renders the fleet-wide KPI rollup.
func ExecuteCatalogKPIs(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	provider := NewCatalogProvider(cfg, mgr)
	snap := provider.Snapshot()
	duration := time.Since(start)
	return outwriter.PrintKPIs(snap.KPIs, snap, cfg, duration)
}
