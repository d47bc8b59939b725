// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/qualitydesk/qualens/schema"
)

// CatalogReader defines the read surface consumed by external collaborators
// (HTTP handlers, MCP tools, terminal renderers). All three operations are
// pure reads against an immutable snapshot; none of them mutate state or
// return errors for ordinary lookup misses.
type CatalogReader interface {
	// Snapshot returns the full catalog snapshot.
	Snapshot() *schema.CatalogSnapshot

	// Products returns the sorted product catalog.
	Products() []schema.ProductRecord

	// Product looks a product up by product ID or SKU code. The boolean
	// reports whether the product exists; a miss is not an error.
	Product(id string) (schema.ProductRecord, bool)

	// KPIs returns the fleet-wide rollups.
	KPIs() schema.FleetKPIs
}

// CacheManager defines the interface for managing persistence stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSnapshotStore() CacheStore
	GetIngestStore() IngestStore
}

// CacheStore defines the interface for snapshot cache storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// IngestStore defines the interface for tracking catalog builds and storing
// per-product metrics.
type IngestStore interface {
	// BeginIngest creates a new ingest run and returns its unique ID
	BeginIngest(startTime time.Time, sourcePath string) (int64, error)

	// EndIngest updates the ingest run with completion data
	EndIngest(runID int64, endTime time.Time, snap *schema.CatalogSnapshot) error

	// RecordProductMetrics stores derived metrics for a product
	RecordProductMetrics(runID int64, product schema.ProductRecord) error

	// GetAllIngestRuns returns every recorded ingest run
	GetAllIngestRuns() ([]schema.IngestRunRecord, error)

	// GetAllProductMetrics returns every recorded product metrics row
	GetAllProductMetrics() ([]schema.ProductMetricsRecord, error)

	// GetStatus returns status information about the ingest store
	GetStatus() (schema.IngestStatus, error)

	// Close closes the underlying connection
	Close() error
}
