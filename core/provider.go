package core

import (
	"sync"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/schema"
)

// CatalogProvider owns one immutable catalog snapshot, built lazily on first
// read and reused for the remainder of the process. It is safe for
// concurrent use: sync.Once guarantees a single build, and the snapshot is
// never mutated after assignment. Construct one per process and pass it by
// reference to every consumer.
type CatalogProvider struct {
	cfg  *contract.Config
	mgr  contract.CacheManager
	once sync.Once
	snap *schema.CatalogSnapshot
}

// NewCatalogProvider creates a provider for the configured source. The
// cache manager may be nil, in which case every process builds from scratch.
func NewCatalogProvider(cfg *contract.Config, mgr contract.CacheManager) *CatalogProvider {
	return &CatalogProvider{cfg: cfg, mgr: mgr}
}

// Snapshot returns the catalog snapshot, building it on first call. A
// failed source read degrades to an empty snapshot with zeroed KPIs rather
// than surfacing an error.
func (p *CatalogProvider) Snapshot() *schema.CatalogSnapshot {
	p.once.Do(func() {
		p.snap = cachedBuildSnapshot(p.cfg, p.mgr)
	})
	return p.snap
}

// Products returns the sorted product catalog.
func (p *CatalogProvider) Products() []schema.ProductRecord {
	return p.Snapshot().Products
}

// Product looks a product up by product ID or SKU code.
func (p *CatalogProvider) Product(id string) (schema.ProductRecord, bool) {
	for _, product := range p.Snapshot().Products {
		if product.ID == id || product.SKUCode == id {
			return product, true
		}
	}
	return schema.ProductRecord{}, false
}

// KPIs returns the fleet-wide rollups.
func (p *CatalogProvider) KPIs() schema.FleetKPIs {
	return p.Snapshot().KPIs
}
