package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheMaxAge bounds how long a cached snapshot stays valid even when the
// source bytes are unchanged.
const cacheMaxAge = 7 * 24 * time.Hour

// cachedBuildSnapshot builds the catalog snapshot, consulting the snapshot
// cache when a store is available. The cache key is derived from the source
// bytes, so editing the source file invalidates prior entries without any
// explicit invalidation path.
func cachedBuildSnapshot(cfg *contract.Config, mgr contract.CacheManager) *schema.CatalogSnapshot {
	content, err := ReadSource(cfg.SourcePath)
	if err != nil {
		contract.LogWarn("cannot read source %s: %v (serving empty catalog)", cfg.SourcePath, err)
		return emptySnapshot(cfg.SourcePath)
	}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetSnapshotStore()
	}
	if store == nil {
		// Fallback to direct computation
		start := time.Now()
		snap := buildFromContent(cfg, content)
		recordIngestRun(mgr, snap, start)
		return snap
	}

	key := snapshotCacheKey(content)

	// Check for cache hit
	if snap := checkCacheHit(store, key); snap != nil {
		return snap
	}

	// Cache miss: compute and store
	start := time.Now()
	snap := buildFromContent(cfg, content)
	recordIngestRun(mgr, snap, start)
	if data, err := json.Marshal(snap); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
	return snap
}

// checkCacheHit attempts to retrieve and validate a cached snapshot
func checkCacheHit(store contract.CacheStore, key string) *schema.CatalogSnapshot {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= cacheMaxAge {
			var snap schema.CatalogSnapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				return &snap // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// snapshotCacheKey creates a unique key from the source bytes and the cache
// schema version.
func snapshotCacheKey(content []byte) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%x:v%d", sum, currentCacheVersion)
}
