package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/internal/iocache"
	"github.com/qualitydesk/qualens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// smallSource is a two-product fixture shared by the caching tests.
func smallSource(t *testing.T) string {
	t.Helper()
	return writeSourceFile(t, strings.Join([]string{
		sourceHeader,
		sourceRow("W005553866", "Cracked leg", "4", "85.50"),
		sourceRow("W001234567", "Minor scuff", "1", "10.00"),
	}, "\n"))
}

// TestSnapshotCacheKey verifies content addressing.
func TestSnapshotCacheKey(t *testing.T) {
	a := snapshotCacheKey([]byte("content-a"))
	b := snapshotCacheKey([]byte("content-b"))

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, snapshotCacheKey([]byte("content-a")))
	assert.Contains(t, a, ":v", "key embeds the cache schema version")
}

// TestCachedBuildSnapshotMiss verifies a miss computes and stores.
func TestCachedBuildSnapshotMiss(t *testing.T) {
	path := smallSource(t)
	cfg := &contract.Config{SourcePath: path}

	mockStore := &iocache.MockCacheStore{}
	mockMgr := &iocache.MockCacheManager{}
	mockMgr.On("GetSnapshotStore").Return(mockStore)
	mockMgr.On("GetIngestStore").Return(nil)
	mockStore.On("Get", mock.AnythingOfType("string")).Return([]byte(nil), 0, int64(0), errors.New("miss"))
	mockStore.On("Set", mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8"), currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

	snap := cachedBuildSnapshot(cfg, mockMgr)
	require.NotNil(t, snap)
	assert.Len(t, snap.Products, 2)

	mockMgr.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

// TestCachedBuildSnapshotHit verifies a fresh entry is served as-is.
func TestCachedBuildSnapshotHit(t *testing.T) {
	path := smallSource(t)
	cfg := &contract.Config{SourcePath: path}

	cached := &schema.CatalogSnapshot{
		Products:   []schema.ProductRecord{{ProductID: "W-CACHED"}},
		SourcePath: path,
		BuiltAt:    time.Now(),
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	mockStore := &iocache.MockCacheStore{}
	mockMgr := &iocache.MockCacheManager{}
	mockMgr.On("GetSnapshotStore").Return(mockStore)
	mockStore.On("Get", mock.AnythingOfType("string")).Return(data, currentCacheVersion, time.Now().Unix(), nil)

	snap := cachedBuildSnapshot(cfg, mockMgr)
	require.NotNil(t, snap)
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "W-CACHED", snap.Products[0].ProductID)

	mockStore.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestCachedBuildSnapshotStaleEntry verifies age-based invalidation.
func TestCachedBuildSnapshotStaleEntry(t *testing.T) {
	path := smallSource(t)
	cfg := &contract.Config{SourcePath: path}

	cached := &schema.CatalogSnapshot{Products: []schema.ProductRecord{{ProductID: "W-STALE"}}}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	staleTS := time.Now().Add(-cacheMaxAge - time.Hour).Unix()

	mockStore := &iocache.MockCacheStore{}
	mockMgr := &iocache.MockCacheManager{}
	mockMgr.On("GetSnapshotStore").Return(mockStore)
	mockMgr.On("GetIngestStore").Return(nil)
	mockStore.On("Get", mock.AnythingOfType("string")).Return(data, currentCacheVersion, staleTS, nil)
	mockStore.On("Set", mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8"), currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

	snap := cachedBuildSnapshot(cfg, mockMgr)
	require.NotNil(t, snap)
	assert.Len(t, snap.Products, 2, "stale entry forces a rebuild")

	mockStore.AssertExpectations(t)
}

// TestCachedBuildSnapshotVersionMismatch verifies version invalidation.
func TestCachedBuildSnapshotVersionMismatch(t *testing.T) {
	path := smallSource(t)
	cfg := &contract.Config{SourcePath: path}

	data, err := json.Marshal(&schema.CatalogSnapshot{})
	require.NoError(t, err)

	mockStore := &iocache.MockCacheStore{}
	mockMgr := &iocache.MockCacheManager{}
	mockMgr.On("GetSnapshotStore").Return(mockStore)
	mockMgr.On("GetIngestStore").Return(nil)
	mockStore.On("Get", mock.AnythingOfType("string")).Return(data, currentCacheVersion+1, time.Now().Unix(), nil)
	mockStore.On("Set", mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8"), currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

	snap := cachedBuildSnapshot(cfg, mockMgr)
	require.NotNil(t, snap)
	assert.Len(t, snap.Products, 2)
}

// TestCachedBuildSnapshotNoStore verifies direct computation without a store.
func TestCachedBuildSnapshotNoStore(t *testing.T) {
	path := smallSource(t)
	cfg := &contract.Config{SourcePath: path}

	mockMgr := &iocache.MockCacheManager{}
	mockMgr.On("GetSnapshotStore").Return(nil)
	mockMgr.On("GetIngestStore").Return(nil)

	snap := cachedBuildSnapshot(cfg, mockMgr)
	require.NotNil(t, snap)
	assert.Len(t, snap.Products, 2)

	// A nil manager works the same way.
	snap = cachedBuildSnapshot(cfg, nil)
	require.NotNil(t, snap)
	assert.Len(t, snap.Products, 2)
}

// TestCachedBuildSnapshotRecordsIngest verifies the audit trail fires on a
// fresh build.
func TestCachedBuildSnapshotRecordsIngest(t *testing.T) {
	path := smallSource(t)
	cfg := &contract.Config{SourcePath: path}

	mockIngest := &iocache.MockIngestStore{}
	mockMgr := &iocache.MockCacheManager{}
	mockMgr.On("GetSnapshotStore").Return(nil)
	mockMgr.On("GetIngestStore").Return(mockIngest)
	mockIngest.On("BeginIngest", mock.AnythingOfType("time.Time"), path).Return(int64(7), nil)
	mockIngest.On("RecordProductMetrics", int64(7), mock.AnythingOfType("schema.ProductRecord")).Return(nil).Twice()
	mockIngest.On("EndIngest", int64(7), mock.AnythingOfType("time.Time"), mock.AnythingOfType("*schema.CatalogSnapshot")).Return(nil)

	snap := cachedBuildSnapshot(cfg, mockMgr)
	require.NotNil(t, snap)

	mockIngest.AssertExpectations(t)
}

// TestRecordIngestRunBeginFailure verifies a failed begin never blocks the
// build and skips the per-product rows.
func TestRecordIngestRunBeginFailure(t *testing.T) {
	mockIngest := &iocache.MockIngestStore{}
	mockMgr := &iocache.MockCacheManager{}
	mockMgr.On("GetIngestStore").Return(mockIngest)
	mockIngest.On("BeginIngest", mock.AnythingOfType("time.Time"), "x.csv").Return(int64(0), errors.New("db down"))

	snap := &schema.CatalogSnapshot{
		Products:   []schema.ProductRecord{{ProductID: "W1"}},
		SourcePath: "x.csv",
	}
	recordIngestRun(mockMgr, snap, time.Now())

	mockIngest.AssertNotCalled(t, "RecordProductMetrics", mock.Anything, mock.Anything)
	mockIngest.AssertNotCalled(t, "EndIngest", mock.Anything, mock.Anything, mock.Anything)
}

// TestProviderSnapshotOnce verifies the provider builds exactly once.
func TestProviderSnapshotOnce(t *testing.T) {
	path := smallSource(t)
	cfg := &contract.Config{SourcePath: path}
	provider := NewCatalogProvider(cfg, nil)

	first := provider.Snapshot()
	second := provider.Snapshot()
	assert.Same(t, first, second)
}

// TestProviderLookups verifies the read surface over a built snapshot.
func TestProviderLookups(t *testing.T) {
	path := smallSource(t)
	cfg := &contract.Config{SourcePath: path}
	provider := NewCatalogProvider(cfg, nil)

	products := provider.Products()
	require.Len(t, products, 2)

	byID, ok := provider.Product("W005553866")
	require.True(t, ok)
	assert.Equal(t, "W005553866", byID.ProductID)

	bySKU, ok := provider.Product("SKU-000001")
	require.True(t, ok, "lookup by SKU code")
	assert.Equal(t, "SKU-000001", bySKU.SKUCode)

	_, ok = provider.Product("W-NOPE")
	assert.False(t, ok)

	kpis := provider.KPIs()
	assert.Equal(t, 1, kpis.CriticalProducts)
}
