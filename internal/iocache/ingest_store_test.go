package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSQLiteIngestStore creates an ingest store backed by a temp SQLite file.
func newSQLiteIngestStore(t *testing.T) contract.IngestStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ingest.db")
	store, err := NewIngestStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// sampleSnapshot builds a snapshot with one critical and one stable product.
func sampleSnapshot() *schema.CatalogSnapshot {
	return &schema.CatalogSnapshot{
		Products: []schema.ProductRecord{
			{
				ProductID:         "W005553866",
				IsCritical:        true,
				IncidentCount:     4,
				DeductionTotal:    125.5,
				IncidentRate:      4.8,
				FinancialExposure: 188250,
				Evidence:          []schema.EvidenceItem{{}, {}},
			},
			{
				ProductID:         "W001234567",
				IsCritical:        false,
				IncidentCount:     1,
				DeductionTotal:    10,
				IncidentRate:      1.2,
				FinancialExposure: 1000,
				Evidence:          []schema.EvidenceItem{{}},
			},
		},
		KPIs:        schema.FleetKPIs{CriticalProducts: 1},
		SourcePath:  "incidents.csv",
		RowsParsed:  3,
		RowsDropped: 1,
	}
}

// TestIngestStoreSQLiteRoundtrip verifies the full begin, record, end cycle.
func TestIngestStoreSQLiteRoundtrip(t *testing.T) {
	store := newSQLiteIngestStore(t)
	snap := sampleSnapshot()

	startTime := time.Now().Add(-2 * time.Second)
	runID, err := store.BeginIngest(startTime, snap.SourcePath)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	for _, product := range snap.Products {
		require.NoError(t, store.RecordProductMetrics(runID, product))
	}
	require.NoError(t, store.EndIngest(runID, time.Now(), snap))

	runs, err := store.GetAllIngestRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "incidents.csv", run.SourcePath)
	assert.Equal(t, int32(3), run.RowsParsed)
	assert.Equal(t, int32(1), run.RowsDropped)
	assert.Equal(t, int32(2), run.TotalProducts)
	assert.Equal(t, int32(1), run.CriticalProducts)
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.GreaterOrEqual(t, *run.RunDurationMs, int32(0))

	metrics, err := store.GetAllProductMetrics()
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	byID := make(map[string]schema.ProductMetricsRecord, len(metrics))
	for _, m := range metrics {
		assert.Equal(t, runID, m.RunID)
		byID[m.ProductID] = m
	}

	flagged := byID["W005553866"]
	assert.True(t, flagged.IsCritical)
	assert.InDelta(t, 4.0, flagged.IncidentCount, 0.0001)
	assert.InDelta(t, 125.5, flagged.DeductionTotal, 0.0001)
	assert.InDelta(t, 4.8, flagged.IncidentRate, 0.0001)
	assert.Equal(t, int32(2), flagged.EvidenceCount)

	stable := byID["W001234567"]
	assert.False(t, stable.IsCritical)
	assert.Equal(t, int32(1), stable.EvidenceCount)
}

// TestIngestStoreMultipleRuns verifies run IDs grow and status aggregates.
func TestIngestStoreMultipleRuns(t *testing.T) {
	store := newSQLiteIngestStore(t)
	snap := sampleSnapshot()

	first, err := store.BeginIngest(time.Now(), "a.csv")
	require.NoError(t, err)
	require.NoError(t, store.EndIngest(first, time.Now(), snap))

	second, err := store.BeginIngest(time.Now(), "b.csv")
	require.NoError(t, err)
	require.NoError(t, store.EndIngest(second, time.Now(), snap))

	assert.Greater(t, second, first)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(2), status.TotalRuns)
	assert.Equal(t, second, status.LastRunID)
	assert.Equal(t, int64(4), status.TotalProducts, "two runs of two products each")
	assert.Equal(t, int64(2), status.TableSizes[ingestRunsTable])
}

// TestIngestStoreEmptyStatus verifies status over an empty store.
func TestIngestStoreEmptyStatus(t *testing.T) {
	store := newSQLiteIngestStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(0), status.TotalRuns)
	assert.Equal(t, int64(0), status.TotalProducts)

	runs, err := store.GetAllIngestRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)

	metrics, err := store.GetAllProductMetrics()
	require.NoError(t, err)
	assert.Empty(t, metrics)
}

// TestIngestStoreNoneBackend verifies the no-op behavior.
func TestIngestStoreNoneBackend(t *testing.T) {
	store, err := NewIngestStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginIngest(time.Now(), "x.csv")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.RecordProductMetrics(runID, schema.ProductRecord{}))
	assert.NoError(t, store.EndIngest(runID, time.Now(), sampleSnapshot()))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

// TestNewIngestStoreRejectsUnknownBackend verifies backend validation.
func TestNewIngestStoreRejectsUnknownBackend(t *testing.T) {
	_, err := NewIngestStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
}
