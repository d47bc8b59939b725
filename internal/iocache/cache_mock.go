package iocache

import (
	"time"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetSnapshotStore implements the CacheManager interface.
func (m *MockCacheManager) GetSnapshotStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetIngestStore implements the CacheManager interface.
func (m *MockCacheManager) GetIngestStore() contract.IngestStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.IngestStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	return args.Get(0).([]byte), args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockIngestStore is a mock implementation of IngestStore for testing.
type MockIngestStore struct {
	mock.Mock
}

var _ contract.IngestStore = &MockIngestStore{} // Compile-time check

// BeginIngest implements the IngestStore interface.
func (m *MockIngestStore) BeginIngest(startTime time.Time, sourcePath string) (int64, error) {
	args := m.Called(startTime, sourcePath)
	return args.Get(0).(int64), args.Error(1)
}

// EndIngest implements the IngestStore interface.
func (m *MockIngestStore) EndIngest(runID int64, endTime time.Time, snap *schema.CatalogSnapshot) error {
	args := m.Called(runID, endTime, snap)
	return args.Error(0)
}

// RecordProductMetrics implements the IngestStore interface.
func (m *MockIngestStore) RecordProductMetrics(runID int64, product schema.ProductRecord) error {
	args := m.Called(runID, product)
	return args.Error(0)
}

// GetAllIngestRuns implements the IngestStore interface.
func (m *MockIngestStore) GetAllIngestRuns() ([]schema.IngestRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.IngestRunRecord)
	return runs, args.Error(1)
}

// GetAllProductMetrics implements the IngestStore interface.
func (m *MockIngestStore) GetAllProductMetrics() ([]schema.ProductMetricsRecord, error) {
	args := m.Called()
	metrics, _ := args.Get(0).([]schema.ProductMetricsRecord)
	return metrics, args.Error(1)
}

// Close implements the IngestStore interface.
func (m *MockIngestStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the IngestStore interface.
func (m *MockIngestStore) GetStatus() (schema.IngestStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.IngestStatus), args.Error(1)
}
