package iocache

import (
	"time"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRender implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRender(startTime time.Time, datasetPath string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, datasetPath, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordLabels implements the HistoryStore interface.
func (m *MockHistoryStore) RecordLabels(runID int64, labels []schema.Label) error {
	args := m.Called(runID, labels)
	return args.Error(0)
}

// EndRender implements the HistoryStore interface.
func (m *MockHistoryStore) EndRender(runID int64, endTime time.Time, totalLabels int) error {
	args := m.Called(runID, endTime, totalLabels)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RenderRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RenderRunRecord)
	return runs, args.Error(1)
}

// GetAllLabels implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllLabels() ([]schema.RenderLabelRecord, error) {
	args := m.Called()
	labels, _ := args.Get(0).([]schema.RenderLabelRecord)
	return labels, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
