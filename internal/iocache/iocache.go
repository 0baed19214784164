// Package iocache persists render history across runs.
package iocache

import (
	"sync"

	"github.com/huangsam/anomalyplot/internal/contract"
)

// HistoryStoreManager owns the HistoryStore used by the process.
type HistoryStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	history      contract.HistoryStore
}

var _ contract.HistoryManager = &HistoryStoreManager{} // Compile-time check

// GetHistoryStore returns the history store, or nil when history is not initialized.
func (mgr *HistoryStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
