package core

import (
	"time"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/schema"
)

// historyStore returns the store from mgr, or nil when history is not tracked.
func historyStore(mgr contract.HistoryManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}

// recordRender stores the placed labels and closes out the run.
// Failures are logged and never abort the render.
func recordRender(store contract.HistoryStore, runID int64, labels []schema.Label) {
	if err := store.RecordLabels(runID, labels); err != nil {
		contract.LogWarn("Failed to record labels", err)
	}
	if err := store.EndRender(runID, time.Now(), len(labels)); err != nil {
		contract.LogWarn("Failed to finalize history tracking", err)
	}
}
