package store

import (
	"encoding/json"
	"sync"

	"s3sync/internal/logger"
	"s3sync/internal/model"
	"s3sync/internal/settings"

	"go.uber.org/zap"
)

const historyKey = "sync.history"

// HistoryLog is a bounded, most-recent-first log of past run results.
// Entries are immutable; only whole-list persistence exists.
type HistoryLog struct {
	mu       sync.RWMutex
	entries  []model.SyncRunResult
	settings *settings.Store
	limit    int
}

const defaultHistoryLimit = 5

func NewHistoryLog(st *settings.Store, limit int) *HistoryLog {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &HistoryLog{settings: st, limit: limit}
}

// Load restores persisted history; missing or corrupt data yields an
// empty log.
func (h *HistoryLog) Load() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil

	data, ok, err := h.settings.Get(historyKey)
	if err != nil {
		logger.Log.Warn("failed to load history, starting empty", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	var saved []model.SyncRunResult
	if err := json.Unmarshal(data, &saved); err != nil {
		logger.Log.Warn("corrupt history data, starting empty", zap.Error(err))
		return
	}
	h.entries = saved
}

// Append inserts the result at the head, drops entries beyond the limit
// and persists the full list.
func (h *HistoryLog) Append(result model.SyncRunResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append([]model.SyncRunResult{result}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}

	data, err := json.Marshal(h.entries)
	if err != nil {
		logger.Log.Error("failed to encode history", zap.Error(err))
		return
	}
	if err := h.settings.Put(historyKey, data); err != nil {
		logger.Log.Error("failed to save history", zap.Error(err))
	}
}

// All returns a snapshot, newest first.
func (h *HistoryLog) All() []model.SyncRunResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := make([]model.SyncRunResult, len(h.entries))
	copy(entries, h.entries)
	return entries
}
