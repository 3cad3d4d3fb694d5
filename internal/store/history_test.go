package store

import (
	"fmt"
	"testing"
	"time"

	"s3sync/internal/model"

	"github.com/stretchr/testify/require"
)

func runResult(n int) model.SyncRunResult {
	return model.SyncRunResult{
		ID:        fmt.Sprintf("run-%d", n),
		Timestamp: time.Date(2026, 8, 1, 12, n, 0, 0, time.UTC),
		JobID:     "job-1",
		Status:    fmt.Sprintf("succeeded %d, failed 0", n),
		Success:   true,
	}
}

func TestHistoryLogBoundedNewestFirst(t *testing.T) {
	st := openSettings(t)

	history := NewHistoryLog(st, 5)
	history.Load()

	for i := 1; i <= 7; i++ {
		history.Append(runResult(i))
	}

	got := history.All()
	require.Len(t, got, 5)
	for i, want := range []string{"run-7", "run-6", "run-5", "run-4", "run-3"} {
		require.Equal(t, want, got[i].ID)
	}
}

func TestHistoryLogPersistsOnAppend(t *testing.T) {
	st := openSettings(t)

	history := NewHistoryLog(st, 5)
	history.Load()
	for i := 1; i <= 7; i++ {
		history.Append(runResult(i))
	}

	reloaded := NewHistoryLog(st, 5)
	reloaded.Load()

	got := reloaded.All()
	require.Len(t, got, 5)
	require.Equal(t, "run-7", got[0].ID)
}

func TestHistoryLogCorruptDataStartsEmpty(t *testing.T) {
	st := openSettings(t)
	require.NoError(t, st.Put("sync.history", []byte("[truncated")))

	history := NewHistoryLog(st, 5)
	history.Load()

	require.Empty(t, history.All())
}

func TestHistoryLogNonPositiveLimitFallsBack(t *testing.T) {
	history := NewHistoryLog(openSettings(t), 0)
	history.Load()

	for i := 1; i <= 7; i++ {
		history.Append(runResult(i))
	}

	got := history.All()
	require.Len(t, got, 5)
	require.Equal(t, "run-7", got[0].ID)
}

func TestHistoryLogMissingDataStartsEmpty(t *testing.T) {
	history := NewHistoryLog(openSettings(t), 5)
	history.Load()
	require.Empty(t, history.All())
}
