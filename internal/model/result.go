package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SyncRunResult records the outcome of one sync run. Immutable after
// creation; the history log owns ordering and retention.
//
// Success reflects the run as a whole: a run that enumerated the folder
// and attempted every file is successful even if some uploads failed.
// Only a top-level error (unreadable folder, client failure) makes it false.
type SyncRunResult struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	JobID      string    `json:"job_id"`
	LocalPath  string    `json:"local_path"`
	BucketName string    `json:"bucket_name"`
	Prefix     string    `json:"prefix"`
	Status     string    `json:"status"`
	Details    []string  `json:"details"`
	Uploaded   int       `json:"uploaded"`
	Failed     int       `json:"failed"`
	Success    bool      `json:"success"`
}

func NewRunSuccess(job SyncJob, startedAt time.Time, details []string, uploaded, failed int) SyncRunResult {
	return SyncRunResult{
		ID:         uuid.NewString(),
		Timestamp:  startedAt,
		JobID:      job.ID,
		LocalPath:  job.LocalFolderPath,
		BucketName: job.BucketName,
		Prefix:     job.Prefix,
		Status:     fmt.Sprintf("succeeded %d, failed %d", uploaded, failed),
		Details:    details,
		Uploaded:   uploaded,
		Failed:     failed,
		Success:    true,
	}
}

func NewRunFailure(job SyncJob, startedAt time.Time, err error) SyncRunResult {
	return SyncRunResult{
		ID:         uuid.NewString(),
		Timestamp:  startedAt,
		JobID:      job.ID,
		LocalPath:  job.LocalFolderPath,
		BucketName: job.BucketName,
		Prefix:     job.Prefix,
		Status:     fmt.Sprintf("sync failed: %v", err),
		Success:    false,
	}
}
