package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ClockTime is a time of day. Only hour and minute matter to the
// scheduler; the date a job was configured on is irrelevant.
type ClockTime struct {
	Hour   int
	Minute int
}

func NewClockTime(hour, minute int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("invalid clock time %02d:%02d", hour, minute)
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

func ParseClockTime(s string) (ClockTime, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return NewClockTime(hour, minute)
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MinuteOfDay returns minutes since midnight.
func (t ClockTime) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// SyncJob binds a local folder to a bucket/prefix and a daily sync time.
// The job store owns the collection; the scheduler only reads it.
type SyncJob struct {
	ID              string    `json:"id"`
	LocalFolderPath string    `json:"local_folder_path"`
	BucketName      string    `json:"bucket_name"`
	Prefix          string    `json:"prefix"`
	SyncTime        ClockTime `json:"sync_time"`
	IsEnabled       bool      `json:"is_enabled"`
}

func NewSyncJob(localFolderPath, bucketName, prefix string, syncTime ClockTime) (SyncJob, error) {
	job := SyncJob{
		ID:              uuid.NewString(),
		LocalFolderPath: localFolderPath,
		BucketName:      bucketName,
		Prefix:          prefix,
		SyncTime:        syncTime,
		IsEnabled:       true,
	}
	if err := job.Validate(); err != nil {
		return SyncJob{}, err
	}
	return job, nil
}

// Validate rejects jobs that could never run. The same check is applied
// to persisted entries on load so a corrupt entry is skipped, not fatal.
func (j SyncJob) Validate() error {
	if j.LocalFolderPath == "" {
		return fmt.Errorf("local folder path is required")
	}
	if j.BucketName == "" {
		return fmt.Errorf("bucket name is required")
	}
	return nil
}
