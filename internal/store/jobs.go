package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"s3sync/internal/logger"
	"s3sync/internal/model"
	"s3sync/internal/settings"

	"go.uber.org/zap"
)

const jobsKey = "sync.jobs"

// JobStore owns the list of sync job definitions. Every mutation is
// followed by a synchronous best-effort save; persistence failures are
// logged and never surface to the caller.
type JobStore struct {
	mu         sync.RWMutex
	jobs       []model.SyncJob
	settings   *settings.Store
	defaultDir string
}

func NewJobStore(st *settings.Store, defaultDir string) *JobStore {
	return &JobStore{settings: st, defaultDir: defaultDir}
}

// Load restores persisted jobs. Missing or corrupt data yields an empty
// list, and individually invalid entries are skipped. If nothing usable
// was stored, a disabled example job is seeded in memory only; it is not
// persisted until the user mutates the store.
func (s *JobStore) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = nil

	data, ok, err := s.settings.Get(jobsKey)
	if err != nil {
		logger.Log.Warn("failed to load jobs, starting empty", zap.Error(err))
	}

	if ok {
		var saved []model.SyncJob
		if err := json.Unmarshal(data, &saved); err != nil {
			logger.Log.Warn("corrupt job data, starting empty", zap.Error(err))
		} else {
			for _, job := range saved {
				if err := job.Validate(); err != nil {
					logger.Log.Warn("skipping invalid job",
						zap.String("id", job.ID),
						zap.Error(err))
					continue
				}
				s.jobs = append(s.jobs, job)
			}
		}
	}

	if len(s.jobs) == 0 && s.defaultDir != "" {
		s.jobs = append(s.jobs, exampleJob(s.defaultDir))
		logger.Log.Info("no jobs configured, seeded example job",
			zap.String("folder", s.defaultDir))
	}
}

func exampleJob(dir string) model.SyncJob {
	job, _ := model.NewSyncJob(dir, "example-bucket", "example-folder/", model.ClockTime{Hour: 12})
	job.IsEnabled = false
	return job
}

// Save persists the full list on the calling goroutine.
func (s *JobStore) Save() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.saveLocked()
}

func (s *JobStore) saveLocked() {
	data, err := json.Marshal(s.jobs)
	if err != nil {
		logger.Log.Error("failed to encode jobs", zap.Error(err))
		return
	}
	if err := s.settings.Put(jobsKey, data); err != nil {
		logger.Log.Error("failed to save jobs", zap.Error(err))
	}
}

func (s *JobStore) Add(job model.SyncJob) error {
	if err := job.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job)
	s.saveLocked()
	return nil
}

func (s *JobStore) Toggle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.jobs {
		if s.jobs[i].ID == id {
			s.jobs[i].IsEnabled = !s.jobs[i].IsEnabled
			s.saveLocked()
			return nil
		}
	}
	return fmt.Errorf("job %s not found", id)
}

func (s *JobStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.jobs {
		if s.jobs[i].ID == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			s.saveLocked()
			return nil
		}
	}
	return fmt.Errorf("job %s not found", id)
}

func (s *JobStore) Get(id string) (model.SyncJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, job := range s.jobs {
		if job.ID == id {
			return job, true
		}
	}
	return model.SyncJob{}, false
}

// All returns a snapshot of the current job list in store order.
func (s *JobStore) All() []model.SyncJob {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]model.SyncJob, len(s.jobs))
	copy(jobs, s.jobs)
	return jobs
}
