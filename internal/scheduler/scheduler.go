// Package scheduler owns the process-wide sync schedule: a single
// periodic trigger that evaluates every enabled job against the wall
// clock and runs the executor on a match.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"s3sync/internal/logger"
	"s3sync/internal/model"
	"s3sync/internal/settings"
	"s3sync/internal/store"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	lastSyncKey = "sync.last_run"
	autoSyncKey = "sync.auto"
)

// Runner executes one sync pass for a job. Satisfied by executor.Executor.
type Runner interface {
	Run(ctx context.Context, job model.SyncJob) model.SyncRunResult
}

type Options struct {
	TickInterval time.Duration
	Tolerance    time.Duration
	Extender     Extender
	Now          func() time.Time
}

// Scheduler is constructed once at the composition root and shared by
// every entry point; Start is idempotent so any number of call sites can
// ensure it is running without creating duplicate tickers.
type Scheduler struct {
	mu    sync.Mutex // scheduler state
	runMu sync.Mutex // serializes tick and SyncNow

	jobs     *store.JobStore
	history  *store.HistoryLog
	runner   Runner
	settings *settings.Store
	extender Extender

	cron      *cron.Cron
	started   bool
	autoSync  bool
	lastSync  *time.Time
	lastFired map[string]string // job id -> calendar date of last scheduled run

	interval  time.Duration
	tolerance time.Duration
	now       func() time.Time
}

func New(jobs *store.JobStore, history *store.HistoryLog, runner Runner, st *settings.Store, opts Options) *Scheduler {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Minute
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = 5 * time.Minute
	}
	if opts.Extender == nil {
		opts.Extender = NoopExtender{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Scheduler{
		jobs:      jobs,
		history:   history,
		runner:    runner,
		settings:  st,
		extender:  opts.Extender,
		autoSync:  true,
		lastFired: make(map[string]string),
		interval:  opts.TickInterval,
		tolerance: opts.Tolerance,
		now:       opts.Now,
	}
	s.loadState()
	return s
}

func (s *Scheduler) loadState() {
	if data, ok, err := s.settings.Get(lastSyncKey); err == nil && ok {
		if t, err := time.Parse(time.RFC3339, string(data)); err == nil {
			s.lastSync = &t
		}
	}
	if data, ok, err := s.settings.Get(autoSyncKey); err == nil && ok {
		s.autoSync = string(data) != "false"
	}
}

// Start creates the periodic trigger and performs one immediate check so
// a cold start does not wait a full interval. Calling it again is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		logger.Log.Info("scheduler already running")
		return
	}

	c := cron.New()
	c.Schedule(cron.Every(s.interval), cron.FuncJob(func() { s.tick() }))
	c.Start()

	s.cron = c
	s.started = true
	s.mu.Unlock()

	logger.Log.Info("scheduler started",
		zap.Duration("interval", s.interval),
		zap.Duration("tolerance", s.tolerance))

	go s.tick()
}

// EnsureStarted is the guard exposed to secondary entry points; it
// delegates to the idempotent Start.
func (s *Scheduler) EnsureStarted() {
	s.Start()
}

// Stop halts the periodic trigger. Production call sites only invoke it
// on process shutdown; the schedule survives any client lifecycle.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.cron.Stop()
	s.cron = nil
	s.started = false
	logger.Log.Info("scheduler stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// tick evaluates all jobs against the current time. Jobs are processed
// sequentially in store order; the job list is snapshotted once per tick,
// so mutations take effect on the next tick.
func (s *Scheduler) tick() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if !s.AutoSyncEnabled() {
		logger.Log.Debug("auto-sync disabled, skipping check")
		return
	}

	now := s.now()
	logger.Log.Debug("checking scheduled jobs",
		zap.String("time", now.Format("15:04")))

	for _, job := range s.jobs.All() {
		if !job.IsEnabled {
			continue
		}
		slot, ok := s.slotFor(now, job.SyncTime)
		if !ok {
			continue
		}
		if s.firedOn(job.ID, slot) {
			logger.Log.Debug("job already ran for this slot, skipping",
				zap.String("job", job.ID))
			continue
		}

		logger.Log.Info("schedule matched",
			zap.String("job", job.ID),
			zap.String("sync_time", job.SyncTime.String()))

		s.runJob(context.Background(), job)
		s.markFired(job.ID, slot)
	}
}

// slotFor compares hour/minute only, with an inclusive tolerance, and
// returns the wall-clock moment of the matched daily slot. The distance
// wraps around midnight so a 00:01 schedule matches at 23:58; in that
// case the slot belongs to the day on its own side of the boundary, so
// ticks on both sides of midnight de-duplicate against the same slot.
func (s *Scheduler) slotFor(now time.Time, at model.ClockTime) (time.Time, bool) {
	nowMin := now.Hour()*60 + now.Minute()
	d := nowMin - at.MinuteOfDay()
	if d > 720 {
		d -= 1440
	} else if d < -720 {
		d += 1440
	}

	abs := d
	if abs < 0 {
		abs = -abs
	}
	if time.Duration(abs)*time.Minute > s.tolerance {
		return time.Time{}, false
	}

	return now.Add(-time.Duration(d) * time.Minute), true
}

func (s *Scheduler) firedOn(jobID string, slot time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFired[jobID] == dateOf(slot)
}

func (s *Scheduler) markFired(jobID string, slot time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFired[jobID] = dateOf(slot)
}

func dateOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// runJob executes one pass, records the result and advances the last
// sync time. A best-effort execution extension brackets the run.
func (s *Scheduler) runJob(ctx context.Context, job model.SyncJob) model.SyncRunResult {
	release := s.extender.Extend("sync " + job.ID)
	defer release()

	result := s.runner.Run(ctx, job)
	s.history.Append(result)
	s.setLastSync(s.now())
	return result
}

// SyncNow runs a job immediately, bypassing the time check and the
// enabled flag. Concurrent callers are serialized, not raced.
func (s *Scheduler) SyncNow(ctx context.Context, jobID string) (model.SyncRunResult, error) {
	job, ok := s.jobs.Get(jobID)
	if !ok {
		return model.SyncRunResult{}, fmt.Errorf("job %s not found", jobID)
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	logger.Log.Info("manual sync requested", zap.String("job", job.ID))
	return s.runJob(ctx, job), nil
}

func (s *Scheduler) setLastSync(t time.Time) {
	s.mu.Lock()
	s.lastSync = &t
	s.mu.Unlock()

	if err := s.settings.Put(lastSyncKey, []byte(t.Format(time.RFC3339))); err != nil {
		logger.Log.Warn("failed to save last sync time", zap.Error(err))
	}
}

func (s *Scheduler) LastSyncTime() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastSync == nil {
		return nil
	}
	t := *s.lastSync
	return &t
}

func (s *Scheduler) AutoSyncEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoSync
}

// SetAutoSync flips the global gate over all scheduled runs. Manual
// syncs are unaffected.
func (s *Scheduler) SetAutoSync(enabled bool) {
	s.mu.Lock()
	s.autoSync = enabled
	s.mu.Unlock()

	value := "true"
	if !enabled {
		value = "false"
	}
	if err := s.settings.Put(autoSyncKey, []byte(value)); err != nil {
		logger.Log.Warn("failed to save auto-sync flag", zap.Error(err))
	}
}
