// Package executor runs a single sync pass for one job: enumerate the
// local folder and upload each regular file to the job's bucket/prefix.
package executor

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"s3sync/internal/fsys"
	"s3sync/internal/logger"
	"s3sync/internal/model"
	"s3sync/internal/storage"

	"go.uber.org/zap"
)

type Executor struct {
	storage storage.Client
	fs      fsys.FS
}

func New(st storage.Client, fs fsys.FS) *Executor {
	return &Executor{storage: st, fs: fs}
}

// Run uploads every regular file in the job's folder and aggregates
// per-file outcomes. Individual upload failures are recorded and counted
// but do not fail the run; only a top-level error (unreadable folder)
// produces a failed result. Never returns an error to the caller.
func (e *Executor) Run(ctx context.Context, job model.SyncJob) model.SyncRunResult {
	startedAt := time.Now()

	logger.Log.Info("sync run started",
		zap.String("job", job.ID),
		zap.String("folder", job.LocalFolderPath),
		zap.String("bucket", job.BucketName),
		zap.String("prefix", job.Prefix))

	if !e.fs.DirExists(job.LocalFolderPath) {
		err := fmt.Errorf("not a readable directory: %s", job.LocalFolderPath)
		logger.Log.Error("sync run failed",
			zap.String("job", job.ID),
			zap.Error(err))
		return model.NewRunFailure(job, startedAt, err)
	}

	entries, err := e.fs.ListDir(job.LocalFolderPath)
	if err != nil {
		logger.Log.Error("sync run failed",
			zap.String("job", job.ID),
			zap.Error(err))
		return model.NewRunFailure(job, startedAt, err)
	}

	var (
		details  []string
		uploaded int
		failed   int
	)

	for _, entry := range entries {
		if entry.IsDir {
			continue
		}

		line, ok := e.uploadOne(ctx, job, entry.Name)
		details = append(details, line)
		if ok {
			uploaded++
		} else {
			failed++
		}
	}

	logger.Log.Info("sync run complete",
		zap.String("job", job.ID),
		zap.Int("uploaded", uploaded),
		zap.Int("failed", failed))

	return model.NewRunSuccess(job, startedAt, details, uploaded, failed)
}

// uploadOne sends a single file and returns its outcome line. The key is
// the bare file name for an empty prefix, otherwise prefix + "/" + name;
// a trailing slash already on the prefix is kept as-is.
func (e *Executor) uploadOne(ctx context.Context, job model.SyncJob, name string) (string, bool) {
	localPath := filepath.Join(job.LocalFolderPath, name)

	data, err := e.fs.ReadFile(localPath)
	if err != nil {
		return fmt.Sprintf("failed %s: %v", name, err), false
	}

	key := name
	if job.Prefix != "" {
		key = job.Prefix + "/" + name
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if err := e.storage.PutObject(ctx, job.BucketName, key, data, contentType); err != nil {
		return fmt.Sprintf("failed %s: %v", name, err), false
	}

	return fmt.Sprintf("uploaded %s (%d bytes)", name, len(data)), true
}
