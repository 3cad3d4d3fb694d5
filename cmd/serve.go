package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"s3sync/internal/daemon"
	"s3sync/internal/executor"
	"s3sync/internal/fsys"
	"s3sync/internal/logger"
	"s3sync/internal/scheduler"
	"s3sync/internal/settings"
	"s3sync/internal/storage"
	"s3sync/internal/store"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync scheduler daemon",
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	st, err := settings.Open(cfg.DBPath)
	if err != nil {
		return err
	}

	jobs := store.NewJobStore(st, cfg.DefaultSyncDir)
	jobs.Load()

	history := store.NewHistoryLog(st, cfg.HistoryLimit)
	history.Load()

	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		logger.Log.Warn("no credentials configured, sync runs will fail until access_key and secret_key are set")
	}

	client, err := storage.NewS3Client(cmd.Context(), storage.Credentials{
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Region:    cfg.Region,
		Endpoint:  cfg.Endpoint,
	})
	if err != nil {
		return err
	}

	sched := scheduler.New(jobs, history, executor.New(client, fsys.OS{}), st, scheduler.Options{
		TickInterval: time.Duration(cfg.TickIntervalSec) * time.Second,
		Tolerance:    time.Duration(cfg.ToleranceMinutes) * time.Minute,
	})
	sched.EnsureStarted()

	// Credential edits take effect without a restart.
	viper.OnConfigChange(func(e fsnotify.Event) {
		logger.Log.Info("config changed, refreshing credentials",
			zap.String("file", e.Name))

		if err := viper.Unmarshal(cfg); err != nil {
			logger.Log.Warn("failed to reload config", zap.Error(err))
			return
		}
		if err := client.UpdateCredentials(context.Background(), storage.Credentials{
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
		}); err != nil {
			logger.Log.Warn("failed to refresh credentials", zap.Error(err))
		}
	})
	viper.WatchConfig()

	srv := daemon.NewServer(sched, jobs, history, client, cfg.DaemonPort)
	srv.Start()

	logger.Log.Info("s3sync daemon started",
		zap.Int("jobs", len(jobs.All())),
		zap.Int("port", cfg.DaemonPort))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Log.Info("shutting down",
			zap.String("signal", sig.String()))
	case <-srv.StopCh():
		logger.Log.Info("stop requested via API")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
