package daemon

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"s3sync/internal/logger"
	"s3sync/internal/model"
	"s3sync/internal/scheduler"
	"s3sync/internal/storage"
	"s3sync/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server is the in-process control surface: the CLI (and any UI layer)
// manages jobs, triggers syncs and reads history through it.
type Server struct {
	echo    *echo.Echo
	sched   *scheduler.Scheduler
	jobs    *store.JobStore
	history *store.HistoryLog
	storage storage.Client
	port    int
	stopCh  chan struct{}
}

func NewServer(sched *scheduler.Scheduler, jobs *store.JobStore, history *store.HistoryLog, st storage.Client, port int) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		sched:   sched,
		jobs:    jobs,
		history: history,
		storage: st,
		port:    port,
		stopCh:  make(chan struct{}, 1),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	// For the entire daemon
	s.echo.GET("/status", s.handleStatus)
	s.echo.POST("/status/autosync", s.handleAutoSync)
	s.echo.POST("/stop", s.handleStop)

	// For a specific job
	g := s.echo.Group("/jobs")
	g.GET("", s.handleListJobs)
	g.POST("", s.handleAddJob)
	g.DELETE("/:id", s.handleRemoveJob)
	g.POST("/:id/toggle", s.handleToggleJob)
	g.POST("/:id/sync", s.handleSyncNow)

	// History and remote buckets
	s.echo.GET("/history", s.handleHistory)
	s.echo.GET("/buckets", s.handleBuckets)
}

func (s *Server) Start() {
	go func() {
		addr := ":" + strconv.Itoa(s.port)
		logger.Log.Info("daemon server started",
			zap.String("addr", addr))

		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("daemon server error", zap.Error(err))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	s.sched.Stop()
	return s.echo.Shutdown(ctx)
}

func (s *Server) StopCh() <-chan struct{} {
	return s.stopCh
}

type statusResponse struct {
	Running  bool       `json:"running"`
	AutoSync bool       `json:"auto_sync"`
	LastSync *time.Time `json:"last_sync"`
	Jobs     int        `json:"jobs"`
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{
		Running:  s.sched.Running(),
		AutoSync: s.sched.AutoSyncEnabled(),
		LastSync: s.sched.LastSyncTime(),
		Jobs:     len(s.jobs.All()),
	})
}

func (s *Server) handleAutoSync(c echo.Context) error {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "enabled required"})
	}

	s.sched.SetAutoSync(req.Enabled)
	return c.JSON(http.StatusOK, map[string]bool{"auto_sync": req.Enabled})
}

func (s *Server) handleStop(c echo.Context) error {
	s.stopCh <- struct{}{}
	return c.JSON(http.StatusOK, map[string]string{"status": "stopping"})
}

func (s *Server) handleListJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"jobs": s.jobs.All(),
	})
}

type addJobRequest struct {
	LocalFolderPath string `json:"local_folder_path"`
	BucketName      string `json:"bucket_name"`
	Prefix          string `json:"prefix"`
	SyncTime        string `json:"sync_time"`
}

func (s *Server) handleAddJob(c echo.Context) error {
	var req addJobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	syncTime, err := model.ParseClockTime(req.SyncTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	job, err := model.NewSyncJob(req.LocalFolderPath, req.BucketName, req.Prefix, syncTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := s.jobs.Add(job); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	// Adding a job from any entry point must leave exactly one scheduler
	// running.
	s.sched.EnsureStarted()

	return c.JSON(http.StatusCreated, job)
}

func (s *Server) handleRemoveJob(c echo.Context) error {
	if err := s.jobs.Remove(c.Param("id")); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleToggleJob(c echo.Context) error {
	id := c.Param("id")
	if err := s.jobs.Toggle(id); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	job, _ := s.jobs.Get(id)
	return c.JSON(http.StatusOK, job)
}

func (s *Server) handleSyncNow(c echo.Context) error {
	result, err := s.sched.SyncNow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleHistory(c echo.Context) error {
	return c.JSON(http.StatusOK, s.history.All())
}

func (s *Server) handleBuckets(c echo.Context) error {
	buckets, err := s.storage.ListBuckets(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, buckets)
}
