package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/campustrack/internal/api"
	"github.com/your-org/campustrack/internal/api/handlers"
	"github.com/your-org/campustrack/internal/api/ws"
	"github.com/your-org/campustrack/internal/backend/canned"
	"github.com/your-org/campustrack/internal/backend/remote"
	"github.com/your-org/campustrack/internal/config"
	"github.com/your-org/campustrack/internal/observability"
	"github.com/your-org/campustrack/internal/queue"
	"github.com/your-org/campustrack/internal/storage"
	"github.com/your-org/campustrack/internal/tracking"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	closeLog := observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	defer closeLog()

	slog.Info("starting campustrack API service", "port", cfg.Server.Port, "backend", cfg.Backend.Mode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]handlers.Check{}

	// Snapshot source and search backend
	cannedBackend := canned.New(canned.Delays{
		Load: cfg.Canned.LoadDelay,
		Face: cfg.Canned.FaceDelay,
		ID:   cfg.Canned.IDDelay,
		Time: cfg.Canned.TimeDelay,
	})
	var (
		source  tracking.Source  = cannedBackend
		backend tracking.Backend = cannedBackend
	)
	switch cfg.Backend.Mode {
	case config.BackendRemote:
		client := remote.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
		source, backend = client, client
	case config.BackendPostgres:
		db, err := storage.NewPostgresStore(ctx, cfg.Database)
		if err != nil {
			slog.Error("connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		source = db
		checks["postgres"] = db.Ping
	}

	store := tracking.NewDataStore(source, tracking.LoadConfig{
		MaxAttempts: cfg.Snapshot.MaxAttempts,
		RetryWait:   cfg.Snapshot.RetryWait,
	})
	engine := tracking.NewEngine(backend, cfg.Search.HistorySize)

	// WebSocket hub
	hub := ws.NewHub(ws.HubConfig{
		Filter:       api.FilterFor(store),
		Debounce:     cfg.Search.WSDebounce,
		DismissAfter: cfg.Notify.DismissAfter,
	})
	go hub.Run(ctx)

	snapshotH := handlers.NewSnapshotHandler(store, hub)
	if _, err := snapshotH.Reload(ctx); err != nil {
		slog.Error("initial snapshot load", "error", err)
	}

	// Probe archive (optional)
	var probes handlers.ProbeStore
	if cfg.MinIO.Endpoint != "" {
		minioStore, err := storage.NewMinIOStore(cfg.MinIO)
		if err != nil {
			slog.Error("connect to minio", "error", err)
			os.Exit(1)
		}
		if err := minioStore.EnsureBucket(ctx); err != nil {
			slog.Warn("ensure minio bucket", "error", err)
		}
		probes = minioStore
		checks["minio"] = minioStore.Ping
	}

	// NATS (optional): search audit trail and snapshot refresh notices
	if cfg.NATS.URL != "" {
		producer, err := queue.NewProducer(cfg.NATS.URL)
		if err != nil {
			slog.Error("connect to nats", "error", err)
			os.Exit(1)
		}
		defer producer.Close()

		if err := producer.EnsureStreams(ctx); err != nil {
			slog.Warn("ensure nats streams", "error", err)
		}
		engine.SetPublisher(producer)
		checks["nats"] = func(context.Context) error { return producer.Ping() }

		consumer, err := queue.NewConsumer(cfg.NATS.URL)
		if err != nil {
			slog.Error("create snapshot consumer", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()

		throttle := tracking.NewThrottle(cfg.Snapshot.RefreshThrottle)
		defer throttle.Stop()
		err = consumer.ConsumeSnapshotUpdates(ctx, "api-snapshots", snapshotH.NoticeHandler(throttle))
		if err != nil {
			slog.Warn("start snapshot consumer", "error", err)
		}
	}

	// Setup router
	router := api.NewRouter(api.RouterConfig{
		Store:       store,
		Engine:      engine,
		Hub:         hub,
		Probes:      probes,
		Checks:      checks,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("API server stopped")
}
