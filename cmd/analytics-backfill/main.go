package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tyno1/bitescout-api/internal/config"
	"github.com/Tyno1/bitescout-api/internal/services/analytics"
	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/storage/postgres"
)

// BackfillWorker periodically recomputes analytics for every food that has
// at least one tag. Request-time recomputation is last-write-wins, so a
// concurrent mutation can leave a stale snapshot behind; the sweep repairs
// that within one interval.
type BackfillWorker struct {
	storage    storage.Storage
	recomputer analytics.Recomputer
	interval   time.Duration
	logger     *slog.Logger
}

func NewBackfillWorker(st storage.Storage, interval time.Duration) *BackfillWorker {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &BackfillWorker{
		storage:    st,
		recomputer: analytics.New(st),
		interval:   interval,
		logger:     logger,
	}
}

func (bw *BackfillWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(bw.interval)
	defer ticker.Stop()

	bw.logger.Info("Analytics backfill worker started",
		"interval", bw.interval.String())

	// Run once immediately on startup
	bw.recomputeAll(ctx)

	for {
		select {
		case <-ctx.Done():
			bw.logger.Info("Analytics backfill worker shutting down")
			return
		case <-ticker.C:
			bw.recomputeAll(ctx)
		}
	}
}

func (bw *BackfillWorker) recomputeAll(ctx context.Context) {
	startTime := time.Now()

	bw.logger.Info("Starting analytics backfill sweep")

	foodIDs, err := bw.storage.ListTaggedFoodIDs(ctx)
	if err != nil {
		bw.logger.Error("Failed to list tagged food ids",
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds())
		return
	}

	var failed int
	for _, foodID := range foodIDs {
		if ctx.Err() != nil {
			return
		}
		if err := bw.recomputer.Recompute(ctx, foodID); err != nil {
			failed++
			bw.logger.Error("Failed to recompute analytics",
				"food_catalogue_id", foodID,
				"error", err.Error())
		}
	}

	duration := time.Since(startTime)

	bw.logger.Info("Completed analytics backfill sweep",
		"foods_total", len(foodIDs),
		"foods_failed", failed,
		"duration_ms", duration.Milliseconds(),
		"duration", duration.String())
}

func main() {
	// Load config
	cfg := config.MustLoad()

	// Initialize database connection
	db, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	slog.Info("Connected to Postgres database")

	// Create worker with 5-minute interval
	worker := NewBackfillWorker(db, 5*time.Minute)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Received shutdown signal")
		cancel()
	}()

	// Start the worker
	worker.Start(ctx)

	slog.Info("Analytics backfill worker stopped")
}
