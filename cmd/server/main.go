package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/chesscoach/internal/api"
	"github.com/vytor/chesscoach/internal/config"
	"github.com/vytor/chesscoach/internal/db"
	"github.com/vytor/chesscoach/internal/logger"
	"github.com/vytor/chesscoach/internal/repository/sqlite"
	"github.com/vytor/chesscoach/internal/services"
	"github.com/vytor/chesscoach/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("ChessCoach Pattern Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("report_worker_count=%d", cfg.ReportWorkerCount)
	log.Debug("report_queue_size=%d", cfg.ReportQueueSize)
	log.Debug("batch_max_concurrent=%d", cfg.BatchMaxConcurrent)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	reportPool := worker.NewPool(cfg.ReportWorkerCount, cfg.ReportQueueSize)

	reportRepo := sqlite.NewReportRepository(database.DB)
	reportService := services.NewReportService(reportRepo, cfg.BatchMaxConcurrent)

	srv := &api.Server{
		DB:              database.DB,
		ReportService:   reportService,
		ReportPool:      reportPool,
		ReportListLimit: cfg.ReportListLimit,
	}

	ctx, cancel := context.WithCancel(context.Background())
	reportPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping report pool")
	reportPool.Stop()

	log.Info("===========================================")
	log.Info("ChessCoach Pattern Server Stopped")
	log.Info("===========================================")
}
