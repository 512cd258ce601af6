package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/expense-service/internal/config"
	"github.com/Dan9191/expense-service/internal/handler"
	"github.com/Dan9191/expense-service/internal/integrations/cbr"
	"github.com/Dan9191/expense-service/internal/repository"
	"github.com/Dan9191/expense-service/internal/scheduler"
	"github.com/Dan9191/expense-service/internal/service"
	"github.com/Dan9191/expense-service/internal/session"
	"github.com/Dan9191/expense-service/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	cbrClient := cbr.NewCBRClient(cfg, logger)
	svc, err := service.NewService(repo, cbrClient, logger, cfg)
	if err != nil {
		logger.Fatalf("Failed to create service: %v", err)
	}
	sessions := session.NewRegistry(cfg.LoginRoute, logger)
	h := handler.NewHandler(svc, sessions, cfg, logger)

	// Background jobs
	sched := scheduler.NewScheduler(ctx, svc, email.NewSender(cfg, logger), sessions, cfg.SessionIdleTimeout, logger)
	if err := sched.RegisterAll(cfg.Schedule.BudgetAlertCron, cfg.Schedule.SessionSweepCron); err != nil {
		logger.Fatalf("Failed to register jobs: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	h.Routes(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
