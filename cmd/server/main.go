package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "portfolio-access-backend/internal/api/http"
	"portfolio-access-backend/internal/clock"
	"portfolio-access-backend/internal/config"
	"portfolio-access-backend/internal/jobs"
	"portfolio-access-backend/internal/logger"
	"portfolio-access-backend/internal/repository/memory"
	"portfolio-access-backend/internal/scheduler"
	"portfolio-access-backend/internal/security"
	"portfolio-access-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting portfolio access backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
	if cfg.Access.MasterPasswordHash != "" {
		logger.Warn("Bootstrap master password is enabled")
	}

	// All state lives in memory; a restart drops every pending request and
	// issued password.
	clk := clock.System()
	store := memory.NewStore(clk)

	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		cfg.Access.OwnerEmail,
		cfg.Access.SiteBaseURL,
	)

	accessSvc := service.NewAccessService(
		store.RequestRepository,
		store.CredentialRepository,
		emailSvc,
		clk,
		time.Duration(cfg.Access.PasswordTTLHours)*time.Hour,
		cfg.Access.MasterPasswordHash,
	)

	sessions := security.NewSessionManager(cfg.Session.Secret, time.Duration(cfg.Session.TTLHours)*time.Hour)

	jobRunner := jobs.NewJobRunner(
		store.RequestRepository,
		store.CredentialRepository,
		clk,
		time.Duration(cfg.Access.RequestRetentionDays)*24*time.Hour,
	)
	sched := scheduler.NewScheduler(jobRunner, cfg.Scheduler.Sweep)
	sched.Start()
	defer sched.Stop()

	handler := httpapi.NewGateHandler(accessSvc, emailSvc, sessions)
	router := httpapi.NewRouter(handler, cfg.Web.StaticDir)

	srv := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Shutdown complete")
}
