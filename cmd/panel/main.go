package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/usermanager/internal/config"
	"github.com/cmlabs-hris/usermanager/internal/handler/web"
	"github.com/cmlabs-hris/usermanager/internal/pkg/backend"
	"github.com/cmlabs-hris/usermanager/internal/pkg/cron"
	"github.com/cmlabs-hris/usermanager/internal/pkg/jwt"
	"github.com/cmlabs-hris/usermanager/internal/pkg/logging"
	"github.com/cmlabs-hris/usermanager/internal/service/dashboard"
	sessionService "github.com/cmlabs-hris/usermanager/internal/service/session"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	if err := cfg.ValidatePanel(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logger := logging.New(os.Stdout, "usermanager-panel", version, cfg.App.Env, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := backend.NewClient(cfg.Panel.BackendBaseURL, cfg.Panel.BackendTimeout)
	if err != nil {
		log.Fatal("Failed to initialize backend client: ", err)
	}

	jwtService := jwt.NewJWTService(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.CookieSecure)
	sessions := sessionService.NewManager(jwtService)
	workspaces := dashboard.NewStore(client, cfg.Session.TTL)

	scheduler := cron.NewScheduler()
	cron.NewJanitorJobs(workspaces, jwtService).RegisterJobs(scheduler, cfg.Panel.JanitorInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	authHandler := web.NewAuthHandler(client, sessions, workspaces)
	dashboardHandler := web.NewDashboardHandler(workspaces, cfg.Panel.Layout)

	router := web.NewRouter(
		logger,
		sessions,
		web.CSRFOptions{Key: []byte(cfg.Panel.CSRFKey), Secure: cfg.Session.CookieSecure},
		authHandler,
		dashboardHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Panel.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Panel running", "addr", "http://localhost"+server.Addr, "backend", cfg.Panel.BackendBaseURL, "layout", cfg.Panel.Layout)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
	slog.Info("Panel stopped")
}
