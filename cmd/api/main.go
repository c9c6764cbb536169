package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/app"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/config"
	appHTTP "github.com/cmlabs-hris/leave-calendar-sync/internal/handler/http"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/cron"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

const (
	version         = "v1.0.0"
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialise application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	scheduler := cron.NewScheduler()
	syncJobs := cron.NewSyncJobs(a.SyncService, cfg.Sync.CronSchedule)
	if err := syncJobs.RegisterJobs(scheduler); err != nil {
		slog.Error("Failed to register cron jobs", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	var triggerAuth *jwtauth.JWTAuth
	if cfg.App.TriggerSecret != "" {
		triggerAuth = jwt.NewJWTService(cfg.App.TriggerSecret).JWTAuth()
	} else {
		slog.Warn("SYNC_TRIGGER_SECRET is not set, sync trigger endpoints are unauthenticated")
	}

	healthHandler := appHTTP.NewHealthHandler(map[string]appHTTP.HealthCheck{
		"database": a.Store.Ping,
		"calendar": func(ctx context.Context) error {
			_, err := a.Calendar.GetCalendar(ctx)
			return err
		},
	})
	syncHandler := appHTTP.NewSyncHandler(a.SyncService, a.Sage.Directory())
	mappingHandler := appHTTP.NewMappingHandler(a.Store.Repo, a.Location)
	calendarHandler := appHTTP.NewCalendarHandler(a.Calendar, a.Location)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:                cfg.App.Env,
			Version:            version,
			LogLevel:           cfg.SlogLevel(),
			CORSAllowedOrigins: cfg.App.CORSAllowedOrigins,
			TriggerAuth:        triggerAuth,
		},
		syncHandler,
		mappingHandler,
		calendarHandler,
		healthHandler,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
}
