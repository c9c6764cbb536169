package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/config"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/database"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/gcal"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/sage"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/repository/postgresql"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/repository/sqlite"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/service/integration"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/service/leavesync"
	"github.com/shopspring/decimal"
)

const initTimeout = time.Minute

// App holds the wired dependencies shared by the server and the CLI.
type App struct {
	Config      *config.Config
	Location    *time.Location
	Store       *Store
	Sage        *sage.Client
	Calendar    *gcal.Client
	SyncService leave.SyncService
}

// Store is the mapping repository plus the handle behind it.
type Store struct {
	Repo  leave.LeaveRequestCalendarEventRepository
	Ping  func(ctx context.Context) error
	Close func()
}

// New connects to the database, migrates it, loads the Sage directory and
// builds the sync service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg.Database, cfg.DatabaseURL())
	if err != nil {
		return nil, err
	}

	sageClient := sage.NewClient(cfg.Sage, PartOfDayConfig(cfg.Sync))
	initCtx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()
	if err := sageClient.Init(initCtx); err != nil {
		store.Close()
		return nil, fmt.Errorf("load sage directory: %w", err)
	}
	policies, employees := sageClient.Directory().Stats()
	slog.Info("Sage directory loaded", "policies", policies, "employees", employees)

	// The calendar client outlives ctx, so its token source must not be
	// tied to it.
	credentials, err := gcal.ServiceAccountOption(context.Background(), cfg.GoogleCalendar)
	if err != nil {
		store.Close()
		return nil, err
	}
	calendarClient, err := gcal.NewClient(context.Background(), cfg.GoogleCalendar.CalendarID, credentials)
	if err != nil {
		store.Close()
		return nil, err
	}
	slog.Info("Google Calendar client ready", "calendar_id", calendarClient.CalendarID())

	googleCalendar := integration.NewGoogleCalendarIntegration(calendarClient, cfg.GoogleCalendar.UpdateStrategy)
	syncService := leavesync.NewSyncService(
		sageClient,
		store.Repo,
		[]leave.IntegrationService{googleCalendar},
		leavesync.Config{
			LookaheadDays:    cfg.Sync.LookaheadDays,
			Concurrency:      cfg.Sync.Concurrency,
			Location:         loc,
			TestUsersEnabled: cfg.Sync.TestUsersEnabled,
			TestUsers:        cfg.Sync.TestUsers,
		},
	)

	return &App{
		Config:      cfg,
		Location:    loc,
		Store:       store,
		Sage:        sageClient,
		Calendar:    calendarClient,
		SyncService: syncService,
	}, nil
}

func (a *App) Close() {
	a.Store.Close()
}

// OpenStore opens and migrates the mapping store selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, dsn string) (*Store, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{
			Repo:  postgresql.NewLeaveRequestCalendarEventRepository(db),
			Ping:  db.Ping,
			Close: db.Close,
		}, nil

	case "sqlite":
		db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{
			Repo: sqlite.NewLeaveRequestCalendarEventRepository(db),
			Ping: db.PingContext,
			Close: func() {
				if err := db.Close(); err != nil {
					slog.Warn("Failed to close sqlite database", "error", err)
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

func PartOfDayConfig(cfg config.SyncConfig) leave.PartOfDayConfig {
	return leave.PartOfDayConfig{
		FirstPartStart:  cfg.FirstPartStart,
		SecondPartStart: cfg.SecondPartStart,
		DefaultHours:    decimal.NewFromFloat(cfg.PartDefaultHours),
	}
}
