package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/handler/http/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env                string
	Version            string
	LogLevel           slog.Level
	CORSAllowedOrigins []string
	// TriggerAuth guards the mutating endpoints. Nil leaves them open.
	TriggerAuth *jwtauth.JWTAuth
}

func NewRouter(
	cfg RouterConfig,
	syncHandler SyncHandler,
	mappingHandler MappingHandler,
	calendarHandler CalendarHandler,
	healthHandler HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "leave-calendar-sync"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			MaxAge:           300,
		}))
	}

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", healthHandler.Healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/mappings", func(r chi.Router) {
			r.Get("/", mappingHandler.List)
			r.Get("/{id}", mappingHandler.Get)
		})

		r.Route("/calendar/events", func(r chi.Router) {
			r.Get("/", calendarHandler.ListEvents)
			r.Get("/{id}", calendarHandler.GetEvent)
		})

		// Requires a trigger token when a secret is configured
		r.Group(func(r chi.Router) {
			if cfg.TriggerAuth != nil {
				r.Use(jwtauth.Verifier(cfg.TriggerAuth))
				r.Use(middleware.TriggerRequired(cfg.TriggerAuth))
			}

			r.Post("/sync", syncHandler.Trigger)
			r.Post("/directory/reload", syncHandler.ReloadDirectory)
		})
	})

	return r
}
