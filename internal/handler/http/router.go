package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hc-portal-go/internal/config"
	"github.com/cmlabs-hris/hc-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hc-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// NewRouter wires every route. JWTService is nil when the API runs without
// authentication.
func NewRouter(cfg *config.Config, JWTService jwt.Service, workflowHandler WorkflowHandler, assessmentHandler AssessmentHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLogLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hc-portal"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	authenticated := func(r chi.Router) {
		if JWTService != nil {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
		}
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/workflow", func(r chi.Router) {
			// EventSource can't send headers; the stream authenticates with ?token=.
			r.Get("/events", workflowHandler.Stream)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Get("/", workflowHandler.Get)
				r.Post("/", workflowHandler.Post)
				r.Get("/export", workflowHandler.Export)
				r.Get("/events/token", workflowHandler.GetSSEToken)
			})
		})

		r.Route("/assessments", func(r chi.Router) {
			authenticated(r)
			r.Get("/", assessmentHandler.List)
			r.With(middleware.RequireRole(employee.RoleDIC)).Post("/", assessmentHandler.Create)
			r.Post("/{id}/approve", assessmentHandler.Approve)
			r.Post("/{id}/reject", assessmentHandler.Reject)
		})
	})
	return r
}

func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
