package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/bridgeforms/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/bridgeforms/internal/http/middleware"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Submissions        *handlers.SubmissionHandler
	System             *handlers.SystemHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Submission routes only
	MaxBodyBytes int64
	Limiter      httpmiddleware.Limiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	system := cfg.System
	if system == nil {
		system = handlers.NewSystemHandler("", "", cfg.CORSAllowedOrigins)
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.Recoverer(logger))
	r.Use(middleware.Compress(5))
	r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins, logger))
	r.Use(httpmiddleware.RequestLogger(logger))

	r.NotFound(system.NotFound)
	r.MethodNotAllowed(system.MethodNotAllowed)

	// Public endpoints (health checks, banner, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/", system.Root)
		public.Get("/health", system.Health)
		public.Get("/api/cors-test", system.CORSTest)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Form submissions. Both the bare and /api-prefixed paths are served so
	// existing frontends keep working.
	if cfg.Submissions != nil {
		r.Group(func(forms chi.Router) {
			forms.Use(httpmiddleware.BodyLimit(cfg.MaxBodyBytes))
			forms.Use(httpmiddleware.RateLimit(cfg.Limiter, logger))

			for _, prefix := range []string{"", "/api"} {
				forms.Post(prefix+"/contact", cfg.Submissions.SubmitContact)
				forms.Post(prefix+"/meet/schedule", cfg.Submissions.ScheduleConsultation)
			}
		})
	}

	return r
}
