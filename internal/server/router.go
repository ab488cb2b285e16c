package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/api"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/api/handlers"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/api/middleware"
)

const maxBodyBytes int64 = 64 * 1024

type RouterConfig struct {
	RecommendationHandler *handlers.RecommendationHandler
	HealthHandler         *handlers.HealthHandler

	AllowAnonymous     bool
	CORSAllowedOrigins []string

	// RateLimitRequests per RateLimitWindow per client IP; zero disables it.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", middleware.UserIDHeader},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	health := cfg.HealthHandler
	if health == nil {
		health = handlers.NewHealthHandler(nil)
	}
	r.Get("/health", health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			window := cfg.RateLimitWindow
			if window <= 0 {
				window = time.Minute
			}
			r.Use(httprate.Limit(
				cfg.RateLimitRequests,
				window,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					api.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
				}),
			))
		}
		r.Use(middleware.Identity(cfg.AllowAnonymous))
		r.Use(middleware.JSONBody(maxBodyBytes))

		r.Post("/recommendations", cfg.RecommendationHandler.Recommend)
	})

	return r
}
