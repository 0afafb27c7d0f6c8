package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/ducslabs/leetboard/internal/api/handler"
	"github.com/ducslabs/leetboard/internal/cache"
	"github.com/ducslabs/leetboard/internal/config"
	"github.com/ducslabs/leetboard/internal/dashboard"
	"github.com/ducslabs/leetboard/internal/tracker"
)

// NewRouter creates and configures the chi router with all middleware and
// routes.
func NewRouter(store *dashboard.Store, client *tracker.Client, appCache *cache.Cache, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(store, client, appCache, cfg)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/upstream", h.HealthCheckUpstream)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Rankings
		r.Get("/views", h.GetViews)
		r.Get("/rankings/{view}", h.GetRankings)

		// Actions
		r.Post("/users", h.AddUser)
		r.Post("/actions/track", h.TrackDaily)
		r.Post("/actions/refresh-total", h.RefreshStats)
		r.Post("/actions/refresh-contests", h.RefreshContests)
	})

	return r
}
