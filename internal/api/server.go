// Package api wires the chi router for the callable HTTP surface.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/civiclens/civiclens-data/internal/api/handler"
	"github.com/civiclens/civiclens-data/internal/cache"
	"github.com/civiclens/civiclens-data/internal/config"
	"github.com/civiclens/civiclens-data/internal/db"
	"github.com/civiclens/civiclens-data/internal/provider"
	"github.com/civiclens/civiclens-data/internal/provider/openstates"
	"github.com/civiclens/civiclens-data/internal/store"
	"github.com/civiclens/civiclens-data/internal/syncer"
)

// NewRouter creates and configures the chi router with all middleware and
// routes.
func NewRouter(
	pool *db.Pool,
	st *store.Store,
	appCache *cache.Cache,
	cfg *config.Config,
	sync *syncer.Syncer,
	sources []provider.StateSource,
	national *openstates.Client,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Authorization", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, st, appCache, cfg, sync, sources, national, logger)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Get("/status", h.SystemStatus)
		r.Get("/reps", h.FindReps)
		r.Get("/legislation/{legislature}", h.ListBills)
		r.Get("/legislation/{legislature}/{billID}", h.GetBill)

		// Admin-gated
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Post("/legislation/{legislature}", h.AddBill)
			r.Delete("/legislation/{legislature}/{billID}", h.RemoveBill)
			r.Post("/admin/roles", h.GrantAdminRole)
			r.Delete("/admin/roles", h.RevokeAdminRole)
			r.Post("/sync", h.TriggerSync)
		})
	})

	return r
}
