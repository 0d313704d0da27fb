// Package handler provides HTTP handlers for all API endpoints. Handlers
// use the store and syncer directly — no service layer.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/civiclens/civiclens-data/internal/api/respond"
	"github.com/civiclens/civiclens-data/internal/auth"
	"github.com/civiclens/civiclens-data/internal/cache"
	"github.com/civiclens/civiclens-data/internal/config"
	"github.com/civiclens/civiclens-data/internal/db"
	"github.com/civiclens/civiclens-data/internal/external"
	"github.com/civiclens/civiclens-data/internal/provider"
	"github.com/civiclens/civiclens-data/internal/provider/openstates"
	"github.com/civiclens/civiclens-data/internal/store"
	"github.com/civiclens/civiclens-data/internal/syncer"
)

type contextKey string

// callerKey carries the authenticated caller's email through the request
// context.
const callerKey contextKey = "caller"

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool     *db.Pool
	store    *store.Store
	cache    *cache.Cache
	cfg      *config.Config
	sync     *syncer.Syncer
	sources  map[string]provider.StateSource
	national *openstates.Client
	geocoder *external.GeocodeService
	logger   *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(
	pool *db.Pool,
	st *store.Store,
	c *cache.Cache,
	cfg *config.Config,
	sync *syncer.Syncer,
	sources []provider.StateSource,
	national *openstates.Client,
	logger *slog.Logger,
) *Handler {
	byCode := make(map[string]provider.StateSource, len(sources))
	for _, s := range sources {
		byCode[s.Jurisdiction()] = s
	}
	return &Handler{
		pool:     pool,
		store:    st,
		cache:    c,
		cfg:      cfg,
		sync:     sync,
		sources:  byCode,
		national: national,
		geocoder: external.NewGeocodeService(),
		logger:   logger,
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "CivicLens Data API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if err := h.cache.Ping(r.Context()); err != nil {
		status = "unhealthy"
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"cache":     h.cache.Stats(r.Context()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// RequireAdmin gates a route group behind a valid bearer token whose email
// currently holds the admin claim. The claim is read from the store on
// every request so a revocation is immediate.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			respond.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Bearer token required")
			return
		}

		claims, err := auth.ParseToken([]byte(h.cfg.AuthSecret), token)
		if err != nil {
			respond.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or expired token")
			return
		}

		admin, err := h.store.IsAdmin(r.Context(), claims.Email)
		if err != nil {
			h.logger.Error("Admin lookup failed", "email", claims.Email, "error", err)
			respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Authorization check failed")
			return
		}
		if !admin {
			respond.WriteError(w, http.StatusForbidden, "PERMISSION_DENIED", "Admin role required")
			return
		}

		ctx := context.WithValue(r.Context(), callerKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// caller returns the authenticated email set by RequireAdmin.
func caller(r *http.Request) string {
	email, _ := r.Context().Value(callerKey).(string)
	return email
}
