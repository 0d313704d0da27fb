package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/civiclens/civiclens-data/internal/api/respond"
	"github.com/civiclens/civiclens-data/internal/cache"
)

// SystemStatus reports the jurisdiction codes the backend currently has
// adapters registered for, plus the data-driven set of legislatures in
// the store. Cached briefly; the tracked set only changes on admin action.
func (h *Handler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "status"
	if data, ok := h.cache.Get(r.Context(), cacheKey); ok {
		etag := cache.ComputeETag(data)
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLStatus, true)
		return
	}

	tracked, err := h.store.ListLegislatures(r.Context())
	if err != nil {
		h.logger.Error("Legislature enumeration failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Legislature enumeration failed")
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"registered": h.sync.RegisteredJurisdictions(),
		"tracked":    tracked,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Response encoding failed")
		return
	}

	etag := h.cache.Set(r.Context(), cacheKey, body, cache.TTLStatus)
	respond.WriteJSON(w, body, etag, cache.TTLStatus, false)
}

// TriggerSync runs a full sync pass synchronously and returns the complete
// per-jurisdiction result array, warnings and errors included, so partial
// failures are diagnosable without log access. Admin only.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Manual sync triggered", "by", caller(r))

	report, err := h.sync.Run(r.Context())
	if err != nil {
		// Only the jurisdiction enumeration can fail the whole run.
		h.logger.Error("Manual sync failed", "error", err)
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "INTERNAL", "Sync run failed", err.Error())
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, report)
}
