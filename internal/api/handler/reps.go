package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/civiclens/civiclens-data/internal/api/respond"
	"github.com/civiclens/civiclens-data/internal/cache"
	"github.com/civiclens/civiclens-data/internal/civic"
	"github.com/civiclens/civiclens-data/internal/external"
	"github.com/civiclens/civiclens-data/internal/merge"
	"github.com/civiclens/civiclens-data/internal/provider/openstates"
)

// FindReps geocodes a free-text address, asks the national source which
// districts contain the point, and returns the stored state legislators
// for those chamber+district pairs.
func (h *Handler) FindReps(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "address query parameter is required")
		return
	}

	cacheKey := "reps:" + strings.ToLower(address)
	if data, ok := h.cache.Get(r.Context(), cacheKey); ok {
		etag := cache.ComputeETag(data)
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLReps, true)
		return
	}

	location, err := h.lookupLocation(r, address)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "GEOCODE_FAILED",
			"Could not geocode address", err.Error())
		return
	}

	people, err := h.national.PeopleByLocation(r.Context(), location.Lat, location.Lng)
	if err != nil {
		h.logger.Error("Representative lookup failed", "address", address, "error", err)
		respond.WriteError(w, http.StatusBadGateway, "UPSTREAM", "Representative lookup failed")
		return
	}

	reps := h.matchStoredLegislators(r, people)

	body, err := json.Marshal(map[string]interface{}{
		"address":         address,
		"matched_address": location.Matched,
		"count":           len(reps),
		"reps":            reps,
	})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Response encoding failed")
		return
	}

	etag := h.cache.Set(r.Context(), cacheKey, body, cache.TTLReps)
	respond.WriteJSON(w, body, etag, cache.TTLReps, false)
}

// lookupLocation geocodes with a cache in front; addresses do not move.
func (h *Handler) lookupLocation(r *http.Request, address string) (external.Location, error) {
	cacheKey := "geocode:" + strings.ToLower(address)
	if data, ok := h.cache.Get(r.Context(), cacheKey); ok {
		var loc external.Location
		if err := json.Unmarshal(data, &loc); err == nil {
			return loc, nil
		}
	}

	loc, err := h.geocoder.Geocode(r.Context(), address)
	if err != nil {
		return external.Location{}, err
	}

	if data, err := json.Marshal(loc); err == nil {
		h.cache.Set(r.Context(), cacheKey, data, cache.TTLGeocode)
	}
	return loc, nil
}

// matchStoredLegislators resolves state-level people from the national
// source against the stored legislator documents of every registered
// jurisdiction, by the same chamber+district key the syncer uses.
func (h *Handler) matchStoredLegislators(r *http.Request, people []openstates.Person) []civic.Legislator {
	var reps []civic.Legislator

	for code := range h.sources {
		known, err := h.store.ListLegislators(r.Context(), code)
		if err != nil {
			h.logger.Warn("Legislator list failed during reps lookup", "legislature", code, "error", err)
			continue
		}
		index := merge.LegislatorIndex(known)

		for _, p := range people {
			if p.Juris.Classification != "state" {
				continue
			}
			chamber := civic.ChamberName(p.Juris.Classification, p.CurrentRole.OrgClassification)
			id, ok := index[civic.CosponsorKey(chamber, p.CurrentRole.District.String())]
			if !ok {
				continue
			}
			reps = append(reps, known[id])
		}
	}

	return reps
}
