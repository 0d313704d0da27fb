package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/civiclens/civiclens-data/internal/api/respond"
	"github.com/civiclens/civiclens-data/internal/merge"
	"github.com/civiclens/civiclens-data/internal/provider/nysenate"
	"github.com/civiclens/civiclens-data/internal/store"
)

type addBillRequest struct {
	ID string `json:"id"` // composite bill id, e.g. "S1234-2025"
}

// AddBill fetches a bill from the jurisdiction's state source and stores
// it. Admin only.
func (h *Handler) AddBill(w http.ResponseWriter, r *http.Request) {
	legislature := chi.URLParam(r, "legislature")

	var req addBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "Request body must include a bill id")
		return
	}
	if _, _, err := nysenate.ParseBillID(req.ID); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_ARGUMENT", "Malformed bill id", err.Error())
		return
	}

	source, ok := h.sources[legislature]
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No adapter registered for "+legislature)
		return
	}

	results := source.GetBills(r.Context(), []string{req.ID})
	if results[0].Err != nil {
		respond.WriteErrorDetail(w, http.StatusBadGateway, "UPSTREAM", "Bill fetch failed", results[0].Err.Error())
		return
	}

	payload := merge.BuildBillUpdate(results[0].Bill, time.Now())
	if err := h.store.MergeBill(r.Context(), legislature, req.ID, payload); err != nil {
		h.logger.Error("Bill write failed", "legislature", legislature, "bill", req.ID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Bill write failed")
		return
	}

	h.logger.Info("Bill added", "legislature", legislature, "bill", req.ID, "by", caller(r))
	respond.WriteJSONObject(w, http.StatusCreated, map[string]interface{}{
		"legislature": legislature,
		"id":          req.ID,
		"title":       results[0].Bill.Title,
	})
}

// RemoveBill deletes a tracked bill. Admin only.
func (h *Handler) RemoveBill(w http.ResponseWriter, r *http.Request) {
	legislature := chi.URLParam(r, "legislature")
	billID := chi.URLParam(r, "billID")

	if err := h.store.DeleteBill(r.Context(), legislature, billID); err != nil {
		h.logger.Error("Bill delete failed", "legislature", legislature, "bill", billID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Bill delete failed")
		return
	}

	h.logger.Info("Bill removed", "legislature", legislature, "bill", billID, "by", caller(r))
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"legislature": legislature,
		"id":          billID,
		"removed":     true,
	})
}

// GetBill returns one tracked bill document.
func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	legislature := chi.URLParam(r, "legislature")
	billID := chi.URLParam(r, "billID")

	bill, err := h.store.GetBill(r.Context(), legislature, billID)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Bill not tracked")
		return
	}
	if err != nil {
		h.logger.Error("Bill fetch failed", "legislature", legislature, "bill", billID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Bill fetch failed")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, bill)
}

// ListBills returns all tracked bills for a legislature.
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	legislature := chi.URLParam(r, "legislature")

	bills, err := h.store.ListBills(r.Context(), legislature)
	if err != nil {
		h.logger.Error("Bill list failed", "legislature", legislature, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Bill list failed")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"legislature": legislature,
		"count":       len(bills),
		"bills":       bills,
	})
}
