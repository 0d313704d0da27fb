package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/civiclens/civiclens-data/internal/api/respond"
)

type roleRequest struct {
	Email string `json:"email"`
}

// GrantAdminRole sets the admin claim on a user. Admin only.
func (h *Handler) GrantAdminRole(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeRoleRequest(w, r)
	if !ok {
		return
	}

	if err := h.store.SetAdminRole(r.Context(), email, true); err != nil {
		h.logger.Error("Role grant failed", "email", email, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Role update failed")
		return
	}

	h.logger.Info("Admin role granted", "email", email, "by", caller(r))
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"email": email,
		"admin": true,
	})
}

// RevokeAdminRole clears the admin claim on a user. Admin only.
// Revoking your own role is rejected: an admin locking themselves out is
// never what they meant, and it risks leaving the system with no admins.
func (h *Handler) RevokeAdminRole(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeRoleRequest(w, r)
	if !ok {
		return
	}

	if strings.EqualFold(email, caller(r)) {
		respond.WriteError(w, http.StatusPreconditionFailed, "FAILED_PRECONDITION",
			"You cannot revoke your own admin role")
		return
	}

	if err := h.store.SetAdminRole(r.Context(), email, false); err != nil {
		h.logger.Error("Role revoke failed", "email", email, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Role update failed")
		return
	}

	h.logger.Info("Admin role revoked", "email", email, "by", caller(r))
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"email": email,
		"admin": false,
	})
}

func decodeRoleRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "Request body must be JSON")
		return "", false
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "A valid email is required")
		return "", false
	}
	return email, true
}
