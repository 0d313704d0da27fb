package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiclens/civiclens-data/internal/api/respond"
)

func adminRequest(t *testing.T, callerEmail, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/roles", strings.NewReader(body))
	return req.WithContext(context.WithValue(req.Context(), callerKey, callerEmail))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) respond.ErrorResponse {
	t.Helper()
	var resp respond.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRevokeAdminRoleSelfDemotion(t *testing.T) {
	h := &Handler{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	// The guard runs before any store access, so revoking yourself fails
	// fast regardless of backend state.
	rec := httptest.NewRecorder()
	h.RevokeAdminRole(rec, adminRequest(t, "admin@example.org", `{"email":"admin@example.org"}`))

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "FAILED_PRECONDITION", resp.Error.Code)
}

func TestRevokeAdminRoleSelfDemotionCaseInsensitive(t *testing.T) {
	h := &Handler{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	rec := httptest.NewRecorder()
	h.RevokeAdminRole(rec, adminRequest(t, "admin@example.org", `{"email":"Admin@Example.org"}`))

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestRoleRequestValidation(t *testing.T) {
	h := &Handler{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"empty email", `{"email":""}`},
		{"no at sign", `{"email":"nobody"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.RevokeAdminRole(rec, adminRequest(t, "admin@example.org", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
