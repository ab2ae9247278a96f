package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const (
	accessKeyHeader = "X-Access-Key"

	RoleAdmin  = "ADMIN"
	RoleFiscal = "FISCAL"
)

type loginRequest struct {
	AccessKey string `json:"access_key"`
	Role      string `json:"role"`
}

// handleLogin checks the shared floor key and echoes back the panel
// role the terminal asked for. There are no per-user accounts.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Role = strings.TrimSpace(req.Role)
	if req.Role == "" {
		req.Role = RoleAdmin
	}
	if req.Role != RoleAdmin && req.Role != RoleFiscal {
		writeError(w, http.StatusBadRequest, "invalid_request", "role must be ADMIN or FISCAL")
		return
	}
	if !h.keyMatches(req.AccessKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "wrong access key")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"role": req.Role})
}

func (h *Handler) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.keyMatches(r.Header.Get(accessKeyHeader)) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or wrong access key")
			return
		}
		next(w, r)
	}
}

func (h *Handler) keyMatches(key string) bool {
	expected := h.options.AccessKey
	if expected == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(expected)) == 1
}
