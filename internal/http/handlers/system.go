package handlers

import (
	"net/http"
	"strings"
	"time"
)

// SystemHandler serves liveness, banner and fallback routes.
type SystemHandler struct {
	serviceName    string
	environment    string
	allowedOrigins []string
	now            func() time.Time
}

// NewSystemHandler creates the system routes handler.
func NewSystemHandler(serviceName, environment string, allowedOrigins []string) *SystemHandler {
	if serviceName == "" {
		serviceName = "bridgeforms"
	}
	if environment == "" {
		environment = "development"
	}
	return &SystemHandler{
		serviceName:    serviceName,
		environment:    environment,
		allowedOrigins: allowedOrigins,
		now:            time.Now,
	}
}

// Health handles GET /health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "OK",
		"timestamp":   formatTimestamp(h.now()),
		"environment": h.environment,
	})
}

// Root handles GET /.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   h.serviceName + " API is running!",
		"timestamp": formatTimestamp(h.now()),
		"cors":      "Enabled for: " + strings.Join(h.allowedOrigins, ", "),
	})
}

// CORSTest handles GET /api/cors-test.
func (h *SystemHandler) CORSTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "CORS is working!",
		"timestamp": formatTimestamp(h.now()),
	})
}

// NotFound is the JSON 404 for unknown routes.
func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"success": false,
		"error":   "Route not found",
		"path":    r.URL.RequestURI(),
	})
}

// MethodNotAllowed is the JSON 405 for known paths hit with the wrong verb.
func (h *SystemHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
