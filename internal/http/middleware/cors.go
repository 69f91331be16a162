package middleware

import (
	"net/http"
	"strings"

	"github.com/wolfman30/bridgeforms/pkg/logging"
)

// CORS provides an allowlist-based CORS middleware.
// Requests without an Origin header (server-to-server, curl) pass through.
// Requests from an origin outside the allowlist get 403 with a JSON body.
// If allowedOrigins contains "*", any Origin is echoed back.
func CORS(allowedOrigins []string, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	allowAny := false
	allow := map[string]struct{}{}
	listed := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAny = true
			continue
		}
		allow[origin] = struct{}{}
		listed = append(listed, origin)
	}

	allowedHeaders := "Content-Type, Authorization, Content-Length, X-Requested-With, X-CSRF-Token, Accept, Origin"
	allowedMethods := "GET, POST, PUT, PATCH, DELETE, OPTIONS"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !allowAny && !isAllowedOrigin(allow, origin) {
				logger.Warn("cors blocked", "origin", origin, "path", r.URL.Path)
				writeJSON(w, http.StatusForbidden, map[string]any{
					"success":        false,
					"error":          "CORS: Origin not allowed",
					"allowedOrigins": listed,
				})
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Max-Age", "86400")

			// Handle preflight requests.
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isAllowedOrigin(allow map[string]struct{}, origin string) bool {
	_, ok := allow[origin]
	return ok
}
