package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ratemyra/api/internal/auth"
)

// RequireAdmin is a middleware that gates the moderation surface. It
// validates the Bearer token and requires the admin role; on success
// the token subject is stored in the request context for logging and
// rate limit keying.
func RequireAdmin(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, r, "Missing or malformed Authorization header")
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				unauthorized(w, r, "Invalid or expired token")
				return
			}
			if !claims.IsAdmin() {
				writeErrorJSON(w, r, http.StatusForbidden, "forbidden", "Admin role required")
				return
			}

			ctx := SetSubject(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	writeErrorJSON(w, r, http.StatusUnauthorized, "auth_failed", message)
}

// writeErrorJSON emits the same error envelope the handler layer uses.
// The middleware package cannot import the api package, so the shape is
// mirrored here.
func writeErrorJSON(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	UpdateResponseContext(w, SetErrorCode(r.Context(), code))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
