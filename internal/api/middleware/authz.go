package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abdouthematrix/westcairostars/internal/api/response"
)

// RequireAdmin returns middleware that rejects identities outside an admin team with 403.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			identity := GetIdentity(r.Context())
			if identity == nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
				return
			}

			if !identity.IsAdmin {
				response.Err(w, http.StatusForbidden, "FORBIDDEN", "Admin team access required", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireTeamAccess returns middleware that rejects identities that may not
// access the team named by the URL parameter param. Admin teams pass.
func RequireTeamAccess(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			identity := GetIdentity(r.Context())
			if identity == nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
				return
			}

			if !identity.CanAccessTeam(chi.URLParam(r, param)) {
				response.Err(w, http.StatusForbidden, "FORBIDDEN", "Access to this team is not allowed", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
