package middleware

import (
	"context"
	"net/http"

	"github.com/rohits-web03/cardealer/internal/auth"
	"github.com/rohits-web03/cardealer/internal/utils"
)

type contextKey string

const claimsKey contextKey = "sessionClaims"

// Auth resolves the session cookie and stores the verified claims on the
// request context. Absence or invalidity yields a uniform 401.
func Auth(sessions *auth.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := sessions.FromRequest(r)
			if err != nil {
				utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
					Success: false,
					Message: "Not authenticated",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole rejects sessions whose role does not match. API callers get an
// explicit 403; role-based redirects for page routes are the frontend's job.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
					Success: false,
					Message: "Not authenticated",
				})
				return
			}
			if claims.Role != role {
				utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
					Success: false,
					Message: "Access denied",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithClaims attaches session claims to a context.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the session claims set by Auth, or nil.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}
