package middleware

import (
	"context"
	"net/http"
	"strings"

	"mc-exchange-api/internal/model"
	"mc-exchange-api/pkg/apierror"
)

// AuthUserKey is the key for storing the authenticated user in request context.
const AuthUserKey contextKey = "auth_user"

// Authenticator resolves bearer tokens to users. Implemented by
// service.AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.AuthUser, error)
}

// NewAuthMiddleware creates a bearer-token authentication middleware with
// injected dependencies. No global state: the authenticator is passed via
// closure.
func NewAuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, apierror.Unauthorized("No authorization token provided"))
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, apierror.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), AuthUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route group to admin callers. Must run inside the
// auth middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetAuthUser(r.Context())
		if user == nil {
			writeError(w, apierror.Unauthorized("No auth provided"))
			return
		}
		if !user.IsAdmin() {
			writeError(w, apierror.Forbidden("Admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewRelayKeyMiddleware gates the ingestion endpoint to configured relay
// API keys. An empty key list leaves the endpoint open, matching the
// original deployment.
func NewRelayKeyMiddleware(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(keys) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				writeError(w, apierror.Unauthorized("X-API-Key header required"))
				return
			}
			for _, k := range keys {
				if apiKey == k {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, apierror.Unauthorized("Invalid API key"))
		})
	}
}

// GetAuthUser retrieves the authenticated user from request context.
func GetAuthUser(ctx context.Context) *model.AuthUser {
	if user, ok := ctx.Value(AuthUserKey).(*model.AuthUser); ok {
		return user
	}
	return nil
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// writeError writes an API error response.
func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}
