package authz

import (
	"log/slog"
	"net/http"
	"strings"
)

// Middleware wires authorization guards for HTTP handlers. It expects an
// Identity to have been placed in the request context by the authentication
// boundary; a missing identity is treated as unauthenticated.
type Middleware struct {
	Logger *slog.Logger
}

// RequireIdentity ensures the request carries a resolved identity.
func (m Middleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()) == nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures the current identity has an admin profile.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		if id == nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		if !id.IsAdmin() {
			if m.Logger != nil {
				m.Logger.Warn("admin access denied",
					slog.String("email", id.Principal.Email),
					slog.String("path", r.URL.Path))
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAnyCode ensures the current identity holds at least one of the
// permission codes. Admin identities pass unconditionally.
func (m Middleware) RequireAnyCode(codes ...string) func(http.Handler) http.Handler {
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			normalized = append(normalized, code)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if id == nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if len(normalized) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			resolver := NewResolver(id)
			for _, code := range normalized {
				if resolver.HasPermissionCode(code) {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}
