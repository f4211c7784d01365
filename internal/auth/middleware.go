package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
	"github.com/Bilalsajai1/envProject-sub000/internal/shared"
)

// Authenticator resolves request credentials into an authz.Identity and
// stores it in the request context. Requests without credentials pass through
// anonymously; denying them is the job of the authorization guards further
// down the chain.
type Authenticator struct {
	Logger   *slog.Logger
	Loader   *authz.Loader
	Verifier TokenVerifier // nil disables bearer authentication
}

// Middleware authenticates via bearer token when one is presented, falling
// back to the cookie session.
func (a Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := a.resolveEmail(w, r)
		if !ok {
			return
		}
		if email == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := a.Loader.Load(r.Context(), email)
		if err != nil {
			switch {
			case errors.Is(err, authz.ErrUnauthenticated):
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			case errors.Is(err, authz.ErrForbidden):
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			default:
				if a.Logger != nil {
					a.Logger.Error("load identity", slog.String("email", email), slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(authz.ContextWithIdentity(r.Context(), identity)))
	})
}

// resolveEmail extracts the authenticated email from the request. The second
// return value is false when a response has already been written.
func (a Authenticator) resolveEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if raw, found := strings.CutPrefix(header, "Bearer "); found {
		if a.Verifier == nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return "", false
		}
		email, err := a.Verifier.VerifyEmail(r.Context(), strings.TrimSpace(raw))
		if err != nil {
			if a.Logger != nil {
				a.Logger.Warn("bearer token rejected", slog.Any("error", err))
			}
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return "", false
		}
		return email, true
	}

	if email, ok := shared.SessionEmailFromContext(r.Context()); ok {
		return email, true
	}
	return "", true
}
