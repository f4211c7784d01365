package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
	"github.com/Bilalsajai1/envProject-sub000/internal/shared"
)

const oidcStateCookie = "oidc_state"

// Handler wires HTTP endpoints for authentication and the current-principal
// read models.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	sessions   *shared.SessionManager
	loader     *authz.Loader
	aggregator *authz.Aggregator
	oidc       *OIDC // nil when no provider is configured
	validator  *validator.Validate
	flight     singleflight.Group
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, loader *authz.Loader, aggregator *authz.Aggregator, oidc *OIDC) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		sessions:   sessions,
		loader:     loader,
		aggregator: aggregator,
		oidc:       oidc,
		validator:  validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	if h.oidc != nil {
		r.Get("/oidc/login", h.handleOIDCLogin)
		r.Get("/oidc/callback", h.handleOIDCCallback)
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cred, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	sess.Rotate()
	sess.SetEmail(cred.Email)

	expiresAt := time.Now().Add(h.sessions.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, cred.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"email": cred.Email})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
		h.sessions.Destroy(sess)
	}
	httpx.NoContent(w)
}

func (h *Handler) handleOIDCLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oidcStateCookie,
		Value:    state,
		Path:     "/auth/oidc",
		MaxAge:   int((5 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oidc.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) handleOIDCCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oidcStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "state mismatch")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "missing authorization code")
		return
	}

	email, err := h.oidc.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("oidc exchange", slog.Any("error", err))
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "token exchange failed")
		return
	}

	// The provider authenticated the user; make sure a matching active
	// principal exists before handing out a session.
	if _, err := h.loader.Load(r.Context(), email); err != nil {
		httpx.RespondError(w, err)
		return
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.Rotate()
		sess.SetEmail(email)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Me returns the identity and permission summary for the current principal.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := authz.IdentityFromContext(r.Context())
	if id == nil {
		httpx.RespondError(w, authz.ErrUnauthenticated)
		return
	}
	httpx.JSON(w, http.StatusOK, authz.PrincipalSummary{
		ID:          id.Principal.ID,
		Email:       id.Principal.Email,
		DisplayName: id.Principal.DisplayName,
		Profile:     id.Profile.Code,
		IsAdmin:     id.IsAdmin(),
		Permissions: id.Codes(),
	})
}

// AuthContext returns the full capability surface for the current principal.
// Concurrent builds for the same principal are collapsed into one.
func (h *Handler) AuthContext(w http.ResponseWriter, r *http.Request) {
	id := authz.IdentityFromContext(r.Context())
	if id == nil {
		httpx.RespondError(w, authz.ErrUnauthenticated)
		return
	}
	// Detached from the request context: the flight's result is shared with
	// collapsed callers, so one canceled request must not fail them all.
	buildCtx := context.WithoutCancel(r.Context())
	result, err, _ := h.flight.Do(id.Principal.Email, func() (any, error) {
		return h.aggregator.Build(buildCtx, id)
	})
	if err != nil {
		h.logger.Error("build auth context", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
