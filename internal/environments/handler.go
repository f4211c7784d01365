package environments

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
	"github.com/Bilalsajai1/envProject-sub000/internal/shared"
)

// Handler wires HTTP endpoints for environments.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	audit     *shared.AuditLogger
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, audit *shared.AuditLogger) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		audit:     audit,
		validator: validator.New(),
	}
}

// MountRoutes registers the routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listByProject)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createEnvironmentRequest struct {
	ProjectID int64  `json:"project_id" validate:"required"`
	TypeID    int64  `json:"environment_type_id" validate:"required"`
	TypeCode  string `json:"environment_type_code" validate:"required"`
	Name      string `json:"name" validate:"required"`
	URL       string `json:"url" validate:"omitempty,url"`
}

type updateEnvironmentRequest struct {
	Name     string `json:"name" validate:"required"`
	URL      string `json:"url" validate:"omitempty,url"`
	IsActive bool   `json:"is_active"`
}

func (h *Handler) listByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.ParseInt(r.URL.Query().Get("project_id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "project_id query parameter is required")
		return
	}
	resolver := authz.ResolverFromContext(r.Context())
	list, err := h.service.ListByProject(r.Context(), resolver, projectID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.environmentID(w, r)
	if !ok {
		return
	}
	resolver := authz.ResolverFromContext(r.Context())
	env, err := h.service.Get(r.Context(), resolver, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, env)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createEnvironmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	resolver := authz.ResolverFromContext(r.Context())
	env, err := h.service.Create(r.Context(), resolver, req.ProjectID, req.TypeID, req.TypeCode, req.Name, req.URL)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "environment.create", env.ID)
	httpx.JSON(w, http.StatusCreated, env)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.environmentID(w, r)
	if !ok {
		return
	}
	var req updateEnvironmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	resolver := authz.ResolverFromContext(r.Context())
	env, err := h.service.Update(r.Context(), resolver, id, req.Name, req.URL, req.IsActive)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "environment.update", env.ID)
	httpx.JSON(w, http.StatusOK, env)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.environmentID(w, r)
	if !ok {
		return
	}
	resolver := authz.ResolverFromContext(r.Context())
	if err := h.service.Delete(r.Context(), resolver, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "environment.delete", id)
	httpx.NoContent(w)
}

func (h *Handler) environmentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return 0, false
	}
	return id, true
}

func (h *Handler) record(r *http.Request, action string, envID int64) {
	identity := authz.IdentityFromContext(r.Context())
	if identity == nil || h.audit == nil {
		return
	}
	if err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  identity.Principal.ID,
		Action:   action,
		Entity:   "environment",
		EntityID: strconv.FormatInt(envID, 10),
	}); err != nil {
		h.logger.Warn("audit record", slog.Any("error", err))
	}
}
