package applications

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

// Handler wires HTTP endpoints for applications.
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

type applicationRequest struct {
	Name          string `json:"name" validate:"required"`
	Repository    string `json:"repository"`
	ProjectID     int64  `json:"project_id" validate:"required"`
	EnvironmentID *int64 `json:"environment_id"`
	IsActive      *bool  `json:"is_active"`
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
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	resolver := authz.ResolverFromContext(r.Context())
	app, err := h.service.Get(r.Context(), resolver, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, app)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	resolver := authz.ResolverFromContext(r.Context())
	app, err := h.service.Create(r.Context(), resolver, &Application{
		Name:          req.Name,
		Repository:    req.Repository,
		ProjectID:     req.ProjectID,
		EnvironmentID: req.EnvironmentID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "application.create", app.ID)
	httpx.JSON(w, http.StatusCreated, app)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	resolver := authz.ResolverFromContext(r.Context())
	app, err := h.service.Update(r.Context(), resolver, &Application{
		ID:            id,
		Name:          req.Name,
		Repository:    req.Repository,
		ProjectID:     req.ProjectID,
		EnvironmentID: req.EnvironmentID,
		IsActive:      isActive,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "application.update", app.ID)
	httpx.JSON(w, http.StatusOK, app)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	resolver := authz.ResolverFromContext(r.Context())
	if err := h.service.Delete(r.Context(), resolver, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "application.delete", id)
	httpx.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*applicationRequest, bool) {
	var req applicationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return nil, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return nil, false
	}
	return &req, true
}

func (h *Handler) applicationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return 0, false
	}
	return id, true
}

func (h *Handler) record(r *http.Request, action string, appID int64) {
	identity := authz.IdentityFromContext(r.Context())
	if identity == nil || h.audit == nil {
		return
	}
	if err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  identity.Principal.ID,
		Action:   action,
		Entity:   "application",
		EntityID: strconv.FormatInt(appID, 10),
	}); err != nil {
		h.logger.Warn("audit record", slog.Any("error", err))
	}
}
