// AngelaMos | 2026
// handler.go

package role

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/forgeworks/makerspace-backend/internal/core"
	"github.com/forgeworks/makerspace-backend/internal/middleware"
	"github.com/forgeworks/makerspace-backend/internal/permission"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, gate *middleware.Gate) {
	r.Route("/roles", func(r chi.Router) {
		r.With(gate.Require(permission.CanSeeRoles)).
			Get("/", h.List)
		r.With(gate.Require(permission.CanCreateRoles)).
			Post("/", h.Create)
		r.With(gate.Require(permission.CanSeeRoles)).
			Get("/{roleID}", h.Get)
		r.With(gate.Require(permission.CanEditRoles)).
			Put("/{roleID}", h.Update)
		r.With(gate.Require(permission.CanDeleteRoles)).
			Delete("/{roleID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRoleResponseList(roles))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	role, err := h.service.GetRole(r.Context(), chi.URLParam(r, "roleID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "role")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRoleResponse(role))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	role, err := h.service.CreateRole(
		r.Context(),
		middleware.GetUserID(r.Context()),
		middleware.GetPermissions(r.Context()),
		req,
	)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, ToRoleResponse(role))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	role, err := h.service.UpdateRole(
		r.Context(),
		middleware.GetUserID(r.Context()),
		middleware.GetPermissions(r.Context()),
		chi.URLParam(r, "roleID"),
		req,
	)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, ToRoleResponse(role))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteRole(
		r.Context(),
		middleware.GetUserID(r.Context()),
		middleware.GetPermissions(r.Context()),
		chi.URLParam(r, "roleID"),
	)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "role")
	case errors.Is(err, ErrNameExists):
		core.Conflict(w, "role name already exists")
	case errors.Is(err, ErrUnknownTag):
		core.BadRequest(w, err.Error())
	case errors.Is(err, ErrRestrictedTag):
		core.Forbidden(w, "restricted permission tags require superuser")
	default:
		core.InternalServerError(w, err)
	}
}
