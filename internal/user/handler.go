// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
	r.Route("/users", func(r chi.Router) {
		r.With(gate.Require(permission.CanSeeUsers)).
			Get("/", h.List)
		r.With(gate.Require(permission.CanSeeUsers)).
			Get("/campus/{campusID}", h.GetByCampusID)
		r.With(gate.Require(permission.CanSeeUsers)).
			Get("/student/{studentID}", h.GetByStudentID)
		r.With(gate.Require()).
			Put("/me", h.UpdateMe)
		r.With(gate.Require(permission.CanEditUserCoreInfo)).
			Put("/{userID}/core", h.UpdateCoreInfo)
		r.With(gate.Require(permission.CanChangeUserRoles)).
			Put("/{userID}/roles", h.SetRoles)
		r.With(gate.Require(permission.IsSuperuser)).
			Delete("/{userID}", h.Delete)
	})
}

// RegisterPublicRoutes mounts the unauthenticated signup endpoint.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/signup", h.Signup)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.Signup(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrCampusIDExists) {
			core.Conflict(w, "campus ID already registered")
			return
		}
		if errors.Is(err, ErrStudentIDExists) {
			core.Conflict(w, "student ID already registered")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
		Search:   r.URL.Query().Get("search"),
		OrderBy:  r.URL.Query().Get("order_by"),
		Desc:     r.URL.Query().Get("desc") == "true",
	}
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetByCampusID(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.DetailByCampusID(
		r.Context(),
		chi.URLParam(r, "campusID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, detail)
}

func (h *Handler) GetByStudentID(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.DetailByStudentID(
		r.Context(),
		chi.URLParam(r, "studentID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, detail)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateMe(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateCoreInfo(w http.ResponseWriter, r *http.Request) {
	var req UpdateCoreInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateCoreInfo(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "campus ID or student ID already registered")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) SetRoles(w http.ResponseWriter, r *http.Request) {
	var req SetRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.SetUserRoles(
		r.Context(),
		middleware.GetUserID(r.Context()),
		middleware.GetPermissions(r.Context()),
		chi.URLParam(r, "userID"),
		req.RoleIDs,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user or role")
		case errors.Is(err, ErrRoleChangeImmune):
			core.Forbidden(w, "target user is role-change immune")
		case errors.Is(err, ErrRestrictedRole):
			core.Forbidden(w, "assigning this role requires superuser")
		case errors.Is(err, ErrLockoutNotAllowed):
			core.Forbidden(w, "assigning lockout requires lockout control")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		if errors.Is(err, ErrHasUsages) {
			core.Conflict(w, "user has recorded machine usages")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}
