// AngelaMos | 2026
// handler.go

package semester

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
	r.Route("/semesters", func(r chi.Router) {
		r.With(gate.Require(permission.CanSeeSemesters)).
			Get("/", h.List)
		r.With(gate.Require(permission.CanSeeSemesters)).
			Get("/active", h.GetActive)
		r.With(gate.Require(permission.CanCreateSemesters)).
			Post("/", h.Create)
		r.With(gate.Require(permission.CanSeeSemesters)).
			Get("/{semesterID}", h.Get)
		r.With(gate.Require(permission.CanEditSemesters)).
			Put("/{semesterID}", h.Update)
		r.With(gate.Require(permission.CanDeleteSemesters)).
			Delete("/{semesterID}", h.Delete)
	})

	r.Route("/exec", func(r chi.Router) {
		r.With(gate.Require(permission.CanChangeSemester)).
			Post("/set_semester", h.SetSemester)
		r.With(gate.Require(permission.CanChangeSemester)).
			Post("/next_semester", h.NextSemester)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	semesters, err := h.service.ListSemesters(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSemesterResponseList(semesters))
}

func (h *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
	active, err := h.service.ActiveSemester(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	resp := StateResponse{}
	if active != nil {
		s := ToSemesterResponse(active)
		resp.ActiveSemester = &s
	}

	core.OK(w, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	semester, err := h.service.GetSemester(
		r.Context(),
		chi.URLParam(r, "semesterID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "semester")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSemesterResponse(semester))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSemesterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	semester, err := h.service.CreateSemester(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, ErrSemesterExists) {
			core.Conflict(w, "semester already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToSemesterResponse(semester))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateSemesterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	semester, err := h.service.UpdateSemester(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "semesterID"),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "semester")
			return
		}
		if errors.Is(err, ErrSemesterExists) {
			core.Conflict(w, "semester already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSemesterResponse(semester))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteSemester(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "semesterID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "semester")
			return
		}
		if errors.Is(err, ErrHasUsages) {
			core.Conflict(w, "semester has recorded usages")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) SetSemester(w http.ResponseWriter, r *http.Request) {
	var req SetSemesterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	semester, err := h.service.SetActiveSemester(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.SemesterID,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "semester")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	resp := StateResponse{}
	if semester != nil {
		s := ToSemesterResponse(semester)
		resp.ActiveSemester = &s
	}

	core.OK(w, resp)
}

func (h *Handler) NextSemester(w http.ResponseWriter, r *http.Request) {
	semester, err := h.service.AdvanceSemester(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		if errors.Is(err, ErrNoActive) {
			core.BadRequest(w, "no active semester to advance from")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	s := ToSemesterResponse(semester)
	core.OK(w, StateResponse{ActiveSemester: &s})
}
