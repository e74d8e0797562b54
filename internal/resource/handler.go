// AngelaMos | 2026
// handler.go

package resource

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
	r.Route("/resources", func(r chi.Router) {
		r.With(gate.Require(permission.CanSeeResources)).
			Get("/", h.ListResources)
		r.With(gate.Require(permission.CanCreateResources)).
			Post("/", h.CreateResource)
		r.With(gate.Require(permission.CanSeeResources)).
			Get("/{resourceID}", h.GetResource)
		r.With(gate.Require(permission.CanEditResources)).
			Put("/{resourceID}", h.UpdateResource)
		r.With(gate.Require(permission.CanDeleteResources)).
			Delete("/{resourceID}", h.DeleteResource)
	})

	r.Route("/resourceslots", func(r chi.Router) {
		r.With(gate.Require(permission.CanSeeResourceSlots)).
			Get("/", h.ListSlots)
		r.With(gate.Require(permission.CanCreateResourceSlots)).
			Post("/", h.CreateSlot)
		r.With(gate.Require(permission.CanSeeResourceSlots)).
			Get("/{slotID}", h.GetSlot)
		r.With(gate.Require(permission.CanEditResourceSlots)).
			Put("/{slotID}", h.UpdateSlot)
		r.With(gate.Require(permission.CanDeleteResourceSlots)).
			Delete("/{slotID}", h.DeleteSlot)
	})
}

func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.service.ListResources(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToResourceResponseList(resources))
}

func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	resource, err := h.service.GetResource(
		r.Context(),
		chi.URLParam(r, "resourceID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "resource")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToResourceResponse(resource))
}

func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if req.Cost.IsNegative() {
		core.BadRequest(w, "cost must not be negative")
		return
	}

	resource, err := h.service.CreateResource(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrResourceExists) {
			core.Conflict(w, "resource with this brand, name and units exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToResourceResponse(resource))
}

func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	var req UpdateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if req.Cost != nil && req.Cost.IsNegative() {
		core.BadRequest(w, "cost must not be negative")
		return
	}

	resource, err := h.service.UpdateResource(
		r.Context(),
		chi.URLParam(r, "resourceID"),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "resource")
			return
		}
		if errors.Is(err, ErrResourceExists) {
			core.Conflict(w, "resource with this brand, name and units exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToResourceResponse(resource))
}

func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteResource(r.Context(), chi.URLParam(r, "resourceID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "resource")
			return
		}
		if errors.Is(err, ErrResourceInUse) {
			core.Conflict(w, "resource is referenced by slots or usages")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.service.ListSlots(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSlotResponseList(slots))
}

func (h *Handler) GetSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := h.service.GetSlot(r.Context(), chi.URLParam(r, "slotID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "resource slot")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSlotResponse(slot))
}

func (h *Handler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), req)
	if err != nil {
		h.writeSlotError(w, err)
		return
	}

	core.Created(w, ToSlotResponse(slot))
}

func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	var req UpdateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	slot, err := h.service.UpdateSlot(
		r.Context(),
		chi.URLParam(r, "slotID"),
		req,
	)
	if err != nil {
		h.writeSlotError(w, err)
		return
	}

	core.OK(w, ToSlotResponse(slot))
}

func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteSlot(r.Context(), chi.URLParam(r, "slotID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "resource slot")
			return
		}
		if errors.Is(err, ErrSlotInUse) {
			core.Conflict(w, "slot is referenced by machine types")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeSlotError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "resource slot or resource")
	case errors.Is(err, ErrSlotExists):
		core.Conflict(w, "slot db_name already exists")
	default:
		core.InternalServerError(w, err)
	}
}
