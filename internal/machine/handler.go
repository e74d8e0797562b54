// AngelaMos | 2026
// handler.go

package machine

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

// Machine groups piggyback the machine-type permissions.
func (h *Handler) RegisterRoutes(r chi.Router, gate *middleware.Gate) {
	r.Route("/machines", func(r chi.Router) {
		r.With(gate.Require()).
			Get("/", h.ListMachines)
		r.With(gate.Require(permission.CanCreateMachines)).
			Post("/", h.CreateMachine)
		r.With(gate.Require()).
			Get("/{machineID}", h.GetMachine)
		r.With(gate.Require(permission.CanEditMachines)).
			Put("/{machineID}", h.UpdateMachine)
		r.With(gate.Require(permission.CanDeleteMachines)).
			Delete("/{machineID}", h.DeleteMachine)
	})

	r.Route("/machinetypes", func(r chi.Router) {
		r.With(gate.Require(permission.CanSeeMachineTypes)).
			Get("/", h.ListTypes)
		r.With(gate.Require(permission.CanCreateMachineTypes)).
			Post("/", h.CreateType)
		r.With(gate.Require(permission.CanSeeMachineTypes)).
			Get("/{typeID}", h.GetType)
		r.With(gate.Require(permission.CanEditMachineTypes)).
			Put("/{typeID}", h.UpdateType)
		r.With(gate.Require(permission.CanDeleteMachineTypes)).
			Delete("/{typeID}", h.DeleteType)
	})

	r.Route("/machinegroups", func(r chi.Router) {
		r.With(gate.Require(permission.CanSeeMachineTypes)).
			Get("/", h.ListGroups)
		r.With(gate.Require(permission.CanCreateMachineTypes)).
			Post("/", h.CreateGroup)
		r.With(gate.Require(permission.CanSeeMachineTypes)).
			Get("/{groupID}", h.GetGroup)
		r.With(gate.Require(permission.CanEditMachineTypes)).
			Put("/{groupID}", h.UpdateGroup)
		r.With(gate.Require(permission.CanDeleteMachineTypes)).
			Delete("/{groupID}", h.DeleteGroup)
	})
}

func (h *Handler) ListMachines(w http.ResponseWriter, r *http.Request) {
	machines, err := h.service.ListMachines(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMachineResponseList(machines))
}

func (h *Handler) GetMachine(w http.ResponseWriter, r *http.Request) {
	machine, err := h.service.GetMachine(
		r.Context(),
		chi.URLParam(r, "machineID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "machine")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMachineResponse(machine))
}

func (h *Handler) CreateMachine(w http.ResponseWriter, r *http.Request) {
	var req CreateMachineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	machine, err := h.service.CreateMachine(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "machine type or group")
			return
		}
		if errors.Is(err, ErrNameExists) {
			core.Conflict(w, "machine name already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToMachineResponse(machine))
}

func (h *Handler) UpdateMachine(w http.ResponseWriter, r *http.Request) {
	var req UpdateMachineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	machine, err := h.service.UpdateMachine(
		r.Context(),
		chi.URLParam(r, "machineID"),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "machine, machine type or group")
			return
		}
		if errors.Is(err, ErrNameExists) {
			core.Conflict(w, "machine name already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMachineResponse(machine))
}

func (h *Handler) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteMachine(r.Context(), chi.URLParam(r, "machineID"))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "machine")
		case errors.Is(err, ErrMachineBusy):
			core.Conflict(w, "machine has an active usage")
		case errors.Is(err, ErrHasUsages):
			core.Conflict(w, "machine has recorded usages")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListTypes(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMachineTypeResponseList(types))
}

func (h *Handler) GetType(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.GetType(r.Context(), chi.URLParam(r, "typeID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "machine type")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMachineTypeResponse(t))
}

func (h *Handler) CreateType(w http.ResponseWriter, r *http.Request) {
	var req CreateMachineTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if req.CostPerHour.IsNegative() {
		core.BadRequest(w, "cost_per_hour must not be negative")
		return
	}

	t, err := h.service.CreateType(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "resource slot")
			return
		}
		if errors.Is(err, ErrNameExists) {
			core.Conflict(w, "machine type name already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToMachineTypeResponse(t))
}

func (h *Handler) UpdateType(w http.ResponseWriter, r *http.Request) {
	var req UpdateMachineTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if req.CostPerHour != nil && req.CostPerHour.IsNegative() {
		core.BadRequest(w, "cost_per_hour must not be negative")
		return
	}

	t, err := h.service.UpdateType(
		r.Context(),
		chi.URLParam(r, "typeID"),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "machine type or slot")
			return
		}
		if errors.Is(err, ErrNameExists) {
			core.Conflict(w, "machine type name already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMachineTypeResponse(t))
}

func (h *Handler) DeleteType(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteType(r.Context(), chi.URLParam(r, "typeID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "machine type")
			return
		}
		if errors.Is(err, ErrTypeInUse) {
			core.Conflict(w, "machine type is referenced by machines")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListGroups(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMachineGroupResponseList(groups))
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.GetGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "machine group")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMachineGroupResponse(g))
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateMachineGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	g, err := h.service.CreateGroup(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrNameExists) {
			core.Conflict(w, "machine group name already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToMachineGroupResponse(g))
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req UpdateMachineGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	g, err := h.service.UpdateGroup(
		r.Context(),
		chi.URLParam(r, "groupID"),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "machine group")
			return
		}
		if errors.Is(err, ErrNameExists) {
			core.Conflict(w, "machine group name already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMachineGroupResponse(g))
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "machine group")
			return
		}
		if errors.Is(err, ErrGroupInUse) {
			core.Conflict(w, "machine group is referenced by machines")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
