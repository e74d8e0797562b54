// AngelaMos | 2026
// handler.go

package usage

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/forgeworks/makerspace-backend/internal/audit"
	"github.com/forgeworks/makerspace-backend/internal/core"
	"github.com/forgeworks/makerspace-backend/internal/machine"
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
	r.Route("/use/{machineID}", func(r chi.Router) {
		r.With(gate.Require(permission.CanUseMachines)).
			Get("/schema", h.Schema)
		r.With(gate.Require(permission.CanUseMachines)).
			Post("/", h.Use)
	})

	r.With(gate.Require(permission.CanClearMachines)).
		Post("/clear/{machineID}", h.Clear)
	r.With(gate.Require(permission.CanFailMachines)).
		Post("/fail/{machineID}", h.Fail)

	r.Route("/usages", func(r chi.Router) {
		r.With(gate.Require()).Get("/me", h.ListMine)
		r.With(gate.Require()).Get("/current/me", h.CurrentMine)
	})

	r.With(gate.Require(permission.CanViewFailureLogs)).
		Get("/failures", h.Failures)
	r.With(gate.Require(permission.CanGetCharges)).
		Get("/charges/{semesterID}", h.Charges)
}

// RegisterPublicRoutes mounts the unauthenticated status board.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/machinestatus", h.MachineStatus)
}

func (h *Handler) Schema(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Schema(
		r.Context(),
		chi.URLParam(r, "machineID"),
		middleware.GetPermissions(r.Context()),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "machine")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SchemaResponse{
		Machine: machine.ToMachineResponse(m),
		Type:    machine.ToMachineTypeResponse(m.Type),
	})
}

func (h *Handler) Use(w http.ResponseWriter, r *http.Request) {
	var req UseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	usage, breakdown, err := h.service.Use(
		r.Context(),
		middleware.GetUserID(r.Context()),
		middleware.GetPermissions(r.Context()),
		chi.URLParam(r, "machineID"),
		req,
	)
	if err != nil {
		h.writeUseError(w, err)
		return
	}

	core.Created(w, ToUsageResponse(usage, breakdown.Base))
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	err := h.service.Clear(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "machineID"),
	)
	if err != nil {
		h.writeMachineStateError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Fail(w http.ResponseWriter, r *http.Request) {
	usage, err := h.service.Fail(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "machineID"),
	)
	if err != nil {
		h.writeMachineStateError(w, err)
		return
	}

	core.OK(w, ToUsageResponseList([]Usage{*usage})[0])
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	params := ListUsagesParams{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
		Desc:     r.URL.Query().Get("order") != "asc",
	}
	params.Normalize()

	usages, total, err := h.service.ListMine(
		r.Context(),
		middleware.GetUserID(r.Context()),
		params,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToUsageResponseList(usages), params.Page, params.PageSize, total)
}

func (h *Handler) CurrentMine(w http.ResponseWriter, r *http.Request) {
	usages, err := h.service.CurrentMine(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUsageResponseList(usages))
}

func (h *Handler) Failures(w http.ResponseWriter, r *http.Request) {
	since, err := queryTime(r, "since")
	if err != nil {
		core.BadRequest(w, "since must be RFC 3339")
		return
	}
	until, err := queryTime(r, "until")
	if err != nil {
		core.BadRequest(w, "until must be RFC 3339")
		return
	}

	entries, err := h.service.Failures(r.Context(), since, until)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, audit.ToEntryResponseList(entries))
}

func (h *Handler) Charges(w http.ResponseWriter, r *http.Request) {
	charges, err := h.service.Charges(r.Context(), chi.URLParam(r, "semesterID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "semester")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, charges)
}

func (h *Handler) MachineStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.MachineStatus(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, status)
}

func (h *Handler) writeUseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "machine")
	case errors.Is(err, ErrMachineInUse):
		core.Conflict(w, "machine is already in use")
	case errors.Is(err, ErrBetweenSemesters):
		core.Forbidden(w, "machine use is disabled between semesters")
	case errors.Is(err, ErrInvalidDuration),
		errors.Is(err, ErrMissingSlot),
		errors.Is(err, ErrUnknownSlot),
		errors.Is(err, ErrDuplicateSlot),
		errors.Is(err, ErrInvalidResource),
		errors.Is(err, ErrOwnMaterialForbidden),
		errors.Is(err, ErrInvalidAmount):
		core.BadRequest(w, err.Error())
	default:
		core.InternalServerError(w, err)
	}
}

func (h *Handler) writeMachineStateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "machine")
	case errors.Is(err, ErrMachineIdle):
		core.BadRequest(w, "machine has no active usage")
	default:
		core.InternalServerError(w, err)
	}
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
