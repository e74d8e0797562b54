// AngelaMos | 2026
// dto.go

package machine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/forgeworks/makerspace-backend/internal/resource"
)

type CreateMachineRequest struct {
	Name           string  `json:"name"            validate:"required,min=1,max=100"`
	MachineTypeID  string  `json:"machine_type_id" validate:"required,uuid4"`
	MachineGroupID *string `json:"machine_group_id,omitempty" validate:"omitempty,uuid4"`
}

type UpdateMachineRequest struct {
	Name           *string `json:"name,omitempty"            validate:"omitempty,min=1,max=100"`
	MachineTypeID  *string `json:"machine_type_id,omitempty" validate:"omitempty,uuid4"`
	MachineGroupID *string `json:"machine_group_id,omitempty" validate:"omitempty,uuid4"`
	ClearGroup     bool    `json:"clear_group,omitempty"`
	Disabled       *bool   `json:"disabled,omitempty"`
	Maintenance    *bool   `json:"maintenance,omitempty"`
}

type MachineResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	MachineTypeID  string    `json:"machine_type_id"`
	MachineGroupID *string   `json:"machine_group_id"`
	Disabled       bool      `json:"disabled"`
	Maintenance    bool      `json:"maintenance"`
	InUse          bool      `json:"in_use"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateMachineTypeRequest struct {
	Name        string          `json:"name"          validate:"required,min=1,max=100"`
	CostPerHour decimal.Decimal `json:"cost_per_hour"`
	SlotIDs     []string        `json:"slot_ids"      validate:"dive,uuid4"`
}

type UpdateMachineTypeRequest struct {
	Name        *string          `json:"name,omitempty"          validate:"omitempty,min=1,max=100"`
	CostPerHour *decimal.Decimal `json:"cost_per_hour,omitempty"`
	SlotIDs     *[]string        `json:"slot_ids,omitempty"      validate:"omitempty,dive,uuid4"`
}

type MachineTypeResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	CostPerHour decimal.Decimal         `json:"cost_per_hour"`
	Slots       []resource.SlotResponse `json:"slots"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

type CreateMachineGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type UpdateMachineGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type MachineGroupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToMachineResponse(m *Machine) MachineResponse {
	return MachineResponse{
		ID:             m.ID,
		Name:           m.Name,
		MachineTypeID:  m.MachineTypeID,
		MachineGroupID: m.MachineGroupID,
		Disabled:       m.Disabled,
		Maintenance:    m.Maintenance,
		InUse:          m.InUse(),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func ToMachineResponseList(machines []Machine) []MachineResponse {
	responses := make([]MachineResponse, 0, len(machines))
	for i := range machines {
		responses = append(responses, ToMachineResponse(&machines[i]))
	}
	return responses
}

func ToMachineTypeResponse(t *MachineType) MachineTypeResponse {
	return MachineTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		CostPerHour: t.CostPerHour,
		Slots:       resource.ToSlotResponseList(t.Slots),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToMachineTypeResponseList(types []MachineType) []MachineTypeResponse {
	responses := make([]MachineTypeResponse, 0, len(types))
	for i := range types {
		responses = append(responses, ToMachineTypeResponse(&types[i]))
	}
	return responses
}

func ToMachineGroupResponse(g *MachineGroup) MachineGroupResponse {
	return MachineGroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func ToMachineGroupResponseList(groups []MachineGroup) []MachineGroupResponse {
	responses := make([]MachineGroupResponse, 0, len(groups))
	for i := range groups {
		responses = append(responses, ToMachineGroupResponse(&groups[i]))
	}
	return responses
}
