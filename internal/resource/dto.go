// AngelaMos | 2026
// dto.go

package resource

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateResourceRequest struct {
	Brand string          `json:"brand" validate:"required,min=1,max=100"`
	Name  string          `json:"name"  validate:"required,min=1,max=100"`
	Units string          `json:"units" validate:"required,min=1,max=32"`
	Cost  decimal.Decimal `json:"cost"`
}

type UpdateResourceRequest struct {
	Brand *string          `json:"brand,omitempty" validate:"omitempty,min=1,max=100"`
	Name  *string          `json:"name,omitempty"  validate:"omitempty,min=1,max=100"`
	Units *string          `json:"units,omitempty" validate:"omitempty,min=1,max=32"`
	Cost  *decimal.Decimal `json:"cost,omitempty"`
}

type ResourceResponse struct {
	ID        string          `json:"id"`
	Brand     string          `json:"brand"`
	Name      string          `json:"name"`
	Units     string          `json:"units"`
	Cost      decimal.Decimal `json:"cost"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateSlotRequest struct {
	DBName           string   `json:"db_name"      validate:"required,min=1,max=64"`
	DisplayName      string   `json:"display_name" validate:"required,min=1,max=100"`
	AllowOwnMaterial bool     `json:"allow_own_material"`
	AllowEmpty       bool     `json:"allow_empty"`
	ResourceIDs      []string `json:"resource_ids" validate:"dive,uuid4"`
}

type UpdateSlotRequest struct {
	DBName           *string   `json:"db_name,omitempty"      validate:"omitempty,min=1,max=64"`
	DisplayName      *string   `json:"display_name,omitempty" validate:"omitempty,min=1,max=100"`
	AllowOwnMaterial *bool     `json:"allow_own_material,omitempty"`
	AllowEmpty       *bool     `json:"allow_empty,omitempty"`
	ResourceIDs      *[]string `json:"resource_ids,omitempty" validate:"omitempty,dive,uuid4"`
}

type SlotResponse struct {
	ID               string             `json:"id"`
	DBName           string             `json:"db_name"`
	DisplayName      string             `json:"display_name"`
	AllowOwnMaterial bool               `json:"allow_own_material"`
	AllowEmpty       bool               `json:"allow_empty"`
	ValidResources   []ResourceResponse `json:"valid_resources"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func ToResourceResponse(r *Resource) ResourceResponse {
	return ResourceResponse{
		ID:        r.ID,
		Brand:     r.Brand,
		Name:      r.Name,
		Units:     r.Units,
		Cost:      r.Cost,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ToResourceResponseList(resources []Resource) []ResourceResponse {
	responses := make([]ResourceResponse, 0, len(resources))
	for i := range resources {
		responses = append(responses, ToResourceResponse(&resources[i]))
	}
	return responses
}

func ToSlotResponse(s *Slot) SlotResponse {
	return SlotResponse{
		ID:               s.ID,
		DBName:           s.DBName,
		DisplayName:      s.DisplayName,
		AllowOwnMaterial: s.AllowOwnMaterial,
		AllowEmpty:       s.AllowEmpty,
		ValidResources:   ToResourceResponseList(s.ValidResources),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func ToSlotResponseList(slots []Slot) []SlotResponse {
	responses := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		responses = append(responses, ToSlotResponse(&slots[i]))
	}
	return responses
}
