// AngelaMos | 2026
// dto.go

package role

import (
	"time"

	"github.com/forgeworks/makerspace-backend/internal/permission"
)

type CreateRoleRequest struct {
	Name               string           `json:"name"                validate:"required,min=1,max=64"`
	DisplayRole        bool             `json:"display_role"`
	Priority           int              `json:"priority"            validate:"gte=0,lte=1000000"`
	Permissions        []permission.Tag `json:"permissions"`
	InversePermissions []permission.Tag `json:"inverse_permissions"`
}

type UpdateRoleRequest struct {
	Name               *string           `json:"name,omitempty"     validate:"omitempty,min=1,max=64"`
	DisplayRole        *bool             `json:"display_role,omitempty"`
	Priority           *int              `json:"priority,omitempty" validate:"omitempty,gte=0,lte=1000000"`
	Permissions        *[]permission.Tag `json:"permissions,omitempty"`
	InversePermissions *[]permission.Tag `json:"inverse_permissions,omitempty"`
}

type RoleResponse struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	DisplayRole        bool             `json:"display_role"`
	Priority           int              `json:"priority"`
	Permissions        []permission.Tag `json:"permissions"`
	InversePermissions []permission.Tag `json:"inverse_permissions"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func ToRoleResponse(r *Role) RoleResponse {
	return RoleResponse{
		ID:                 r.ID,
		Name:               r.Name,
		DisplayRole:        r.DisplayRole,
		Priority:           r.Priority,
		Permissions:        r.Permissions,
		InversePermissions: r.InversePermissions,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func ToRoleResponseList(roles []Role) []RoleResponse {
	responses := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		responses = append(responses, ToRoleResponse(&r))
	}
	return responses
}
