// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/forgeworks/makerspace-backend/internal/permission"
	"github.com/forgeworks/makerspace-backend/internal/role"
)

type SignupRequest struct {
	CampusID       string  `json:"campus_id"       validate:"required,max=32"`
	StudentID      string  `json:"student_id"      validate:"required,len=9,numeric"`
	Password       string  `json:"password"        validate:"required,min=8,max=128"`
	FirstName      string  `json:"first_name"      validate:"required,min=1,max=100"`
	LastName       string  `json:"last_name"       validate:"required,min=1,max=100"`
	Major          *string `json:"major,omitempty"           validate:"omitempty,max=100"`
	GenderIdentity *string `json:"gender_identity,omitempty" validate:"omitempty,max=100"`
	Pronouns       *string `json:"pronouns,omitempty"        validate:"omitempty,max=50"`
}

// UpdateMeRequest covers the fields a user may change on their own
// profile.
type UpdateMeRequest struct {
	Major          *string `json:"major,omitempty"           validate:"omitempty,max=100"`
	GenderIdentity *string `json:"gender_identity,omitempty" validate:"omitempty,max=100"`
	Pronouns       *string `json:"pronouns,omitempty"        validate:"omitempty,max=50"`
	IsGraduating   *bool   `json:"is_graduating,omitempty"`
}

// UpdateCoreInfoRequest covers identity fields only staff with
// canEditUserCoreInfo may change. Every change is audit-logged.
type UpdateCoreInfoRequest struct {
	CampusID  *string `json:"campus_id,omitempty"  validate:"omitempty,max=32"`
	StudentID *string `json:"student_id,omitempty" validate:"omitempty,len=9,numeric"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name,omitempty"  validate:"omitempty,min=1,max=100"`
	IsStaff   *bool   `json:"is_staff,omitempty"`
}

type SetRolesRequest struct {
	RoleIDs []string `json:"role_ids" validate:"required,dive,uuid4"`
}

type UserResponse struct {
	ID             string    `json:"id"`
	CampusID       string    `json:"campus_id"`
	StudentID      *string   `json:"student_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Major          *string   `json:"major"`
	GenderIdentity *string   `json:"gender_identity"`
	Pronouns       *string   `json:"pronouns"`
	IsStaff        bool      `json:"is_staff"`
	IsGraduating   bool      `json:"is_graduating"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DetailResponse is the full profile: roles, resolved permissions,
// display role, and the summed machine-usage balance for the active
// semester.
type DetailResponse struct {
	UserResponse
	Roles       []role.RoleResponse `json:"roles"`
	DisplayRole *string             `json:"display_role"`
	Permissions []permission.Tag    `json:"permissions"`
	Balance     decimal.Decimal     `json:"balance"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	OrderBy  string `json:"order_by"`
	Desc     bool   `json:"desc"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	switch p.OrderBy {
	case "campus_id", "last_name", "first_name", "created_at":
	default:
		p.OrderBy = "last_name"
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		CampusID:       u.CampusID,
		StudentID:      u.StudentID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Major:          u.Major,
		GenderIdentity: u.GenderIdentity,
		Pronouns:       u.Pronouns,
		IsStaff:        u.IsStaff,
		IsGraduating:   u.IsGraduating,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
