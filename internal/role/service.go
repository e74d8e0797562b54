// AngelaMos | 2026
// service.go

package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/forgeworks/makerspace-backend/internal/audit"
	"github.com/forgeworks/makerspace-backend/internal/core"
	"github.com/forgeworks/makerspace-backend/internal/permission"
)

var (
	ErrUnknownTag    = errors.New("unknown permission tag")
	ErrRestrictedTag = errors.New("restricted permission tag")
	ErrNameExists    = errors.New("role name already exists")
)

type Service struct {
	db   *sqlx.DB
	repo Repository
}

func NewService(db *sqlx.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (s *Service) GetRole(ctx context.Context, id string) (*Role, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

func (s *Service) CreateRole(
	ctx context.Context,
	actorID string,
	actorPerms permission.Set,
	req CreateRoleRequest,
) (*Role, error) {
	role := &Role{
		ID:                 uuid.New().String(),
		Name:               req.Name,
		DisplayRole:        req.DisplayRole,
		Priority:           req.Priority,
		Permissions:        req.Permissions,
		InversePermissions: req.InversePermissions,
	}

	if err := validateTags(actorPerms, role.AllTags()); err != nil {
		return nil, err
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := NewRepository(tx).Create(ctx, role); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return ErrNameExists
			}
			return err
		}

		_, err := audit.NewRepository(tx).Create(
			ctx,
			audit.TypeRoleCreated,
			roleAuditContent(actorID, role),
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return role, nil
}

func (s *Service) UpdateRole(
	ctx context.Context,
	actorID string,
	actorPerms permission.Set,
	id string,
	req UpdateRoleRequest,
) (*Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Touching a role that already carries restricted tags is itself a
	// superuser operation, even when the request leaves them intact.
	if err := validateTags(actorPerms, role.AllTags()); err != nil {
		return nil, err
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.DisplayRole != nil {
		role.DisplayRole = *req.DisplayRole
	}
	if req.Priority != nil {
		role.Priority = *req.Priority
	}
	if req.Permissions != nil {
		role.Permissions = *req.Permissions
	}
	if req.InversePermissions != nil {
		role.InversePermissions = *req.InversePermissions
	}

	if err := validateTags(actorPerms, role.AllTags()); err != nil {
		return nil, err
	}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := NewRepository(tx).Update(ctx, role); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return ErrNameExists
			}
			return err
		}

		_, err := audit.NewRepository(tx).Create(
			ctx,
			audit.TypeRoleEdited,
			roleAuditContent(actorID, role),
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return role, nil
}

func (s *Service) DeleteRole(
	ctx context.Context,
	actorID string,
	actorPerms permission.Set,
	id string,
) error {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := validateTags(actorPerms, role.AllTags()); err != nil {
		return err
	}

	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := NewRepository(tx).Delete(ctx, id); err != nil {
			return err
		}

		_, err := audit.NewRepository(tx).Create(
			ctx,
			audit.TypeRoleDeleted,
			roleAuditContent(actorID, role),
		)
		return err
	})
}

func validateTags(actorPerms permission.Set, tags []permission.Tag) error {
	for _, tag := range tags {
		if !tag.Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownTag, tag)
		}
	}

	if permission.IsRestricted(tags...) && !actorPerms.IsSuperuser() {
		return ErrRestrictedTag
	}

	return nil
}

func roleAuditContent(actorID string, role *Role) audit.Content {
	return audit.Content{
		"actor": actorID,
		"role": map[string]any{
			"id":                  role.ID,
			"name":                role.Name,
			"display_role":        role.DisplayRole,
			"priority":            role.Priority,
			"permissions":         role.Permissions,
			"inverse_permissions": role.InversePermissions,
		},
	}
}
