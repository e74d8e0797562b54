// AngelaMos | 2026
// service.go

package resource

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/forgeworks/makerspace-backend/internal/core"
)

var (
	ErrResourceExists = errors.New("resource already exists")
	ErrResourceInUse  = errors.New("resource is referenced")
	ErrSlotExists     = errors.New("slot db_name already exists")
	ErrSlotInUse      = errors.New("slot is referenced by machine types")
)

type Service struct {
	db   *sqlx.DB
	repo Repository
}

func NewService(db *sqlx.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (s *Service) CreateResource(
	ctx context.Context,
	req CreateResourceRequest,
) (*Resource, error) {
	resource := &Resource{
		ID:    uuid.New().String(),
		Brand: req.Brand,
		Name:  req.Name,
		Units: req.Units,
		Cost:  req.Cost,
	}

	if err := s.repo.CreateResource(ctx, resource); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrResourceExists
		}
		return nil, err
	}

	return resource, nil
}

func (s *Service) GetResource(
	ctx context.Context,
	id string,
) (*Resource, error) {
	return s.repo.GetResource(ctx, id)
}

func (s *Service) ListResources(ctx context.Context) ([]Resource, error) {
	return s.repo.ListResources(ctx)
}

func (s *Service) UpdateResource(
	ctx context.Context,
	id string,
	req UpdateResourceRequest,
) (*Resource, error) {
	resource, err := s.repo.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Brand != nil {
		resource.Brand = *req.Brand
	}
	if req.Name != nil {
		resource.Name = *req.Name
	}
	if req.Units != nil {
		resource.Units = *req.Units
	}
	if req.Cost != nil {
		resource.Cost = *req.Cost
	}

	if err := s.repo.UpdateResource(ctx, resource); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrResourceExists
		}
		return nil, err
	}

	return resource, nil
}

func (s *Service) DeleteResource(ctx context.Context, id string) error {
	inUse, err := s.repo.ResourceInUse(ctx, id)
	if err != nil {
		return err
	}

	if inUse {
		return ErrResourceInUse
	}

	return s.repo.DeleteResource(ctx, id)
}

func (s *Service) CreateSlot(
	ctx context.Context,
	req CreateSlotRequest,
) (*Slot, error) {
	slot := &Slot{
		ID:               uuid.New().String(),
		DBName:           req.DBName,
		DisplayName:      req.DisplayName,
		AllowOwnMaterial: req.AllowOwnMaterial,
		AllowEmpty:       req.AllowEmpty,
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		if err := repo.CreateSlot(ctx, slot); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return ErrSlotExists
			}
			return err
		}

		return repo.SetSlotResources(ctx, slot.ID, req.ResourceIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetSlot(ctx, slot.ID)
}

func (s *Service) GetSlot(ctx context.Context, id string) (*Slot, error) {
	return s.repo.GetSlot(ctx, id)
}

func (s *Service) ListSlots(ctx context.Context) ([]Slot, error) {
	return s.repo.ListSlots(ctx)
}

func (s *Service) UpdateSlot(
	ctx context.Context,
	id string,
	req UpdateSlotRequest,
) (*Slot, error) {
	slot, err := s.repo.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DBName != nil {
		slot.DBName = *req.DBName
	}
	if req.DisplayName != nil {
		slot.DisplayName = *req.DisplayName
	}
	if req.AllowOwnMaterial != nil {
		slot.AllowOwnMaterial = *req.AllowOwnMaterial
	}
	if req.AllowEmpty != nil {
		slot.AllowEmpty = *req.AllowEmpty
	}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		if err := repo.UpdateSlot(ctx, slot); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return ErrSlotExists
			}
			return err
		}

		if req.ResourceIDs != nil {
			return repo.SetSlotResources(ctx, id, *req.ResourceIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetSlot(ctx, id)
}

func (s *Service) DeleteSlot(ctx context.Context, id string) error {
	inUse, err := s.repo.SlotInUse(ctx, id)
	if err != nil {
		return err
	}

	if inUse {
		return ErrSlotInUse
	}

	return s.repo.DeleteSlot(ctx, id)
}
