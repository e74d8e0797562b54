// AngelaMos | 2026
// service.go

package machine

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/forgeworks/makerspace-backend/internal/core"
)

var (
	ErrNameExists  = errors.New("name already exists")
	ErrMachineBusy = errors.New("machine has an active usage")
	ErrHasUsages   = errors.New("machine has recorded usages")
	ErrTypeInUse   = errors.New("machine type is referenced by machines")
	ErrGroupInUse  = errors.New("machine group is referenced by machines")
)

type Service struct {
	db   *sqlx.DB
	repo Repository
}

func NewService(db *sqlx.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (s *Service) CreateMachine(
	ctx context.Context,
	req CreateMachineRequest,
) (*Machine, error) {
	if _, err := s.repo.GetType(ctx, req.MachineTypeID); err != nil {
		return nil, err
	}
	if req.MachineGroupID != nil {
		if _, err := s.repo.GetGroup(ctx, *req.MachineGroupID); err != nil {
			return nil, err
		}
	}

	machine := &Machine{
		ID:             uuid.New().String(),
		Name:           req.Name,
		MachineTypeID:  req.MachineTypeID,
		MachineGroupID: req.MachineGroupID,
	}

	if err := s.repo.Create(ctx, machine); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrNameExists
		}
		return nil, err
	}

	return machine, nil
}

func (s *Service) GetMachine(ctx context.Context, id string) (*Machine, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListMachines(ctx context.Context) ([]Machine, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateMachine(
	ctx context.Context,
	id string,
	req UpdateMachineRequest,
) (*Machine, error) {
	machine, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		machine.Name = *req.Name
	}
	if req.MachineTypeID != nil {
		if _, err := s.repo.GetType(ctx, *req.MachineTypeID); err != nil {
			return nil, err
		}
		machine.MachineTypeID = *req.MachineTypeID
	}
	if req.ClearGroup {
		machine.MachineGroupID = nil
	} else if req.MachineGroupID != nil {
		if _, err := s.repo.GetGroup(ctx, *req.MachineGroupID); err != nil {
			return nil, err
		}
		machine.MachineGroupID = req.MachineGroupID
	}
	if req.Disabled != nil {
		machine.Disabled = *req.Disabled
	}
	if req.Maintenance != nil {
		machine.Maintenance = *req.Maintenance
	}

	if err := s.repo.Update(ctx, machine); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrNameExists
		}
		return nil, err
	}

	return machine, nil
}

func (s *Service) DeleteMachine(ctx context.Context, id string) error {
	machine, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if machine.InUse() {
		return ErrMachineBusy
	}

	hasUsages, err := s.repo.HasUsages(ctx, id)
	if err != nil {
		return err
	}
	if hasUsages {
		return ErrHasUsages
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) CreateType(
	ctx context.Context,
	req CreateMachineTypeRequest,
) (*MachineType, error) {
	t := &MachineType{
		ID:          uuid.New().String(),
		Name:        req.Name,
		CostPerHour: req.CostPerHour,
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		if err := repo.CreateType(ctx, t); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return ErrNameExists
			}
			return err
		}

		return repo.SetTypeSlots(ctx, t.ID, req.SlotIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetType(ctx, t.ID)
}

func (s *Service) GetType(
	ctx context.Context,
	id string,
) (*MachineType, error) {
	return s.repo.GetType(ctx, id)
}

func (s *Service) ListTypes(ctx context.Context) ([]MachineType, error) {
	return s.repo.ListTypes(ctx)
}

func (s *Service) UpdateType(
	ctx context.Context,
	id string,
	req UpdateMachineTypeRequest,
) (*MachineType, error) {
	t, err := s.repo.GetType(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.CostPerHour != nil {
		t.CostPerHour = *req.CostPerHour
	}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		if err := repo.UpdateType(ctx, t); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return ErrNameExists
			}
			return err
		}

		if req.SlotIDs != nil {
			return repo.SetTypeSlots(ctx, id, *req.SlotIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetType(ctx, id)
}

func (s *Service) DeleteType(ctx context.Context, id string) error {
	inUse, err := s.repo.TypeInUse(ctx, id)
	if err != nil {
		return err
	}

	if inUse {
		return ErrTypeInUse
	}

	return s.repo.DeleteType(ctx, id)
}

func (s *Service) CreateGroup(
	ctx context.Context,
	req CreateMachineGroupRequest,
) (*MachineGroup, error) {
	g := &MachineGroup{
		ID:   uuid.New().String(),
		Name: req.Name,
	}

	if err := s.repo.CreateGroup(ctx, g); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrNameExists
		}
		return nil, err
	}

	return g, nil
}

func (s *Service) GetGroup(
	ctx context.Context,
	id string,
) (*MachineGroup, error) {
	return s.repo.GetGroup(ctx, id)
}

func (s *Service) ListGroups(ctx context.Context) ([]MachineGroup, error) {
	return s.repo.ListGroups(ctx)
}

func (s *Service) UpdateGroup(
	ctx context.Context,
	id string,
	req UpdateMachineGroupRequest,
) (*MachineGroup, error) {
	g, err := s.repo.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	g.Name = req.Name

	if err := s.repo.UpdateGroup(ctx, g); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrNameExists
		}
		return nil, err
	}

	return g, nil
}

func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	inUse, err := s.repo.GroupInUse(ctx, id)
	if err != nil {
		return err
	}

	if inUse {
		return ErrGroupInUse
	}

	return s.repo.DeleteGroup(ctx, id)
}
