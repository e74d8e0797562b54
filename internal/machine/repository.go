// AngelaMos | 2026
// repository.go

package machine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/forgeworks/makerspace-backend/internal/core"
	"github.com/forgeworks/makerspace-backend/internal/resource"
)

type Repository interface {
	Create(ctx context.Context, machine *Machine) error
	GetByID(ctx context.Context, id string) (*Machine, error)
	// GetByIDForUpdate locks the machine row for the rest of the
	// transaction; the use/clear/fail paths serialize on it.
	GetByIDForUpdate(ctx context.Context, id string) (*Machine, error)
	List(ctx context.Context) ([]Machine, error)
	Update(ctx context.Context, machine *Machine) error
	SetActiveUsage(ctx context.Context, machineID string, usageID *string) error
	Delete(ctx context.Context, id string) error
	HasUsages(ctx context.Context, id string) (bool, error)

	CreateType(ctx context.Context, t *MachineType) error
	GetType(ctx context.Context, id string) (*MachineType, error)
	ListTypes(ctx context.Context) ([]MachineType, error)
	UpdateType(ctx context.Context, t *MachineType) error
	DeleteType(ctx context.Context, id string) error
	SetTypeSlots(ctx context.Context, typeID string, slotIDs []string) error
	TypeInUse(ctx context.Context, id string) (bool, error)

	CreateGroup(ctx context.Context, g *MachineGroup) error
	GetGroup(ctx context.Context, id string) (*MachineGroup, error)
	ListGroups(ctx context.Context) ([]MachineGroup, error)
	UpdateGroup(ctx context.Context, g *MachineGroup) error
	DeleteGroup(ctx context.Context, id string) error
	GroupInUse(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db        core.DBTX
	resources resource.Repository
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db, resources: resource.NewRepository(db)}
}

const machineColumns = `id, name, machine_type_id, machine_group_id,
	disabled, maintenance, active_usage_id, created_at, updated_at`

func (r *repository) Create(ctx context.Context, machine *Machine) error {
	query := `
		INSERT INTO machines (id, name, machine_type_id, machine_group_id,
		                      disabled, maintenance)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, machine, query,
		machine.ID,
		machine.Name,
		machine.MachineTypeID,
		machine.MachineGroupID,
		machine.Disabled,
		machine.Maintenance,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create machine: %w", core.ErrDuplicateKey)
		}
		if isForeignKeyError(err) {
			return fmt.Errorf("create machine: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create machine: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Machine, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM machines WHERE id = $1",
		machineColumns,
	)
	return r.getMachine(ctx, query, id)
}

func (r *repository) GetByIDForUpdate(
	ctx context.Context,
	id string,
) (*Machine, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM machines WHERE id = $1 FOR UPDATE",
		machineColumns,
	)
	return r.getMachine(ctx, query, id)
}

func (r *repository) getMachine(
	ctx context.Context,
	query, id string,
) (*Machine, error) {
	var machine Machine
	err := r.db.GetContext(ctx, &machine, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get machine: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get machine: %w", err)
	}

	return &machine, nil
}

func (r *repository) List(ctx context.Context) ([]Machine, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM machines ORDER BY name ASC",
		machineColumns,
	)

	var machines []Machine
	if err := r.db.SelectContext(ctx, &machines, query); err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}

	return machines, nil
}

func (r *repository) Update(ctx context.Context, machine *Machine) error {
	query := `
		UPDATE machines
		SET name = $2, machine_type_id = $3, machine_group_id = $4,
		    disabled = $5, maintenance = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &machine.UpdatedAt, query,
		machine.ID,
		machine.Name,
		machine.MachineTypeID,
		machine.MachineGroupID,
		machine.Disabled,
		machine.Maintenance,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update machine: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update machine: %w", core.ErrDuplicateKey)
		}
		if isForeignKeyError(err) {
			return fmt.Errorf("update machine: %w", core.ErrNotFound)
		}
		return fmt.Errorf("update machine: %w", err)
	}

	return nil
}

func (r *repository) SetActiveUsage(
	ctx context.Context,
	machineID string,
	usageID *string,
) error {
	query := `
		UPDATE machines
		SET active_usage_id = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, machineID, usageID)
	if err != nil {
		return fmt.Errorf("set active usage: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set active usage: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set active usage: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM machines WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete machine: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete machine: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete machine: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) HasUsages(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM machine_usages WHERE machine_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check machine usages: %w", err)
	}

	return exists, nil
}

func (r *repository) CreateType(ctx context.Context, t *MachineType) error {
	query := `
		INSERT INTO machine_types (id, name, cost_per_hour)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, t, query, t.ID, t.Name, t.CostPerHour)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create machine type: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create machine type: %w", err)
	}

	return nil
}

func (r *repository) GetType(
	ctx context.Context,
	id string,
) (*MachineType, error) {
	query := `
		SELECT id, name, cost_per_hour, created_at, updated_at
		FROM machine_types
		WHERE id = $1`

	var t MachineType
	err := r.db.GetContext(ctx, &t, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get machine type: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get machine type: %w", err)
	}

	if err := r.loadTypeSlots(ctx, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *repository) ListTypes(ctx context.Context) ([]MachineType, error) {
	query := `
		SELECT id, name, cost_per_hour, created_at, updated_at
		FROM machine_types
		ORDER BY name ASC`

	var types []MachineType
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("list machine types: %w", err)
	}

	for i := range types {
		if err := r.loadTypeSlots(ctx, &types[i]); err != nil {
			return nil, err
		}
	}

	return types, nil
}

func (r *repository) loadTypeSlots(
	ctx context.Context,
	t *MachineType,
) error {
	query := `
		SELECT s.id, s.db_name, s.display_name, s.allow_own_material,
		       s.allow_empty, s.created_at, s.updated_at
		FROM resource_slots s
		JOIN machine_type_slots mts ON mts.slot_id = s.id
		WHERE mts.machine_type_id = $1
		ORDER BY s.db_name ASC`

	var slots []resource.Slot
	if err := r.db.SelectContext(ctx, &slots, query, t.ID); err != nil {
		return fmt.Errorf("load type slots: %w", err)
	}

	if err := r.resources.LoadSlotResources(ctx, slots); err != nil {
		return err
	}

	t.Slots = slots
	return nil
}

func (r *repository) UpdateType(ctx context.Context, t *MachineType) error {
	query := `
		UPDATE machine_types
		SET name = $2, cost_per_hour = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &t.UpdatedAt, query, t.ID, t.Name, t.CostPerHour)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update machine type: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update machine type: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update machine type: %w", err)
	}

	return nil
}

func (r *repository) DeleteType(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM machine_types WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete machine type: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete machine type: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete machine type: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetTypeSlots(
	ctx context.Context,
	typeID string,
	slotIDs []string,
) error {
	query := `DELETE FROM machine_type_slots WHERE machine_type_id = $1`
	if _, err := r.db.ExecContext(ctx, query, typeID); err != nil {
		return fmt.Errorf("clear type slots: %w", err)
	}

	for _, slotID := range slotIDs {
		insert := `
			INSERT INTO machine_type_slots (machine_type_id, slot_id)
			VALUES ($1, $2)`
		if _, err := r.db.ExecContext(ctx, insert, typeID, slotID); err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf(
					"add type slot %s: %w",
					slotID,
					core.ErrNotFound,
				)
			}
			return fmt.Errorf("add type slot: %w", err)
		}
	}

	return nil
}

func (r *repository) TypeInUse(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM machines WHERE machine_type_id = $1)`

	var inUse bool
	if err := r.db.GetContext(ctx, &inUse, query, id); err != nil {
		return false, fmt.Errorf("check type in use: %w", err)
	}

	return inUse, nil
}

func (r *repository) CreateGroup(ctx context.Context, g *MachineGroup) error {
	query := `
		INSERT INTO machine_groups (id, name)
		VALUES ($1, $2)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, g, query, g.ID, g.Name)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create machine group: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create machine group: %w", err)
	}

	return nil
}

func (r *repository) GetGroup(
	ctx context.Context,
	id string,
) (*MachineGroup, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM machine_groups
		WHERE id = $1`

	var g MachineGroup
	err := r.db.GetContext(ctx, &g, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get machine group: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get machine group: %w", err)
	}

	return &g, nil
}

func (r *repository) ListGroups(ctx context.Context) ([]MachineGroup, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM machine_groups
		ORDER BY name ASC`

	var groups []MachineGroup
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list machine groups: %w", err)
	}

	return groups, nil
}

func (r *repository) UpdateGroup(ctx context.Context, g *MachineGroup) error {
	query := `
		UPDATE machine_groups
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &g.UpdatedAt, query, g.ID, g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update machine group: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update machine group: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update machine group: %w", err)
	}

	return nil
}

func (r *repository) DeleteGroup(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM machine_groups WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete machine group: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete machine group: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete machine group: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) GroupInUse(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM machines WHERE machine_group_id = $1)`

	var inUse bool
	if err := r.db.GetContext(ctx, &inUse, query, id); err != nil {
		return false, fmt.Errorf("check group in use: %w", err)
	}

	return inUse, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
