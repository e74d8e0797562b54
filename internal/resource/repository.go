// AngelaMos | 2026
// repository.go

package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/forgeworks/makerspace-backend/internal/core"
)

type Repository interface {
	CreateResource(ctx context.Context, resource *Resource) error
	GetResource(ctx context.Context, id string) (*Resource, error)
	ListResources(ctx context.Context) ([]Resource, error)
	UpdateResource(ctx context.Context, resource *Resource) error
	DeleteResource(ctx context.Context, id string) error
	ResourceInUse(ctx context.Context, id string) (bool, error)

	CreateSlot(ctx context.Context, slot *Slot) error
	GetSlot(ctx context.Context, id string) (*Slot, error)
	ListSlots(ctx context.Context) ([]Slot, error)
	UpdateSlot(ctx context.Context, slot *Slot) error
	DeleteSlot(ctx context.Context, id string) error
	SetSlotResources(ctx context.Context, slotID string, resourceIDs []string) error
	LoadSlotResources(ctx context.Context, slots []Slot) error
	SlotInUse(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CreateResource(
	ctx context.Context,
	resource *Resource,
) error {
	query := `
		INSERT INTO resources (id, brand, name, units, cost)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, resource, query,
		resource.ID,
		resource.Brand,
		resource.Name,
		resource.Units,
		resource.Cost,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create resource: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create resource: %w", err)
	}

	return nil
}

func (r *repository) GetResource(
	ctx context.Context,
	id string,
) (*Resource, error) {
	query := `
		SELECT id, brand, name, units, cost, created_at, updated_at
		FROM resources
		WHERE id = $1`

	var resource Resource
	err := r.db.GetContext(ctx, &resource, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get resource: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get resource: %w", err)
	}

	return &resource, nil
}

func (r *repository) ListResources(ctx context.Context) ([]Resource, error) {
	query := `
		SELECT id, brand, name, units, cost, created_at, updated_at
		FROM resources
		ORDER BY brand ASC, name ASC, units ASC`

	var resources []Resource
	if err := r.db.SelectContext(ctx, &resources, query); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	return resources, nil
}

func (r *repository) UpdateResource(
	ctx context.Context,
	resource *Resource,
) error {
	query := `
		UPDATE resources
		SET brand = $2, name = $3, units = $4, cost = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &resource.UpdatedAt, query,
		resource.ID,
		resource.Brand,
		resource.Name,
		resource.Units,
		resource.Cost,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update resource: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update resource: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update resource: %w", err)
	}

	return nil
}

func (r *repository) DeleteResource(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM resources WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete resource: %w", core.ErrNotFound)
	}

	return nil
}

// ResourceInUse reports whether any slot membership or usage line item
// still references the resource.
func (r *repository) ResourceInUse(
	ctx context.Context,
	id string,
) (bool, error) {
	query := `
		SELECT EXISTS(SELECT 1 FROM slot_resources WHERE resource_id = $1)
		    OR EXISTS(SELECT 1 FROM resource_usage_quantities WHERE resource_id = $1)`

	var inUse bool
	if err := r.db.GetContext(ctx, &inUse, query, id); err != nil {
		return false, fmt.Errorf("check resource in use: %w", err)
	}

	return inUse, nil
}

func (r *repository) CreateSlot(ctx context.Context, slot *Slot) error {
	query := `
		INSERT INTO resource_slots (id, db_name, display_name,
		                            allow_own_material, allow_empty)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, slot, query,
		slot.ID,
		slot.DBName,
		slot.DisplayName,
		slot.AllowOwnMaterial,
		slot.AllowEmpty,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create slot: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

func (r *repository) GetSlot(ctx context.Context, id string) (*Slot, error) {
	query := `
		SELECT id, db_name, display_name, allow_own_material, allow_empty,
		       created_at, updated_at
		FROM resource_slots
		WHERE id = $1`

	var slot Slot
	err := r.db.GetContext(ctx, &slot, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get slot: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}

	slots := []Slot{slot}
	if err := r.LoadSlotResources(ctx, slots); err != nil {
		return nil, err
	}

	return &slots[0], nil
}

func (r *repository) ListSlots(ctx context.Context) ([]Slot, error) {
	query := `
		SELECT id, db_name, display_name, allow_own_material, allow_empty,
		       created_at, updated_at
		FROM resource_slots
		ORDER BY db_name ASC`

	var slots []Slot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	if err := r.LoadSlotResources(ctx, slots); err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *repository) UpdateSlot(ctx context.Context, slot *Slot) error {
	query := `
		UPDATE resource_slots
		SET db_name = $2, display_name = $3, allow_own_material = $4,
		    allow_empty = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &slot.UpdatedAt, query,
		slot.ID,
		slot.DBName,
		slot.DisplayName,
		slot.AllowOwnMaterial,
		slot.AllowEmpty,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update slot: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update slot: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update slot: %w", err)
	}

	return nil
}

func (r *repository) DeleteSlot(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM resource_slots WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete slot: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetSlotResources(
	ctx context.Context,
	slotID string,
	resourceIDs []string,
) error {
	query := `DELETE FROM slot_resources WHERE slot_id = $1`
	if _, err := r.db.ExecContext(ctx, query, slotID); err != nil {
		return fmt.Errorf("clear slot resources: %w", err)
	}

	for _, resourceID := range resourceIDs {
		insert := `INSERT INTO slot_resources (slot_id, resource_id) VALUES ($1, $2)`
		if _, err := r.db.ExecContext(ctx, insert, slotID, resourceID); err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf(
					"add slot resource %s: %w",
					resourceID,
					core.ErrNotFound,
				)
			}
			return fmt.Errorf("add slot resource: %w", err)
		}
	}

	return nil
}

// LoadSlotResources fills ValidResources for every slot in place.
func (r *repository) LoadSlotResources(
	ctx context.Context,
	slots []Slot,
) error {
	if len(slots) == 0 {
		return nil
	}

	ids := make([]string, 0, len(slots))
	for i := range slots {
		ids = append(ids, slots[i].ID)
	}

	query, args, err := sqlx.In(`
		SELECT sr.slot_id, r.id, r.brand, r.name, r.units, r.cost,
		       r.created_at, r.updated_at
		FROM slot_resources sr
		JOIN resources r ON r.id = sr.resource_id
		WHERE sr.slot_id IN (?)
		ORDER BY r.brand ASC, r.name ASC`, ids)
	if err != nil {
		return fmt.Errorf("load slot resources: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, sqlx.Rebind(sqlx.DOLLAR, query), args...)
	if err != nil {
		return fmt.Errorf("load slot resources: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	bySlot := make(map[string][]Resource, len(slots))
	for rows.Next() {
		var slotID string
		var res Resource
		err := rows.Scan(
			&slotID,
			&res.ID,
			&res.Brand,
			&res.Name,
			&res.Units,
			&res.Cost,
			&res.CreatedAt,
			&res.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("scan slot resource: %w", err)
		}
		bySlot[slotID] = append(bySlot[slotID], res)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load slot resources: %w", err)
	}

	for i := range slots {
		slots[i].ValidResources = bySlot[slots[i].ID]
	}

	return nil
}

// SlotInUse reports whether any machine type still carries the slot.
func (r *repository) SlotInUse(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM machine_type_slots WHERE slot_id = $1)`

	var inUse bool
	if err := r.db.GetContext(ctx, &inUse, query, id); err != nil {
		return false, fmt.Errorf("check slot in use: %w", err)
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
