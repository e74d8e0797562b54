// AngelaMos | 2026
// repository.go

package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/forgeworks/makerspace-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, usage *Usage) error
	CreateLineItems(ctx context.Context, items []LineItem) error
	GetByID(ctx context.Context, id string) (*Usage, error)
	ListByUser(
		ctx context.Context,
		userID string,
		params ListUsagesParams,
	) ([]Usage, int, error)
	CurrentByUser(ctx context.Context, userID string) ([]Usage, error)
	MarkFailed(ctx context.Context, id string) (*Usage, error)
	LoadLines(ctx context.Context, usage *Usage) error
	ChargesForSemester(ctx context.Context, semesterID string) ([]ChargeRow, error)
	StatusRows(ctx context.Context) ([]StatusRow, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const usageColumns = `id, machine_id, user_id, semester_id, time_started,
	duration_seconds, failed, failed_at, cost`

func (r *repository) Create(ctx context.Context, usage *Usage) error {
	query := `
		INSERT INTO machine_usages (id, machine_id, user_id, semester_id,
		                            time_started, duration_seconds, cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		usage.ID,
		usage.MachineID,
		usage.UserID,
		usage.SemesterID,
		usage.TimeStarted,
		usage.DurationSeconds,
		usage.Cost,
	)
	if err != nil {
		return fmt.Errorf("create usage: %w", err)
	}

	return nil
}

func (r *repository) CreateLineItems(
	ctx context.Context,
	items []LineItem,
) error {
	query := `
		INSERT INTO resource_usage_quantities
			(usage_id, slot_id, resource_id, amount,
			 is_own_material, cost_per_unit_at_usage)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, item := range items {
		_, err := r.db.ExecContext(ctx, query,
			item.UsageID,
			item.SlotID,
			item.ResourceID,
			item.Amount,
			item.IsOwnMaterial,
			item.CostPerUnitAtUsage,
		)
		if err != nil {
			return fmt.Errorf("create usage line item: %w", err)
		}
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Usage, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM machine_usages WHERE id = $1",
		usageColumns,
	)

	var usage Usage
	err := r.db.GetContext(ctx, &usage, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get usage: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get usage: %w", err)
	}

	if err := r.LoadLines(ctx, &usage); err != nil {
		return nil, err
	}

	return &usage, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
	params ListUsagesParams,
) ([]Usage, int, error) {
	params.Normalize()

	var total int
	countQuery := `SELECT COUNT(*) FROM machine_usages WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("count usages: %w", err)
	}

	direction := "ASC"
	if params.Desc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM machine_usages
		WHERE user_id = $1
		ORDER BY time_started %s
		LIMIT $2 OFFSET $3`,
		usageColumns, direction)

	var usages []Usage
	err := r.db.SelectContext(
		ctx,
		&usages,
		query,
		userID,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list usages: %w", err)
	}

	for i := range usages {
		if err := r.LoadLines(ctx, &usages[i]); err != nil {
			return nil, 0, err
		}
	}

	return usages, total, nil
}

// CurrentByUser returns the user's usages still active on a machine.
func (r *repository) CurrentByUser(
	ctx context.Context,
	userID string,
) ([]Usage, error) {
	query := `
		SELECT u.id, u.machine_id, u.user_id, u.semester_id, u.time_started,
		       u.duration_seconds, u.failed, u.failed_at, u.cost
		FROM machine_usages u
		WHERE u.user_id = $1
		  AND EXISTS(
		      SELECT 1 FROM machines m WHERE m.active_usage_id = u.id
		  )
		ORDER BY u.time_started DESC`

	var usages []Usage
	if err := r.db.SelectContext(ctx, &usages, query, userID); err != nil {
		return nil, fmt.Errorf("current usages: %w", err)
	}

	for i := range usages {
		if err := r.LoadLines(ctx, &usages[i]); err != nil {
			return nil, err
		}
	}

	return usages, nil
}

func (r *repository) MarkFailed(
	ctx context.Context,
	id string,
) (*Usage, error) {
	query := `
		UPDATE machine_usages
		SET failed = TRUE, failed_at = NOW()
		WHERE id = $1
		RETURNING failed_at`

	var failedAt time.Time
	err := r.db.GetContext(ctx, &failedAt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mark usage failed: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("mark usage failed: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *repository) LoadLines(ctx context.Context, usage *Usage) error {
	query := `
		SELECT usage_id, slot_id, resource_id, amount,
		       is_own_material, cost_per_unit_at_usage
		FROM resource_usage_quantities
		WHERE usage_id = $1`

	var lines []LineItem
	if err := r.db.SelectContext(ctx, &lines, query, usage.ID); err != nil {
		return fmt.Errorf("load usage lines: %w", err)
	}

	usage.Lines = lines
	return nil
}

// ChargesForSemester sums every user's non-failed usage costs in the
// semester. Users with no usages are omitted.
func (r *repository) ChargesForSemester(
	ctx context.Context,
	semesterID string,
) ([]ChargeRow, error) {
	query := `
		SELECT u.id AS user_id, u.campus_id, u.first_name, u.last_name,
		       u.is_graduating, SUM(mu.cost) AS total
		FROM machine_usages mu
		JOIN users u ON u.id = mu.user_id
		WHERE mu.semester_id = $1 AND mu.failed = FALSE
		GROUP BY u.id, u.campus_id, u.first_name, u.last_name, u.is_graduating
		ORDER BY u.last_name ASC, u.first_name ASC`

	var rows []ChargeRow
	if err := r.db.SelectContext(ctx, &rows, query, semesterID); err != nil {
		return nil, fmt.Errorf("semester charges: %w", err)
	}

	return rows, nil
}

func (r *repository) StatusRows(ctx context.Context) ([]StatusRow, error) {
	query := `
		SELECT m.id AS machine_id, m.name AS machine_name,
		       g.id AS group_id, g.name AS group_name,
		       m.disabled, m.maintenance,
		       m.active_usage_id IS NOT NULL AS in_use,
		       mu.failed, mu.time_started, mu.duration_seconds,
		       usr.first_name, usr.last_name
		FROM machines m
		LEFT JOIN machine_groups g ON g.id = m.machine_group_id
		LEFT JOIN machine_usages mu ON mu.id = m.active_usage_id
		LEFT JOIN users usr ON usr.id = mu.user_id
		ORDER BY g.name ASC NULLS LAST, m.name ASC`

	var rows []StatusRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("machine status rows: %w", err)
	}

	return rows, nil
}
