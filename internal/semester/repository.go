// AngelaMos | 2026
// repository.go

package semester

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/forgeworks/makerspace-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, semester *Semester) error
	GetByID(ctx context.Context, id string) (*Semester, error)
	GetBySeasonYear(ctx context.Context, season Season, year int) (*Semester, error)
	List(ctx context.Context) ([]Semester, error)
	Update(ctx context.Context, semester *Semester) error
	Delete(ctx context.Context, id string) error
	HasUsages(ctx context.Context, id string) (bool, error)

	GetState(ctx context.Context) (*State, error)
	SetActiveSemester(ctx context.Context, semesterID *string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, semester *Semester) error {
	query := `
		INSERT INTO semesters (id, season, year)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, semester, query,
		semester.ID,
		semester.Season,
		semester.Year,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create semester: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create semester: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Semester, error) {
	query := `
		SELECT id, season, year, created_at, updated_at
		FROM semesters
		WHERE id = $1`

	var semester Semester
	err := r.db.GetContext(ctx, &semester, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get semester: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get semester: %w", err)
	}

	return &semester, nil
}

func (r *repository) GetBySeasonYear(
	ctx context.Context,
	season Season,
	year int,
) (*Semester, error) {
	query := `
		SELECT id, season, year, created_at, updated_at
		FROM semesters
		WHERE season = $1 AND year = $2`

	var semester Semester
	err := r.db.GetContext(ctx, &semester, query, season, year)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get semester: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get semester: %w", err)
	}

	return &semester, nil
}

func (r *repository) List(ctx context.Context) ([]Semester, error) {
	query := `
		SELECT id, season, year, created_at, updated_at
		FROM semesters
		ORDER BY year ASC,
		         CASE season
		             WHEN 'spring' THEN 0
		             WHEN 'summer' THEN 1
		             ELSE 2
		         END ASC`

	var semesters []Semester
	if err := r.db.SelectContext(ctx, &semesters, query); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}

	return semesters, nil
}

func (r *repository) Update(ctx context.Context, semester *Semester) error {
	query := `
		UPDATE semesters
		SET season = $2, year = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &semester.UpdatedAt, query,
		semester.ID,
		semester.Season,
		semester.Year,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update semester: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update semester: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update semester: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM semesters WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete semester: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete semester: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete semester: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) HasUsages(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM machine_usages WHERE semester_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check semester usages: %w", err)
	}

	return exists, nil
}

func (r *repository) GetState(ctx context.Context) (*State, error) {
	query := `
		SELECT unique_id, active_semester_id
		FROM state
		WHERE unique_id = $1`

	var state State
	err := r.db.GetContext(ctx, &state, query, StateUniqueID)
	if errors.Is(err, sql.ErrNoRows) {
		// The singleton row is created lazily.
		return &State{UniqueID: StateUniqueID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}

	return &state, nil
}

func (r *repository) SetActiveSemester(
	ctx context.Context,
	semesterID *string,
) error {
	query := `
		INSERT INTO state (unique_id, active_semester_id)
		VALUES ($1, $2)
		ON CONFLICT (unique_id)
		DO UPDATE SET active_semester_id = EXCLUDED.active_semester_id`

	if _, err := r.db.ExecContext(ctx, query, StateUniqueID, semesterID); err != nil {
		return fmt.Errorf("set active semester: %w", err)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
