// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/forgeworks/makerspace-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByCampusID(ctx context.Context, campusID string) (*User, error)
	GetByStudentID(ctx context.Context, studentID string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	SetRoles(ctx context.Context, userID string, roleIDs []string) error
	RoleIDs(ctx context.Context, userID string) ([]string, error)
	SemesterBalance(
		ctx context.Context,
		userID, semesterID string,
	) (decimal.Decimal, error)
	HasUsages(ctx context.Context, userID string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, campus_id, student_id, first_name, last_name,
	major, gender_identity, pronouns, password_hash,
	is_staff, is_graduating, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, campus_id, student_id, first_name, last_name,
		                   major, gender_identity, pronouns, password_hash,
		                   is_staff, is_graduating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.CampusID,
		user.StudentID,
		user.FirstName,
		user.LastName,
		user.Major,
		user.GenderIdentity,
		user.Pronouns,
		user.PasswordHash,
		user.IsStaff,
		user.IsGraduating,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *repository) GetByCampusID(
	ctx context.Context,
	campusID string,
) (*User, error) {
	return r.getBy(ctx, "campus_id", campusID)
}

func (r *repository) GetByStudentID(
	ctx context.Context,
	studentID string,
) (*User, error) {
	return r.getBy(ctx, "student_id", studentID)
}

func (r *repository) getBy(
	ctx context.Context,
	column, value string,
) (*User, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM users WHERE %s = $1",
		userColumns,
		column,
	)

	var user User
	err := r.db.GetContext(ctx, &user, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET campus_id = $2, student_id = $3, first_name = $4, last_name = $5,
		    major = $6, gender_identity = $7, pronouns = $8,
		    is_staff = $9, is_graduating = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.CampusID,
		user.StudentID,
		user.FirstName,
		user.LastName,
		user.Major,
		user.GenderIdentity,
		user.Pronouns,
		user.IsStaff,
		user.IsGraduating,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(campus_id ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	direction := "ASC"
	if params.Desc {
		direction = "DESC"
	}

	// params.Normalize pins OrderBy to a known column name.
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, params.OrderBy, direction, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) SetRoles(
	ctx context.Context,
	userID string,
	roleIDs []string,
) error {
	query := `DELETE FROM user_roles WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("clear user roles: %w", err)
	}

	for _, roleID := range roleIDs {
		insert := `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`
		if _, err := r.db.ExecContext(ctx, insert, userID, roleID); err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf(
					"assign role %s: %w",
					roleID,
					core.ErrNotFound,
				)
			}
			return fmt.Errorf("assign role: %w", err)
		}
	}

	return nil
}

func (r *repository) RoleIDs(
	ctx context.Context,
	userID string,
) ([]string, error) {
	query := `SELECT role_id FROM user_roles WHERE user_id = $1`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("get user role ids: %w", err)
	}

	return ids, nil
}

// SemesterBalance sums the cost of the user's non-failed usages in one
// semester.
func (r *repository) SemesterBalance(
	ctx context.Context,
	userID, semesterID string,
) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(cost), 0)
		FROM machine_usages
		WHERE user_id = $1 AND semester_id = $2 AND failed = FALSE`

	var balance decimal.Decimal
	err := r.db.GetContext(ctx, &balance, query, userID, semesterID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("semester balance: %w", err)
	}

	return balance, nil
}

func (r *repository) HasUsages(
	ctx context.Context,
	userID string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM machine_usages WHERE user_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, fmt.Errorf("check user usages: %w", err)
	}

	return exists, nil
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

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
