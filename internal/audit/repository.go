// AngelaMos | 2026
// repository.go

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forgeworks/makerspace-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, typ string, content Content) (*Entry, error)
	List(ctx context.Context, params ListParams) ([]Entry, error)
}

// ListParams filters log entries. ContentFilter uses JSONB containment,
/// so {"user": "abc"} matches any entry whose content embeds that pair.
type ListParams struct {
	Type          string
	ContentFilter Content
	Since         *time.Time
	Until         *time.Time
	Limit         int
}

type repository struct {
	db core.DBTX
}

// NewRepository accepts any DBTX so audit writes can join the
// transaction of the mutation they describe.
func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	typ string,
	content Content,
) (*Entry, error) {
	entry := &Entry{
		ID:      uuid.New().String(),
		Type:    typ,
		Content: content,
	}

	query := `
		INSERT INTO audit_log (id, type, content)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(
		ctx,
		&entry.CreatedAt,
		query,
		entry.ID,
		entry.Type,
		entry.Content,
	)
	if err != nil {
		return nil, fmt.Errorf("create audit entry: %w", err)
	}

	return entry, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Entry, error) {
	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, params.Type)
		argIdx++
	}

	if len(params.ContentFilter) > 0 {
		filter, err := json.Marshal(params.ContentFilter)
		if err != nil {
			return nil, fmt.Errorf("marshal content filter: %w", err)
		}
		conditions = append(conditions, fmt.Sprintf("content @> $%d", argIdx))
		args = append(args, filter)
		argIdx++
	}

	if params.Since != nil {
		conditions = append(
			conditions,
			fmt.Sprintf("created_at >= $%d", argIdx),
		)
		args = append(args, *params.Since)
		argIdx++
	}

	if params.Until != nil {
		conditions = append(
			conditions,
			fmt.Sprintf("created_at <= $%d", argIdx),
		)
		args = append(args, *params.Until)
		argIdx++
	}

	limit := params.Limit
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}

	query := fmt.Sprintf(`
		SELECT id, type, content, created_at
		FROM audit_log
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d`,
		strings.Join(conditions, " AND "), argIdx)

	args = append(args, limit)

	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	return entries, nil
}
