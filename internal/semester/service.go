// AngelaMos | 2026
// service.go

package semester

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/forgeworks/makerspace-backend/internal/audit"
	"github.com/forgeworks/makerspace-backend/internal/core"
)

var (
	ErrSemesterExists = errors.New("semester already exists")
	ErrHasUsages      = errors.New("semester has recorded usages")
	ErrNoActive       = errors.New("no active semester")
)

type Service struct {
	db   *sqlx.DB
	repo Repository
}

func NewService(db *sqlx.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// ActiveSemesterID satisfies user.ActiveSemesterSource.
func (s *Service) ActiveSemesterID(ctx context.Context) (*string, error) {
	state, err := s.repo.GetState(ctx)
	if err != nil {
		return nil, err
	}
	return state.ActiveSemesterID, nil
}

func (s *Service) ActiveSemester(ctx context.Context) (*Semester, error) {
	state, err := s.repo.GetState(ctx)
	if err != nil {
		return nil, err
	}

	if state.ActiveSemesterID == nil {
		return nil, nil
	}

	return s.repo.GetByID(ctx, *state.ActiveSemesterID)
}

func (s *Service) GetSemester(
	ctx context.Context,
	id string,
) (*Semester, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListSemesters(ctx context.Context) ([]Semester, error) {
	return s.repo.List(ctx)
}

func (s *Service) CreateSemester(
	ctx context.Context,
	actorID string,
	req CreateSemesterRequest,
) (*Semester, error) {
	semester := &Semester{
		ID:     uuid.New().String(),
		Season: req.Season,
		Year:   req.Year,
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := NewRepository(tx).Create(ctx, semester); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return ErrSemesterExists
			}
			return err
		}

		_, err := audit.NewRepository(tx).Create(
			ctx,
			audit.TypeSemesterCreated,
			semesterAuditContent(actorID, semester),
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return semester, nil
}

func (s *Service) UpdateSemester(
	ctx context.Context,
	actorID, id string,
	req UpdateSemesterRequest,
) (*Semester, error) {
	semester, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Season != nil {
		semester.Season = *req.Season
	}
	if req.Year != nil {
		semester.Year = *req.Year
	}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := NewRepository(tx).Update(ctx, semester); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return ErrSemesterExists
			}
			return err
		}

		_, err := audit.NewRepository(tx).Create(
			ctx,
			audit.TypeSemesterEdited,
			semesterAuditContent(actorID, semester),
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return semester, nil
}

func (s *Service) DeleteSemester(
	ctx context.Context,
	actorID, id string,
) error {
	semester, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	hasUsages, err := s.repo.HasUsages(ctx, id)
	if err != nil {
		return err
	}
	if hasUsages {
		return ErrHasUsages
	}

	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		// Deleting the active semester drops the makerspace into the
		// between-semesters state.
		state, err := repo.GetState(ctx)
		if err != nil {
			return err
		}
		if state.ActiveSemesterID != nil && *state.ActiveSemesterID == id {
			if err := repo.SetActiveSemester(ctx, nil); err != nil {
				return err
			}
		}

		if err := repo.Delete(ctx, id); err != nil {
			return err
		}

		_, err = audit.NewRepository(tx).Create(
			ctx,
			audit.TypeSemesterDeleted,
			semesterAuditContent(actorID, semester),
		)
		return err
	})
}

// SetActiveSemester switches the active semester; a nil ID clears it.
func (s *Service) SetActiveSemester(
	ctx context.Context,
	actorID string,
	semesterID *string,
) (*Semester, error) {
	var semester *Semester
	if semesterID != nil {
		var err error
		semester, err = s.repo.GetByID(ctx, *semesterID)
		if err != nil {
			return nil, err
		}
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := NewRepository(tx).SetActiveSemester(ctx, semesterID); err != nil {
			return err
		}

		content := audit.Content{"actor": actorID}
		if semester != nil {
			content["semester"] = semester.Label()
			content["semester_id"] = semester.ID
		} else {
			content["semester"] = nil
		}

		_, err := audit.NewRepository(tx).Create(
			ctx,
			audit.TypeActiveSemesterChange,
			content,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return semester, nil
}

// AdvanceSemester activates the semester following the current one,
// creating it first if it does not exist yet.
func (s *Service) AdvanceSemester(
	ctx context.Context,
	actorID string,
) (*Semester, error) {
	current, err := s.ActiveSemester(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNoActive
	}

	nextSeason, wraps := current.Season.Next()
	nextYear := current.Year
	if wraps {
		nextYear++
	}

	next, err := s.repo.GetBySeasonYear(ctx, nextSeason, nextYear)
	if errors.Is(err, core.ErrNotFound) {
		next, err = s.CreateSemester(ctx, actorID, CreateSemesterRequest{
			Season: nextSeason,
			Year:   nextYear,
		})
	}
	if err != nil {
		return nil, err
	}

	return s.SetActiveSemester(ctx, actorID, &next.ID)
}

func semesterAuditContent(actorID string, semester *Semester) audit.Content {
	return audit.Content{
		"actor":       actorID,
		"semester_id": semester.ID,
		"season":      semester.Season,
		"year":        semester.Year,
	}
}
