// AngelaMos | 2026
// service.go

package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/forgeworks/makerspace-backend/internal/audit"
	"github.com/forgeworks/makerspace-backend/internal/core"
	"github.com/forgeworks/makerspace-backend/internal/machine"
	"github.com/forgeworks/makerspace-backend/internal/permission"
	"github.com/forgeworks/makerspace-backend/internal/semester"
)

var (
	ErrMachineInUse     = errors.New("machine has an active usage")
	ErrMachineIdle      = errors.New("machine has no active usage")
	ErrBetweenSemesters = errors.New("no active semester")
)

const statusCacheKey = "machinestatus"

type Service struct {
	db        *sqlx.DB
	repo      Repository
	machines  machine.Repository
	semesters semester.Repository
	auditLog  audit.Repository
	redis     *redis.Client
	statusTTL time.Duration
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	machines machine.Repository,
	semesters semester.Repository,
	auditLog audit.Repository,
	redisClient *redis.Client,
	statusTTL time.Duration,
) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		machines:  machines,
		semesters: semesters,
		auditLog:  auditLog,
		redis:     redisClient,
		statusTTL: statusTTL,
	}
}

// Schema returns the machine with its full type graph. Disabled
// machines are hidden from users who cannot edit machines.
func (s *Service) Schema(
	ctx context.Context,
	machineID string,
	perms permission.Set,
) (*machine.Machine, error) {
	m, err := s.machines.GetByID(ctx, machineID)
	if err != nil {
		return nil, err
	}

	if m.Disabled && !canSeeDisabled(perms) {
		return nil, fmt.Errorf("get machine: %w", core.ErrNotFound)
	}

	t, err := s.machines.GetType(ctx, m.MachineTypeID)
	if err != nil {
		return nil, err
	}
	m.Type = t

	return m, nil
}

// Use starts a machine usage: it locks the machine row, prices the
// job, persists the usage with its line items, and marks the machine
// busy, all in one transaction. A second caller racing on the same
// machine blocks on the row lock and then sees the active usage.
func (s *Service) Use(
	ctx context.Context,
	userID string,
	perms permission.Set,
	machineID string,
	req UseRequest,
) (*Usage, *CostBreakdown, error) {
	var usage *Usage
	var breakdown *CostBreakdown

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		machines := machine.NewRepository(tx)

		m, err := machines.GetByIDForUpdate(ctx, machineID)
		if err != nil {
			return err
		}

		if m.Disabled && !canSeeDisabled(perms) {
			return fmt.Errorf("get machine: %w", core.ErrNotFound)
		}

		if m.ActiveUsageID != nil {
			return ErrMachineInUse
		}

		state, err := semester.NewRepository(tx).GetState(ctx)
		if err != nil {
			return err
		}
		if state.ActiveSemesterID == nil &&
			!perms.Has(permission.CanUseMachinesBetweenSemesters) &&
			!perms.IsSuperuser() {
			return ErrBetweenSemesters
		}

		t, err := machines.GetType(ctx, m.MachineTypeID)
		if err != nil {
			return err
		}

		selections := make([]SlotSelection, 0, len(req.Selections))
		for _, sel := range req.Selections {
			selections = append(selections, SlotSelection{
				SlotID:        sel.SlotID,
				ResourceID:    sel.ResourceID,
				Amount:        sel.Amount,
				IsOwnMaterial: sel.IsOwnMaterial,
			})
		}

		breakdown, err = ComputeCost(t, req.DurationSeconds, selections)
		if err != nil {
			return err
		}

		usage = &Usage{
			ID:              uuid.New().String(),
			MachineID:       m.ID,
			UserID:          userID,
			SemesterID:      state.ActiveSemesterID,
			TimeStarted:     time.Now(),
			DurationSeconds: req.DurationSeconds,
			Cost:            breakdown.Total,
		}

		repo := NewRepository(tx)
		if err := repo.Create(ctx, usage); err != nil {
			return err
		}

		items := make([]LineItem, 0, len(breakdown.Lines))
		for _, line := range breakdown.Lines {
			items = append(items, LineItem{
				UsageID:            usage.ID,
				SlotID:             line.SlotID,
				ResourceID:         line.ResourceID,
				Amount:             line.Amount,
				IsOwnMaterial:      line.IsOwnMaterial,
				CostPerUnitAtUsage: line.CostPerUnit,
			})
		}
		if err := repo.CreateLineItems(ctx, items); err != nil {
			return err
		}
		usage.Lines = items

		if err := machines.SetActiveUsage(ctx, m.ID, &usage.ID); err != nil {
			return err
		}

		_, err = audit.NewRepository(tx).Create(ctx, audit.TypeMachineUsed,
			audit.Content{
				"user":             userID,
				"machine":          m.ID,
				"machine_name":     m.Name,
				"usage":            usage.ID,
				"duration_seconds": req.DurationSeconds,
				"cost":             breakdown.Total.StringFixed(2),
			})
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.invalidateStatusCache(ctx)

	return usage, breakdown, nil
}

// Clear releases a machine after a finished job.
func (s *Service) Clear(ctx context.Context, actorID, machineID string) error {
	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		machines := machine.NewRepository(tx)

		m, err := machines.GetByIDForUpdate(ctx, machineID)
		if err != nil {
			return err
		}

		if m.ActiveUsageID == nil {
			return ErrMachineIdle
		}

		if err := machines.SetActiveUsage(ctx, m.ID, nil); err != nil {
			return err
		}

		_, err = audit.NewRepository(tx).Create(
			ctx,
			audit.TypeMachineUsageCleared,
			audit.Content{
				"actor":        actorID,
				"machine":      m.ID,
				"machine_name": m.Name,
				"usage":        *m.ActiveUsageID,
			},
		)
		return err
	})
	if err != nil {
		return err
	}

	s.invalidateStatusCache(ctx)
	return nil
}

// Fail marks the machine's active usage as failed and releases the
// machine. Failed usages drop out of balances and charge sheets.
func (s *Service) Fail(
	ctx context.Context,
	actorID, machineID string,
) (*Usage, error) {
	var failed *Usage

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		machines := machine.NewRepository(tx)

		m, err := machines.GetByIDForUpdate(ctx, machineID)
		if err != nil {
			return err
		}

		if m.ActiveUsageID == nil {
			return ErrMachineIdle
		}

		failed, err = NewRepository(tx).MarkFailed(ctx, *m.ActiveUsageID)
		if err != nil {
			return err
		}

		if err := machines.SetActiveUsage(ctx, m.ID, nil); err != nil {
			return err
		}

		_, err = audit.NewRepository(tx).Create(
			ctx,
			audit.TypeMachineUsageFailed,
			audit.Content{
				"actor":        actorID,
				"machine":      m.ID,
				"machine_name": m.Name,
				"usage":        failed.ID,
				"user":         failed.UserID,
			},
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStatusCache(ctx)
	return failed, nil
}

func (s *Service) ListMine(
	ctx context.Context,
	userID string,
	params ListUsagesParams,
) ([]Usage, int, error) {
	return s.repo.ListByUser(ctx, userID, params)
}

func (s *Service) CurrentMine(
	ctx context.Context,
	userID string,
) ([]Usage, error) {
	return s.repo.CurrentByUser(ctx, userID)
}

// Failures lists MACHINE_USAGE_FAILED audit entries.
func (s *Service) Failures(
	ctx context.Context,
	since, until *time.Time,
) ([]audit.Entry, error) {
	return s.auditLog.List(ctx, audit.ListParams{
		Type:  audit.TypeMachineUsageFailed,
		Since: since,
		Until: until,
	})
}

// Charges sums each user's non-failed usage costs for a semester,
// split into graduating and continuing users.
func (s *Service) Charges(
	ctx context.Context,
	semesterID string,
) (*ChargesResponse, error) {
	if _, err := s.semesters.GetByID(ctx, semesterID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ChargesForSemester(ctx, semesterID)
	if err != nil {
		return nil, err
	}

	resp := &ChargesResponse{
		SemesterID: semesterID,
		Graduating: []ChargeRowResponse{},
		Continuing: []ChargeRowResponse{},
	}
	for _, row := range rows {
		if row.IsGraduating {
			resp.Graduating = append(resp.Graduating, ChargeRowResponse(row))
		} else {
			resp.Continuing = append(resp.Continuing, ChargeRowResponse(row))
		}
	}

	return resp, nil
}

// MachineStatus builds the public status board, cached in redis for a
// short TTL so the unauthenticated endpoint cannot hammer the
// database.
func (s *Service) MachineStatus(
	ctx context.Context,
) (*MachineStatusResponse, error) {
	if cached, err := s.redis.Get(ctx, statusCacheKey).Bytes(); err == nil {
		var resp MachineStatusResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
	}

	rows, err := s.repo.StatusRows(ctx)
	if err != nil {
		return nil, err
	}

	resp := buildStatus(rows)

	if payload, err := json.Marshal(resp); err == nil {
		//nolint:errcheck // cache miss is not an error
		_ = s.redis.Set(ctx, statusCacheKey, payload, s.statusTTL).Err()
	}

	return resp, nil
}

func (s *Service) invalidateStatusCache(ctx context.Context) {
	//nolint:errcheck // next status read repopulates the cache
	_ = s.redis.Del(ctx, statusCacheKey).Err()
}

func buildStatus(rows []StatusRow) *MachineStatusResponse {
	resp := &MachineStatusResponse{
		Groups: []MachineStatusGroup{},
		Loners: []MachineStatus{},
	}

	groupIndex := make(map[string]int)

	for _, row := range rows {
		status := MachineStatus{
			Name:            row.MachineName,
			InUse:           row.InUse,
			Disabled:        row.Disabled,
			Maintenance:     row.Maintenance,
			TimeStarted:     row.TimeStarted,
			DurationSeconds: row.DurationSecs,
		}
		if row.Failed != nil {
			status.Failed = *row.Failed
		}
		if row.UserFirstName != nil {
			name := *row.UserFirstName
			if row.UserLastName != nil && *row.UserLastName != "" {
				name += " " + (*row.UserLastName)[:1] + "."
			}
			status.UserName = &name
		}

		if row.GroupID == nil {
			resp.Loners = append(resp.Loners, status)
			continue
		}

		idx, ok := groupIndex[*row.GroupID]
		if !ok {
			idx = len(resp.Groups)
			groupIndex[*row.GroupID] = idx
			name := ""
			if row.GroupName != nil {
				name = *row.GroupName
			}
			resp.Groups = append(resp.Groups, MachineStatusGroup{
				Name:     name,
				Machines: []MachineStatus{},
			})
		}
		resp.Groups[idx].Machines = append(resp.Groups[idx].Machines, status)
	}

	return resp
}

func canSeeDisabled(perms permission.Set) bool {
	return perms.Has(permission.CanEditMachines) || perms.IsSuperuser()
}
