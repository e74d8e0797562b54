// AngelaMos | 2026
// dto.go

package usage

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/forgeworks/makerspace-backend/internal/machine"
)

type SlotSelectionRequest struct {
	SlotID        string          `json:"slot_id"     validate:"required,uuid4"`
	ResourceID    *string         `json:"resource_id,omitempty" validate:"omitempty,uuid4"`
	Amount        decimal.Decimal `json:"amount"`
	IsOwnMaterial bool            `json:"is_own_material"`
}

type UseRequest struct {
	DurationSeconds int                    `json:"duration_seconds" validate:"required,gt=0,lte=86400"`
	Selections      []SlotSelectionRequest `json:"selections"       validate:"dive"`
}

/// SchemaResponse describes what a machine needs to start a usage: the
// machine, its type with hourly rate, and every slot with its valid
// resources.
type SchemaResponse struct {
	Machine machine.MachineResponse     `json:"machine"`
	Type    machine.MachineTypeResponse `json:"type"`
}

type CostLineResponse struct {
	SlotID        string          `json:"slot_id"`
	ResourceID    *string         `json:"resource_id"`
	Amount        decimal.Decimal `json:"amount"`
	IsOwnMaterial bool            `json:"is_own_material"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
	Cost          decimal.Decimal `json:"cost"`
}

type UsageResponse struct {
	ID              string             `json:"id"`
	MachineID       string             `json:"machine_id"`
	UserID          string             `json:"user_id"`
	SemesterID      *string            `json:"semester_id"`
	TimeStarted     time.Time          `json:"time_started"`
	DurationSeconds int                `json:"duration_seconds"`
	Failed          bool               `json:"failed"`
	FailedAt        *time.Time         `json:"failed_at"`
	BaseCost        decimal.Decimal    `json:"base_cost"`
	Cost            decimal.Decimal    `json:"cost"`
	Lines           []CostLineResponse `json:"lines"`
}

type ChargeRowResponse struct {
	UserID       string          `json:"user_id"`
	CampusID     string          `json:"campus_id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	IsGraduating bool            `json:"is_graduating"`
	Total        decimal.Decimal `json:"total"`
}

type ChargesResponse struct {
	SemesterID string              `json:"semester_id"`
	Graduating []ChargeRowResponse `json:"graduating"`
	Continuing []ChargeRowResponse `json:"continuing"`
}

// MachineStatus is the public, unauthenticated status board payload.
type MachineStatus struct {
	Name            string     `json:"name"`
	InUse           bool       `json:"in_use"`
	Failed          bool       `json:"failed"`
	Disabled        bool       `json:"disabled"`
	Maintenance     bool       `json:"maintenance"`
	TimeStarted     *time.Time `json:"time_started,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	UserName        *string    `json:"user_name,omitempty"`
}

type MachineStatusGroup struct {
	Name     string          `json:"name"`
	Machines []MachineStatus `json:"machines"`
}

type MachineStatusResponse struct {
	Groups []MachineStatusGroup `json:"groups"`
	Loners []MachineStatus      `json:"loners"`
}

type ListUsagesParams struct {
	Page     int
	PageSize int
	Desc     bool
}

func (p *ListUsagesParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsagesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUsageResponse(u *Usage, baseCost decimal.Decimal) UsageResponse {
	lines := make([]CostLineResponse, 0, len(u.Lines))
	for _, l := range u.Lines {
		cost := decimal.Zero
		if !l.IsOwnMaterial {
			cost = l.Amount.Mul(l.CostPerUnitAtUsage).Round(2)
		}
		lines = append(lines, CostLineResponse{
			SlotID:        l.SlotID,
			ResourceID:    l.ResourceID,
			Amount:        l.Amount,
			IsOwnMaterial: l.IsOwnMaterial,
			CostPerUnit:   l.CostPerUnitAtUsage,
			Cost:          cost,
		})
	}

	return UsageResponse{
		ID:              u.ID,
		MachineID:       u.MachineID,
		UserID:          u.UserID,
		SemesterID:      u.SemesterID,
		TimeStarted:     u.TimeStarted,
		DurationSeconds: u.DurationSeconds,
		Failed:          u.Failed,
		FailedAt:        u.FailedAt,
		BaseCost:        baseCost,
		Cost:            u.Cost,
		Lines:           lines,
	}
}

func ToUsageResponseList(usages []Usage) []UsageResponse {
	responses := make([]UsageResponse, 0, len(usages))
	for i := range usages {
		u := &usages[i]
		base := u.Cost
		for _, l := range u.Lines {
			if !l.IsOwnMaterial {
				base = base.Sub(l.Amount.Mul(l.CostPerUnitAtUsage).Round(2))
			}
		}
		responses = append(responses, ToUsageResponse(u, base))
	}
	return responses
}

func ToChargeRowResponseList(rows []ChargeRow) []ChargeRowResponse {
	responses := make([]ChargeRowResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, ChargeRowResponse(row))
	}
	return responses
}
