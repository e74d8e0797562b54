// AngelaMos | 2026
// billing.go

package usage

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/forgeworks/makerspace-backend/internal/machine"
)

var (
	ErrMissingSlot          = errors.New("required slot not selected")
	ErrUnknownSlot          = errors.New("slot does not belong to machine type")
	ErrDuplicateSlot        = errors.New("slot selected more than once")
	ErrInvalidResource      = errors.New("resource not valid for slot")
	ErrOwnMaterialForbidden = errors.New("slot does not allow own material")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidDuration      = errors.New("duration must be positive")
)

var secondsPerHour = decimal.NewFromInt(3600)

// SlotSelection is one filled slot of a usage: the resource loaded
// into it and how much of it the job consumes. Own-material selections
// carry no resource and bill nothing.
type SlotSelection struct {
	SlotID        string
	ResourceID    *string
	Amount        decimal.Decimal
	IsOwnMaterial bool
}

type CostLine struct {
	SlotID        string
	ResourceID    *string
	Amount        decimal.Decimal
	IsOwnMaterial bool
	CostPerUnit   decimal.Decimal
	Cost          decimal.Decimal
}

type CostBreakdown struct {
	Base  decimal.Decimal
	Lines []CostLine
	Total decimal.Decimal
}

// ComputeCost prices a machine usage: time on the machine at the
// type's hourly rate plus each consumed resource at its current
// per-unit cost, every component rounded to two places. The result is
// deterministic for identical inputs.
func ComputeCost(
	t *machine.MachineType,
	durationSeconds int,
	selections []SlotSelection,
) (*CostBreakdown, error) {
	if durationSeconds <= 0 {
		return nil, ErrInvalidDuration
	}

	seen := make(map[string]struct{}, len(selections))
	for _, sel := range selections {
		if _, dup := seen[sel.SlotID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlot, sel.SlotID)
		}
		seen[sel.SlotID] = struct{}{}

		if t.SlotByID(sel.SlotID) == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSlot, sel.SlotID)
		}
	}

	for i := range t.Slots {
		slot := &t.Slots[i]
		if slot.AllowEmpty {
			continue
		}
		if _, ok := seen[slot.ID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSlot, slot.DBName)
		}
	}

	base := decimal.NewFromInt(int64(durationSeconds)).
		Div(secondsPerHour).
		Mul(t.CostPerHour).
		Round(2)

	breakdown := &CostBreakdown{
		Base:  base,
		Lines: make([]CostLine, 0, len(selections)),
		Total: base,
	}

	for _, sel := range selections {
		slot := t.SlotByID(sel.SlotID)

		if !sel.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: slot %s", ErrInvalidAmount, slot.DBName)
		}

		line := CostLine{
			SlotID:        sel.SlotID,
			ResourceID:    sel.ResourceID,
			Amount:        sel.Amount,
			IsOwnMaterial: sel.IsOwnMaterial,
			CostPerUnit:   decimal.Zero,
			Cost:          decimal.Zero,
		}

		if sel.IsOwnMaterial {
			if !slot.AllowOwnMaterial {
				return nil, fmt.Errorf(
					"%w: %s",
					ErrOwnMaterialForbidden,
					slot.DBName,
				)
			}
		} else {
			if sel.ResourceID == nil {
				return nil, fmt.Errorf(
					"%w: slot %s",
					ErrInvalidResource,
					slot.DBName,
				)
			}
			res := slot.ResourceByID(*sel.ResourceID)
			if res == nil {
				return nil, fmt.Errorf(
					"%w: slot %s",
					ErrInvalidResource,
					slot.DBName,
				)
			}
			line.CostPerUnit = res.Cost
			line.Cost = sel.Amount.Mul(res.Cost).Round(2)
		}

		breakdown.Lines = append(breakdown.Lines, line)
		breakdown.Total = breakdown.Total.Add(line.Cost)
	}

	return breakdown, nil
}
