// AngelaMos | 2026
// billing_test.go

package usage

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/forgeworks/makerspace-backend/internal/machine"
	"github.com/forgeworks/makerspace-backend/internal/resource"
)

const (
	filamentSlotID = "11111111-1111-4111-8111-111111111111"
	finishSlotID   = "22222222-2222-4222-8222-222222222222"
	plaResourceID  = "33333333-3333-4333-8333-333333333333"
	waxResourceID  = "44444444-4444-4444-8444-444444444444"
)

func printerType(costPerHour string) *machine.MachineType {
	return &machine.MachineType{
		ID:          "55555555-5555-4555-8555-555555555555",
		Name:        "FDM Printer",
		CostPerHour: decimal.RequireFromString(costPerHour),
		Slots: []resource.Slot{
			{
				ID:               filamentSlotID,
				DBName:           "filament",
				DisplayName:      "Filament",
				AllowOwnMaterial: true,
				AllowEmpty:       false,
				ValidResources: []resource.Resource{
					{
						ID:    plaResourceID,
						Name:  "PLA",
						Units: "g",
						Cost:  decimal.RequireFromString("0.50"),
					},
				},
			},
			{
				ID:          finishSlotID,
				DBName:      "finish",
				DisplayName: "Finish Coat",
				AllowEmpty:  true,
				ValidResources: []resource.Resource{
					{
						ID:    waxResourceID,
						Name:  "Wax",
						Units: "ml",
						Cost:  decimal.RequireFromString("0.10"),
					},
				},
			},
		},
	}
}

func strPtr(s string) *string { return &s }

func TestComputeCostBasePlusLine(t *testing.T) {
	t.Parallel()

	// Half an hour at 2.00/hr plus 4 g of PLA at 0.50/g.
	breakdown, err := ComputeCost(printerType("2.00000"), 1800, []SlotSelection{
		{
			SlotID:     filamentSlotID,
			ResourceID: strPtr(plaResourceID),
			Amount:     decimal.RequireFromString("4"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !breakdown.Base.Equal(decimal.RequireFromString("1.00")) {
		t.Errorf("base = %s, want 1.00", breakdown.Base)
	}
	if length := len(breakdown.Lines); length != 1 {
		t.Fatalf("expected 1 line, got %d", length)
	}
	if !breakdown.Lines[0].Cost.Equal(decimal.RequireFromString("2.00")) {
		t.Errorf("line cost = %s, want 2.00", breakdown.Lines[0].Cost)
	}
	if !breakdown.Total.Equal(decimal.RequireFromString("3.00")) {
		t.Errorf("total = %s, want 3.00", breakdown.Total)
	}
}

func TestComputeCostDeterministic(t *testing.T) {
	t.Parallel()

	selections := []SlotSelection{
		{
			SlotID:     filamentSlotID,
			ResourceID: strPtr(plaResourceID),
			Amount:     decimal.RequireFromString("12.345"),
		},
		{
			SlotID:     finishSlotID,
			ResourceID: strPtr(waxResourceID),
			Amount:     decimal.RequireFromString("7.5"),
		},
	}

	first, err := ComputeCost(printerType("3.14159"), 5400, selections)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for range 10 {
		again, err := ComputeCost(printerType("3.14159"), 5400, selections)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !again.Total.Equal(first.Total) {
			t.Fatalf("total changed between runs: %s vs %s", again.Total, first.Total)
		}
	}
}

func TestComputeCostTotalIsSumOfParts(t *testing.T) {
	t.Parallel()

	breakdown, err := ComputeCost(printerType("1.99999"), 3661, []SlotSelection{
		{
			SlotID:     filamentSlotID,
			ResourceID: strPtr(plaResourceID),
			Amount:     decimal.RequireFromString("3.333"),
		},
		{
			SlotID:     finishSlotID,
			ResourceID: strPtr(waxResourceID),
			Amount:     decimal.RequireFromString("0.01"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := breakdown.Base
	for _, line := range breakdown.Lines {
		sum = sum.Add(line.Cost)
	}
	if !breakdown.Total.Equal(sum) {
		t.Errorf("total = %s, sum of parts = %s", breakdown.Total, sum)
	}
}

func TestComputeCostOwnMaterialBillsNothing(t *testing.T) {
	t.Parallel()

	breakdown, err := ComputeCost(printerType("2.00000"), 3600, []SlotSelection{
		{
			SlotID:        filamentSlotID,
			Amount:        decimal.RequireFromString("100"),
			IsOwnMaterial: true,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !breakdown.Lines[0].Cost.IsZero() {
		t.Errorf("own material line cost = %s, want 0", breakdown.Lines[0].Cost)
	}
	if !breakdown.Total.Equal(breakdown.Base) {
		t.Errorf("total = %s, want base %s", breakdown.Total, breakdown.Base)
	}
}

func TestComputeCostErrors(t *testing.T) {
	t.Parallel()

	filled := SlotSelection{
		SlotID:     filamentSlotID,
		ResourceID: strPtr(plaResourceID),
		Amount:     decimal.RequireFromString("1"),
	}

	tests := []struct {
		name       string
		duration   int
		selections []SlotSelection
		want       error
	}{
		{
			name:     "zero duration",
			duration: 0,
			want:     ErrInvalidDuration,
		},
		{
			name:     "required slot missing",
			duration: 600,
			want:     ErrMissingSlot,
		},
		{
			name:     "unknown slot",
			duration: 600,
			selections: []SlotSelection{
				filled,
				{
					SlotID:     "99999999-9999-4999-8999-999999999999",
					ResourceID: strPtr(waxResourceID),
					Amount:     decimal.RequireFromString("1"),
				},
			},
			want: ErrUnknownSlot,
		},
		{
			name:       "duplicate slot",
			duration:   600,
			selections: []SlotSelection{filled, filled},
			want:       ErrDuplicateSlot,
		},
		{
			name:     "resource not valid for slot",
			duration: 600,
			selections: []SlotSelection{
				{
					SlotID:     filamentSlotID,
					ResourceID: strPtr(waxResourceID),
					Amount:     decimal.RequireFromString("1"),
				},
			},
			want: ErrInvalidResource,
		},
		{
			name:     "missing resource id",
			duration: 600,
			selections: []SlotSelection{
				{
					SlotID: filamentSlotID,
					Amount: decimal.RequireFromString("1"),
				},
			},
			want: ErrInvalidResource,
		},
		{
			name:     "own material on a slot that forbids it",
			duration: 600,
			selections: []SlotSelection{
				filled,
				{
					SlotID:        finishSlotID,
					Amount:        decimal.RequireFromString("1"),
					IsOwnMaterial: true,
				},
			},
			want: ErrOwnMaterialForbidden,
		},
		{
			name:     "non-positive amount",
			duration: 600,
			selections: []SlotSelection{
				{
					SlotID:     filamentSlotID,
					ResourceID: strPtr(plaResourceID),
					Amount:     decimal.Zero,
				},
			},
			want: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ComputeCost(printerType("2.00000"), tt.duration, tt.selections)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
