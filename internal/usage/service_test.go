// AngelaMos | 2026
// service_test.go

package usage

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBuildStatusGrouping(t *testing.T) {
	t.Parallel()

	groupID := "aaaa"
	groupName := "3D Printers"
	first := "Angela"
	last := "Mosqueda"
	started := time.Date(2026, 2, 3, 14, 0, 0, 0, time.UTC)
	duration := 3600

	resp := buildStatus([]StatusRow{
		{
			MachineName:   "Prusa 1",
			GroupID:       &groupID,
			GroupName:     &groupName,
			InUse:         true,
			TimeStarted:   &started,
			DurationSecs:  &duration,
			UserFirstName: &first,
			UserLastName:  &last,
		},
		{
			MachineName: "Prusa 2",
			GroupID:     &groupID,
			GroupName:   &groupName,
		},
		{
			MachineName: "Laser Cutter",
			Maintenance: true,
		},
	})

	if length := len(resp.Groups); length != 1 {
		t.Fatalf("expected 1 group, got %d", length)
	}
	if resp.Groups[0].Name != groupName {
		t.Errorf("group name = %q, want %q", resp.Groups[0].Name, groupName)
	}
	if length := len(resp.Groups[0].Machines); length != 2 {
		t.Fatalf("expected 2 machines in group, got %d", length)
	}
	if length := len(resp.Loners); length != 1 {
		t.Fatalf("expected 1 ungrouped machine, got %d", length)
	}

	busy := resp.Groups[0].Machines[0]
	if !busy.InUse {
		t.Error("first machine should be in use")
	}
	if busy.UserName == nil || *busy.UserName != "Angela M." {
		t.Errorf("user name = %v, want Angela M.", busy.UserName)
	}

	idle := resp.Groups[0].Machines[1]
	if idle.InUse || idle.UserName != nil {
		t.Error("idle machine should have no usage details")
	}

	if !resp.Loners[0].Maintenance {
		t.Error("ungrouped machine should keep its maintenance flag")
	}
}

func TestToUsageResponseListDerivesBaseCost(t *testing.T) {
	t.Parallel()

	usage := Usage{
		ID:              "u1",
		Cost:            decimal.RequireFromString("3.00"),
		DurationSeconds: 1800,
		Lines: []LineItem{
			{
				SlotID:             "s1",
				Amount:             decimal.RequireFromString("4"),
				CostPerUnitAtUsage: decimal.RequireFromString("0.50"),
			},
			{
				SlotID:             "s2",
				Amount:             decimal.RequireFromString("100"),
				IsOwnMaterial:      true,
				CostPerUnitAtUsage: decimal.Zero,
			},
		},
	}

	responses := ToUsageResponseList([]Usage{usage})
	if length := len(responses); length != 1 {
		t.Fatalf("expected 1 response, got %d", length)
	}

	resp := responses[0]
	if !resp.BaseCost.Equal(decimal.RequireFromString("1.00")) {
		t.Errorf("base cost = %s, want 1.00", resp.BaseCost)
	}
	if !resp.Lines[0].Cost.Equal(decimal.RequireFromString("2.00")) {
		t.Errorf("line cost = %s, want 2.00", resp.Lines[0].Cost)
	}
	if !resp.Lines[1].Cost.IsZero() {
		t.Errorf("own material line cost = %s, want 0", resp.Lines[1].Cost)
	}
}
