// AngelaMos | 2026
// entity.go

package machine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/forgeworks/makerspace-backend/internal/resource"
)

// MachineType carries the hourly rate and the set of resource slots a
// machine of this type exposes.
type MachineType struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	CostPerHour decimal.Decimal `db:"cost_per_hour"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`

	Slots []resource.Slot `db:"-"`
}

// SlotByID returns the type's slot with the given ID, nil if absent.
func (t *MachineType) SlotByID(slotID string) *resource.Slot {
	for i := range t.Slots {
		if t.Slots[i].ID == slotID {
			return &t.Slots[i]
		}
	}
	return nil
}

type MachineGroup struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Machine struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	MachineTypeID  string    `db:"machine_type_id"`
	MachineGroupID *string   `db:"machine_group_id"`
	Disabled       bool      `db:"disabled"`
	Maintenance    bool      `db:"maintenance"`
	ActiveUsageID  *string   `db:"active_usage_id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`

	Type *MachineType `db:"-"`
}

func (m *Machine) InUse() bool {
	return m.ActiveUsageID != nil
}
