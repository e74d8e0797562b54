// AngelaMos | 2026
// entity.go

package resource

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resource is a consumable material, priced per unit. Brand, name and
// units are unique together.
type Resource struct {
	ID        string          `db:"id"`
	Brand     string          `db:"brand"`
	Name      string          `db:"name"`
	Units     string          `db:"units"`
	Cost      decimal.Decimal `db:"cost"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// Slot is a named position on a machine type that accepts a set of
// valid resources. AllowEmpty slots may be left unfilled; materials a
// user brings themselves are allowed only where AllowOwnMaterial is
// set.
type Slot struct {
	ID               string    `db:"id"`
	DBName           string    `db:"db_name"`
	DisplayName      string    `db:"display_name"`
	AllowOwnMaterial bool      `db:"allow_own_material"`
	AllowEmpty       bool      `db:"allow_empty"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`

	ValidResources []Resource `db:"-"`
}

// Accepts reports whether the resource may be loaded into this slot.
func (s *Slot) Accepts(resourceID string) bool {
	for i := range s.ValidResources {
		if s.ValidResources[i].ID == resourceID {
			return true
		}
	}
	return false
}

// ResourceByID returns the slot's valid resource with the given ID.
func (s *Slot) ResourceByID(resourceID string) *Resource {
	for i := range s.ValidResources {
		if s.ValidResources[i].ID == resourceID {
			return &s.ValidResources[i]
		}
	}
	return nil
}
