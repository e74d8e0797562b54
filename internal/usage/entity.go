// AngelaMos | 2026
// entity.go

package usage

import (
	"time"

	"github.com/shopspring/decimal"
)

type Usage struct {
	ID              string          `db:"id"`
	MachineID       string          `db:"machine_id"`
	UserID          string          `db:"user_id"`
	SemesterID      *string         `db:"semester_id"`
	TimeStarted     time.Time       `db:"time_started"`
	DurationSeconds int             `db:"duration_seconds"`
	Failed          bool            `db:"failed"`
	FailedAt        *time.Time      `db:"failed_at"`
	Cost            decimal.Decimal `db:"cost"`

	Lines []LineItem `db:"-"`
}

// LineItem records one slot of a usage with the per-unit cost frozen
// at usage time, so later price edits never change past charges.
type LineItem struct {
	UsageID            string          `db:"usage_id"`
	SlotID             string          `db:"slot_id"`
	ResourceID         *string         `db:"resource_id"`
	Amount             decimal.Decimal `db:"amount"`
	IsOwnMaterial      bool            `db:"is_own_material"`
	CostPerUnitAtUsage decimal.Decimal `db:"cost_per_unit_at_usage"`
}

// ChargeRow is one user's summed non-failed usage cost for a semester.
type ChargeRow struct {
	UserID       string          `db:"user_id"`
	CampusID     string          `db:"campus_id"`
	FirstName    string          `db:"first_name"`
	LastName     string          `db:"last_name"`
	IsGraduating bool            `db:"is_graduating"`
	Total        decimal.Decimal `db:"total"`
}

// StatusRow is one machine on the public status board.
type StatusRow struct {
	MachineID     string     `db:"machine_id"`
	MachineName   string     `db:"machine_name"`
	GroupID       *string    `db:"group_id"`
	GroupName     *string    `db:"group_name"`
	Disabled      bool       `db:"disabled"`
	Maintenance   bool       `db:"maintenance"`
	InUse         bool       `db:"in_use"`
	Failed        *bool      `db:"failed"`
	TimeStarted   *time.Time `db:"time_started"`
	DurationSecs  *int       `db:"duration_seconds"`
	UserFirstName *string    `db:"first_name"`
	UserLastName  *string    `db:"last_name"`
}
