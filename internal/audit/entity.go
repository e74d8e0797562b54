// AngelaMos | 2026
// entity.go

package audit

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeMachineUsed          = "MACHINE_USED"
	TypeMachineUsageCleared  = "MACHINE_USAGE_CLEARED"
	TypeMachineUsageFailed   = "MACHINE_USAGE_FAILED"
	TypeSemesterCreated      = "SEMESTER_CREATED"
	TypeSemesterEdited       = "SEMESTER_EDITED"
	TypeSemesterDeleted      = "SEMESTER_DELETED"
	TypeActiveSemesterChange = "ACTIVE_SEMESTER_CHANGED"
	TypeRoleCreated          = "ROLE_CREATED"
	TypeRoleEdited           = "ROLE_EDITED"
	TypeRoleDeleted          = "ROLE_DELETED"
	TypeUserRolesChanged     = "USER_ROLES_CHANGED"
	TypeUserCoreInfoChanged  = "USER_CORE_INFO_CHANGED"
)

// Content is the free-form JSONB payload of a log entry.
type Content map[string]any

func (c Content) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

func (c *Content) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = nil
		return nil
	default:
		return fmt.Errorf("audit content: cannot scan %T", src)
	}
}

type Entry struct {
	ID        string    `db:"id"`
	Type      string    `db:"type"`
	Content   Content   `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
