// AngelaMos | 2026
// entity.go

package role

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/forgeworks/makerspace-backend/internal/permission"
)

// TagList stores permission tags as a JSONB array.
type TagList []permission.Tag

func (l TagList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *TagList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("tag list: cannot scan %T", src)
	}
}

type Role struct {
	ID                 string    `db:"id"`
	Name               string    `db:"name"`
	DisplayRole        bool      `db:"display_role"`
	Priority           int       `db:"priority"`
	Permissions        TagList   `db:"permissions"`
	InversePermissions TagList   `db:"inverse_permissions"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// Grant converts the role into resolver input: Permissions grant tags
// at the role's priority, InversePermissions revoke them.
func (r *Role) Grant() permission.RoleGrant {
	return permission.RoleGrant{
		Priority: r.Priority,
		Grants:   r.Permissions,
		Revokes:  r.InversePermissions,
	}
}

// AllTags returns every tag the role references, granted or revoked.
func (r *Role) AllTags() []permission.Tag {
	tags := make([]permission.Tag, 0, len(r.Permissions)+len(r.InversePermissions))
	tags = append(tags, r.Permissions...)
	tags = append(tags, r.InversePermissions...)
	return tags
}
