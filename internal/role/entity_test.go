// AngelaMos | 2026
// entity_test.go

package role

import (
	"testing"

	"github.com/forgeworks/makerspace-backend/internal/permission"
)

func TestTagListScan(t *testing.T) {
	t.Parallel()

	var fromBytes TagList
	if err := fromBytes.Scan([]byte(`["canUseMachines","canSeeUsers"]`)); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if len(fromBytes) != 2 || fromBytes[0] != permission.CanUseMachines {
		t.Errorf("scanned %v", fromBytes)
	}

	var fromString TagList
	if err := fromString.Scan(`["lockout"]`); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if len(fromString) != 1 || fromString[0] != permission.Lockout {
		t.Errorf("scanned %v", fromString)
	}

	var fromNil TagList
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if fromNil != nil {
		t.Errorf("nil source should scan to nil, got %v", fromNil)
	}

	var bad TagList
	if err := bad.Scan(42); err == nil {
		t.Error("scanning an int should error")
	}
}

func TestTagListValueNilIsEmptyArray(t *testing.T) {
	t.Parallel()

	var l TagList
	v, err := l.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if string(v.([]byte)) != "[]" {
		t.Errorf("nil list should serialize as [], got %s", v)
	}
}

func TestRoleGrant(t *testing.T) {
	t.Parallel()

	r := &Role{
		Priority:           40,
		Permissions:        TagList{permission.CanUseMachines},
		InversePermissions: TagList{permission.CanSeeUsers},
	}

	g := r.Grant()
	if g.Priority != 40 {
		t.Errorf("priority = %d, want 40", g.Priority)
	}
	if len(g.Grants) != 1 || g.Grants[0] != permission.CanUseMachines {
		t.Errorf("grants = %v", g.Grants)
	}
	if len(g.Revokes) != 1 || g.Revokes[0] != permission.CanSeeUsers {
		t.Errorf("revokes = %v", g.Revokes)
	}
}
