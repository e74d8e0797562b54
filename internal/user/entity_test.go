// AngelaMos | 2026
// entity_test.go

package user

import (
	"testing"

	"github.com/forgeworks/makerspace-backend/internal/role"
)

func TestShortName(t *testing.T) {
	t.Parallel()

	u := &User{FirstName: "Angela", LastName: "Mosqueda"}
	if got := u.ShortName(); got != "Angela M." {
		t.Errorf("ShortName() = %q, want %q", got, "Angela M.")
	}

	mononym := &User{FirstName: "Cher"}
	if got := mononym.ShortName(); got != "Cher" {
		t.Errorf("ShortName() = %q, want %q", got, "Cher")
	}
}

func TestDisplayRolePicksHighestPriority(t *testing.T) {
	t.Parallel()

	u := &User{
		Roles: []role.Role{
			{Name: "member", Priority: 10, DisplayRole: true},
			{Name: "volunteer", Priority: 50, DisplayRole: true},
			{Name: "secret-admin", Priority: 100, DisplayRole: false},
		},
	}

	got := u.DisplayRole()
	if got == nil || *got != "volunteer" {
		t.Errorf("DisplayRole() = %v, want volunteer", got)
	}
}

func TestDisplayRoleNoneFlagged(t *testing.T) {
	t.Parallel()

	u := &User{
		Roles: []role.Role{
			{Name: "member", Priority: 10},
		},
	}

	if got := u.DisplayRole(); got != nil {
		t.Errorf("DisplayRole() = %v, want nil", *got)
	}
}
