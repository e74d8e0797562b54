// AngelaMos | 2026
// resolver_test.go

package permission

import (
	"testing"
)

func TestResolveSingleRole(t *testing.T) {
	t.Parallel()

	resolved := Resolve([]RoleGrant{
		{Priority: 10, Grants: []Tag{CanUseMachines, CanSeeUsers}},
	})

	if !resolved.HasAll(CanUseMachines, CanSeeUsers) {
		t.Errorf("expected both granted tags, got %v", resolved.Tags())
	}
	if resolved.Has(CanEditMachines) {
		t.Error("ungranted tag should not be present")
	}
}

func TestResolveHigherPriorityRevokes(t *testing.T) {
	t.Parallel()

	resolved := Resolve([]RoleGrant{
		{Priority: 10, Grants: []Tag{CanUseMachines, CanSeeUsers}},
		{Priority: 20, Revokes: []Tag{CanUseMachines}},
	})

	if resolved.Has(CanUseMachines) {
		t.Error("higher-priority revocation should remove the tag")
	}
	if !resolved.Has(CanSeeUsers) {
		t.Error("unrelated grant should survive")
	}
}

func TestResolveLowerPriorityRevokeIgnored(t *testing.T) {
	t.Parallel()

	resolved := Resolve([]RoleGrant{
		{Priority: 20, Grants: []Tag{CanUseMachines}},
		{Priority: 10, Revokes: []Tag{CanUseMachines}},
	})

	if !resolved.Has(CanUseMachines) {
		t.Error("lower-priority revocation should not remove the tag")
	}
}

func TestResolveEqualPriorityRevokeIgnored(t *testing.T) {
	t.Parallel()

	resolved := Resolve([]RoleGrant{
		{Priority: 10, Grants: []Tag{CanUseMachines}},
		{Priority: 10, Revokes: []Tag{CanUseMachines}},
	})

	if !resolved.Has(CanUseMachines) {
		t.Error("equal-priority revocation should not remove the tag")
	}
}

func TestResolveRegrantAboveRevoke(t *testing.T) {
	t.Parallel()

	resolved := Resolve([]RoleGrant{
		{Priority: 10, Grants: []Tag{CanUseMachines}},
		{Priority: 20, Revokes: []Tag{CanUseMachines}},
		{Priority: 30, Grants: []Tag{CanUseMachines}},
	})

	if !resolved.Has(CanUseMachines) {
		t.Error("a grant above the revocation should win")
	}
}

func TestResolveOrderIndependent(t *testing.T) {
	t.Parallel()

	roles := []RoleGrant{
		{Priority: 5, Grants: []Tag{CanSeeUsers}},
		{Priority: 10, Grants: []Tag{CanUseMachines, CanClearMachines}},
		{Priority: 20, Revokes: []Tag{CanClearMachines}},
		{Priority: 30, Grants: []Tag{CanGetCharges}, Revokes: []Tag{CanSeeUsers}},
	}

	permutations := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}

	want := Resolve(roles)

	for _, order := range permutations {
		shuffled := make([]RoleGrant, 0, len(roles))
		for _, i := range order {
			shuffled = append(shuffled, roles[i])
		}

		got := Resolve(shuffled)
		if len(got) != len(want) {
			t.Fatalf("order %v: got %v, want %v", order, got.Tags(), want.Tags())
		}
		for tag := range want {
			if !got.Has(tag) {
				t.Errorf("order %v: missing %s", order, tag)
			}
		}
	}
}

func TestResolveEmpty(t *testing.T) {
	t.Parallel()

	if resolved := Resolve(nil); len(resolved) != 0 {
		t.Errorf("no roles should resolve to an empty set, got %v", resolved.Tags())
	}
}

func TestSetLockout(t *testing.T) {
	t.Parallel()

	locked := NewSet(CanUseMachines, Lockout)
	if !locked.IsLockedOut() {
		t.Error("set with lockout should report locked out")
	}

	superLocked := NewSet(Lockout, IsSuperuser)
	if superLocked.IsLockedOut() {
		t.Error("superuser should override lockout")
	}
}

func TestIsRestricted(t *testing.T) {
	t.Parallel()

	if !IsRestricted(CanUseMachines, Lockout) {
		t.Error("list containing lockout should be restricted")
	}
	if IsRestricted(CanUseMachines, CanControlLockout) {
		t.Error("canControlLockout itself is not a restricted tag")
	}
}

func TestTagValid(t *testing.T) {
	t.Parallel()

	if !CanChangeUserRoles.Valid() {
		t.Error("known tag should be valid")
	}
	if Tag("canDoAnything").Valid() {
		t.Error("unknown tag should be invalid")
	}
}
