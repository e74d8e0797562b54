// AngelaMos | 2026
// permission.go

// Package permission defines the grantable capability tags and the
// resolver that computes a user's effective permission set from their
// prioritized roles.
package permission

// Tag identifies a single grantable capability. The string values are
// stored in role permission arrays and must stay stable.
type Tag string

const (
	// Basic membership.
	CanUseMachines                 Tag = "canUseMachines"
	CanUseMachinesBetweenSemesters Tag = "canUseMachinesBetweenSemesters"

	// Volunteer duties.
	CanClearMachines Tag = "canClearMachines"
	CanFailMachines  Tag = "canFailMachines"

	// Visibility.
	CanSeeUsers Tag = "canSeeUsers"

	// Administrative.
	CanEditUserCoreInfo Tag = "canEditUserCoreInfo"

	CanSeeResources    Tag = "canSeeResources"
	CanCreateResources Tag = "canCreateResources"
	CanEditResources   Tag = "canEditResources"
	CanDeleteResources Tag = "canDeleteResources"

	CanSeeResourceSlots    Tag = "canSeeResourceSlots"
	CanCreateResourceSlots Tag = "canCreateResourceSlots"
	CanEditResourceSlots   Tag = "canEditResourceSlots"
	CanDeleteResourceSlots Tag = "canDeleteResourceSlots"

	CanSeeMachineTypes    Tag = "canSeeMachineTypes"
	CanCreateMachineTypes Tag = "canCreateMachineTypes"
	CanEditMachineTypes   Tag = "canEditMachineTypes"
	CanDeleteMachineTypes Tag = "canDeleteMachineTypes"

	CanCreateMachines Tag = "canCreateMachines"
	CanEditMachines   Tag = "canEditMachines"
	CanDeleteMachines Tag = "canDeleteMachines"

	CanGetCharges Tag = "canGetCharges"

	CanSeeSemesters    Tag = "canSeeSemesters"
	CanCreateSemesters Tag = "canCreateSemesters"
	CanEditSemesters   Tag = "canEditSemesters"
	CanDeleteSemesters Tag = "canDeleteSemesters"
	CanChangeSemester  Tag = "canChangeSemester"

	CanViewFailureLogs Tag = "canViewFailureLogs"

	CanSeeRoles    Tag = "canSeeRoles"
	CanCreateRoles Tag = "canCreateRoles"
	CanEditRoles   Tag = "canEditRoles"
	CanDeleteRoles Tag = "canDeleteRoles"

	CanChangeUserRoles Tag = "canChangeUserRoles"

	// Damage control. These tags are restricted: roles carrying them can
	// only be created, edited, deleted, or assigned by superusers (and
	// lockout-bearing roles assigned by holders of CanControlLockout).
	RoleChangeImmune  Tag = "roleChangeImmune"
	CanControlLockout Tag = "canControlLockout"
	Lockout           Tag = "lockout"

	// Assumed to hold every permission. Grant judiciously.
	IsSuperuser Tag = "isSuperuser"
)

// Restricted lists the tags that only superusers may place on roles.
var Restricted = []Tag{IsSuperuser, RoleChangeImmune, Lockout}

// IsRestricted reports whether any of the given tags is restricted.
func IsRestricted(tags ...Tag) bool {
	for _, tag := range tags {
		for _, restricted := range Restricted {
			if tag == restricted {
				return true
			}
		}
	}
	return false
}

// Valid reports whether the tag is a known permission tag.
func (t Tag) Valid() bool {
	_, ok := knownTags[t]
	return ok
}

var knownTags = func() map[Tag]struct{} {
	all := []Tag{
		CanUseMachines, CanUseMachinesBetweenSemesters,
		CanClearMachines, CanFailMachines,
		CanSeeUsers, CanEditUserCoreInfo,
		CanSeeResources, CanCreateResources,
		CanEditResources, CanDeleteResources,
		CanSeeResourceSlots, CanCreateResourceSlots,
		CanEditResourceSlots, CanDeleteResourceSlots,
		CanSeeMachineTypes, CanCreateMachineTypes,
		CanEditMachineTypes, CanDeleteMachineTypes,
		CanCreateMachines, CanEditMachines, CanDeleteMachines,
		CanGetCharges,
		CanSeeSemesters, CanCreateSemesters,
		CanEditSemesters, CanDeleteSemesters, CanChangeSemester,
		CanViewFailureLogs,
		CanSeeRoles, CanCreateRoles, CanEditRoles, CanDeleteRoles,
		CanChangeUserRoles,
		RoleChangeImmune, CanControlLockout, Lockout,
		IsSuperuser,
	}

	m := make(map[Tag]struct{}, len(all))
	for _, tag := range all {
		m[tag] = struct{}{}
	}
	return m
}()

// Set is a resolved permission set.
type Set map[Tag]struct{}

func NewSet(tags ...Tag) Set {
	s := make(Set, len(tags))
	for _, tag := range tags {
		s[tag] = struct{}{}
	}
	return s
}

func (s Set) Has(tag Tag) bool {
	_, ok := s[tag]
	return ok
}

func (s Set) HasAll(tags ...Tag) bool {
	for _, tag := range tags {
		if !s.Has(tag) {
			return false
		}
	}
	return true
}

func (s Set) HasAny(tags ...Tag) bool {
	for _, tag := range tags {
		if s.Has(tag) {
			return true
		}
	}
	return false
}

// IsSuperuser reports whether the set short-circuits all permission
// checks.
func (s Set) IsSuperuser() bool {
	return s.Has(IsSuperuser)
}

// IsLockedOut reports whether the set blocks all authenticated actions.
// Superuser overrides lockout.
func (s Set) IsLockedOut() bool {
	return s.Has(Lockout) && !s.Has(IsSuperuser)
}

// Tags returns the members of the set as a slice, unordered.
func (s Set) Tags() []Tag {
	tags := make([]Tag, 0, len(s))
	for tag := range s {
		tags = append(tags, tag)
	}
	return tags
}
