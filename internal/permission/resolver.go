// AngelaMos | 2026
// resolver.go

package permission

import (
	"sort"
)

// RoleGrant is the slice of a role the resolver cares about: its
// priority and its granted and revoked tag lists.
type RoleGrant struct {
	Priority int
	Grants   []Tag
	Revokes  []Tag
}

// Resolve computes the effective permission set for a collection of
// roles.
//
// Each tag tracks the highest priority that granted it. A grant raises
// the stored priority; a revocation removes the tag only when the
// revoking role's priority is strictly greater than the stored one, so
// an equal-priority revocation never undoes a grant, and a low-priority
// revocation never undoes a high-priority grant.
//
// Roles are processed in ascending priority order, which makes the
// result independent of the order of the input slice.
func Resolve(roles []RoleGrant) Set {
	ordered := make([]RoleGrant, len(roles))
	copy(ordered, roles)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	granted := make(map[Tag]int)

	for _, role := range ordered {
		for _, tag := range role.Grants {
			if stored, ok := granted[tag]; !ok || stored < role.Priority {
				granted[tag] = role.Priority
			}
		}

		for _, tag := range role.Revokes {
			if stored, ok := granted[tag]; ok && stored < role.Priority {
				delete(granted, tag)
			}
		}
	}

	resolved := make(Set, len(granted))
	for tag := range granted {
		resolved[tag] = struct{}{}
	}
	return resolved
}
