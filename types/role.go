package types

// Role is a single granted capability. A transitive grant held on an
// ancestor resource applies to every descendant resource without being
// re-granted there; a non-transitive grant applies to the granted
// resource only.
type Role struct {
	Type       RoleType
	Transitive bool
}

// Permission associates a principal id with its granted roles on one
// resource. The id is either a user id or a team id; the list it is
// stored in (Permissions.Users vs Permissions.Groups) disambiguates.
type Permission struct {
	PrincipalID string
	Roles       []Role
}

// RoleSet collapses the granted roles into a set of their types
func (p Permission) RoleSet() RoleSet {
	return TypeSet(p.Roles)
}

// Permissions is one resource's association lists of granted roles,
// split into user grants and team grants. Well formed data holds at
// most one Permission per principal id within each list; readers must
// tolerate duplicates by treating their role lists as a union.
type Permissions struct {
	Users  []Permission
	Groups []Permission
}

// TypeSet collapses roles into the set of their types,
// regardless of transitivity
func TypeSet(roles []Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= RoleSet(r.Type)
	}
	return s
}

// TransitiveTypeSet collapses the transitive subset of roles into the
// set of their types
func TransitiveTypeSet(roles []Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		if r.Transitive {
			s |= RoleSet(r.Type)
		}
	}
	return s
}
