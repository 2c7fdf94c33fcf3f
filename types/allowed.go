package types

// AllowedPermissions is the resolved, read-only capability map for one
// principal on one resource. Roles holds what the hierarchy grants on
// its own; RolesWithView additionally holds what a view in context
// delegates. Without a view in context the two sets are equal.
//
// Values are produced fresh on every resolution and never mutated, so
// they are safe to share and to cache.
type AllowedPermissions struct {
	Roles         RoleSet
	RolesWithView RoleSet
}

// NewAllowedPermissions builds a capability map with no view in context
func NewAllowedPermissions(roles RoleSet) AllowedPermissions {
	return AllowedPermissions{Roles: roles, RolesWithView: roles}
}

// Allows tells if the hierarchy grants the role type on its own
func (p AllowedPermissions) Allows(t RoleType) bool {
	return p.Roles.Has(t)
}

// AllowsWithView tells if the role type is granted when the view in
// context is taken into account
func (p AllowedPermissions) AllowsWithView(t RoleType) bool {
	return p.RolesWithView.Has(t)
}

// ResourcesPermissions is the compiled capability lookup table for
// every collection and link type a view reaches, keyed by resource id
type ResourcesPermissions struct {
	Collections map[string]AllowedPermissions
	LinkTypes   map[string]AllowedPermissions
}
