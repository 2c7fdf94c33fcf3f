package resolver

import "github.com/collabdata/roles/types"

// impliedRoles maps a role type to the role types it automatically
// carries: any capability that presumes seeing the resource implies the
// baseline Read. The table is consulted once per normalization, keeping
// Normalize idempotent by construction.
var impliedRoles = map[types.RoleType]types.RoleSet{
	types.RoleDataRead:          types.NewRoleSet(types.RoleRead),
	types.RoleDataWrite:         types.NewRoleSet(types.RoleRead),
	types.RoleDataDelete:        types.NewRoleSet(types.RoleRead),
	types.RoleDataContribute:    types.NewRoleSet(types.RoleRead),
	types.RoleCommentContribute: types.NewRoleSet(types.RoleRead),
	types.RoleAttributeEdit:     types.NewRoleSet(types.RoleRead),
}

// Normalize enforces automatic role dependencies on a resolved set.
// Normalize(Normalize(s)) == Normalize(s) for any s.
func Normalize(roles types.RoleSet) types.RoleSet {
	out := roles
	for _, t := range roles.Split() {
		out = out.Union(impliedRoles[t])
	}
	return out
}
