// Package resolver holds the pure role-resolution core. Every function
// takes immutable snapshots and returns a freshly computed result;
// nothing here blocks, locks, or fails. Absent or malformed data
// degrades to denial.
package resolver

import "github.com/collabdata/roles/types"

// MemberTeams returns the set of team ids the user belongs to within
// the organization. Absent data degrades to the empty set.
func MemberTeams(user *types.User, organizationID string) map[string]struct{} {
	if user == nil {
		return nil
	}

	ids := user.Teams[organizationID]
	if len(ids) == 0 {
		return nil
	}

	teams := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		teams[id] = struct{}{}
	}
	return teams
}

// DirectRoles merges the principal's own grants on one resource with
// the grants of every team the principal belongs to. Duplicate entries
// for one principal id are treated as a union of their role lists.
//
// A team principal only matches the team grant list, and a pending user
// matches nothing: grant ids live in the persisted id space.
func DirectRoles(permissions types.Permissions, principal types.Principal, teams map[string]struct{}) []types.Role {
	if principal.IsPendingUser() {
		return nil
	}

	var roles []types.Role

	if principal.IsTeam() {
		for _, p := range permissions.Groups {
			if p.PrincipalID == principal.ID() {
				roles = append(roles, p.Roles...)
			}
		}
		return roles
	}

	for _, p := range permissions.Users {
		if p.PrincipalID == principal.ID() {
			roles = append(roles, p.Roles...)
		}
	}
	for _, p := range permissions.Groups {
		if _, ok := teams[p.PrincipalID]; ok {
			roles = append(roles, p.Roles...)
		}
	}

	return roles
}
