package resolver

import "github.com/collabdata/roles/types"

// The hierarchical walk establishes Read at every level on the path
// from the organization down, either by a grant at that level or by a
// transitive grant above it. Only transitive grants carry downward;
// at the target resource itself transitivity no longer matters.

// OrganizationRoles resolves the principal's roles on the organization
// itself. A nil organization denies.
func OrganizationRoles(org *types.Organization, principal types.Principal, teams map[string]struct{}) types.RoleSet {
	if org == nil {
		return 0
	}
	return Normalize(types.TypeSet(DirectRoles(org.Permissions, principal, teams)))
}

// ProjectRoles resolves the principal's roles on a project. Missing
// Read at the organization denies regardless of project-level grants.
func ProjectRoles(org *types.Organization, project *types.Project, principal types.Principal, teams map[string]struct{}) types.RoleSet {
	if org == nil || project == nil {
		return 0
	}

	orgRoles := DirectRoles(org.Permissions, principal, teams)
	if !types.TypeSet(orgRoles).Has(types.RoleRead) {
		return 0
	}

	acc := types.TransitiveTypeSet(orgRoles)
	acc = acc.Union(types.TypeSet(DirectRoles(project.Permissions, principal, teams)))
	return Normalize(acc)
}

// ResourceRoles resolves the principal's roles on a resource owned by
// the project: a collection, link type, or view, represented by its
// Permissions. Read must be held at the organization, and at the
// project either directly or inherited from a transitive organization
// grant; a break at any level denies without inspecting grants below it.
func ResourceRoles(
	org *types.Organization,
	project *types.Project,
	permissions types.Permissions,
	principal types.Principal,
	teams map[string]struct{},
) types.RoleSet {
	if org == nil || project == nil {
		return 0
	}

	orgRoles := DirectRoles(org.Permissions, principal, teams)
	if !types.TypeSet(orgRoles).Has(types.RoleRead) {
		return 0
	}

	acc := types.TransitiveTypeSet(orgRoles)

	projectRoles := DirectRoles(project.Permissions, principal, teams)
	if !acc.Has(types.RoleRead) && !types.TypeSet(projectRoles).Has(types.RoleRead) {
		return 0
	}

	acc = acc.Union(types.TransitiveTypeSet(projectRoles))
	acc = acc.Union(types.TypeSet(DirectRoles(permissions, principal, teams)))
	return Normalize(acc)
}
