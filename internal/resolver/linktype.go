package resolver

import "github.com/collabdata/roles/types"

// LinkTypeRoles resolves the principal's roles on a link type. A link
// type with custom permissions resolves them through the hierarchy like
// any other resource. A derived link type yields the intersection of
// the roles held on both endpoint collections: the weakest-link policy,
// so connecting two collections never widens access to either.
// A missing or unreadable endpoint denies.
func LinkTypeRoles(
	org *types.Organization,
	project *types.Project,
	linkType *types.LinkType,
	collections map[string]*types.Collection,
	principal types.Principal,
	teams map[string]struct{},
) types.RoleSet {
	if linkType == nil {
		return 0
	}

	if linkType.PermissionsType == types.LinkPermissionsCustom {
		return ResourceRoles(org, project, linkType.Permissions, principal, teams)
	}

	first := collections[linkType.CollectionIDs[0]]
	second := collections[linkType.CollectionIDs[1]]
	if first == nil || second == nil {
		return 0
	}

	firstRoles := ResourceRoles(org, project, first.Permissions, principal, teams)
	if !firstRoles.Has(types.RoleRead) {
		return 0
	}
	secondRoles := ResourceRoles(org, project, second.Permissions, principal, teams)
	if !secondRoles.Has(types.RoleRead) {
		return 0
	}

	return firstRoles.Intersect(secondRoles)
}
