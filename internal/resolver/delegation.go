package resolver

import "github.com/collabdata/roles/types"

// DelegatedRoles extends the roles resolved on a collection or link
// type with what a view in context delegates there. The view can never
// delegate a role type the principal does not already hold on the view
// itself, so delegation cannot escalate beyond sharing the view.
//
// authorRoles is the view author's delegation entry for this resource;
// a resource the view does not reach must be passed with an empty entry,
// which leaves the base roles untouched.
func DelegatedRoles(base, viewRoles, authorRoles types.RoleSet) types.RoleSet {
	return base.Union(viewRoles.Intersect(authorRoles))
}

// CollectionRolesInView resolves the roles a principal holds on a
// collection while operating through the view. The first return value
// is the plain hierarchical result, the second includes delegation.
func CollectionRolesInView(
	org *types.Organization,
	project *types.Project,
	collection *types.Collection,
	view *types.View,
	principal types.Principal,
	teams map[string]struct{},
) (base, withView types.RoleSet) {
	if collection == nil {
		return 0, 0
	}

	base = ResourceRoles(org, project, collection.Permissions, principal, teams)
	if view == nil || !view.Query.ContainsCollection(collection.ID) {
		return base, base
	}

	viewRoles := ResourceRoles(org, project, view.Permissions, principal, teams)
	return base, DelegatedRoles(base, viewRoles, view.AuthorCollectionsRoles[collection.ID])
}

// LinkTypeRolesInView is CollectionRolesInView for link types, deriving
// the base roles from the endpoint collections unless the link type
// carries custom permissions.
func LinkTypeRolesInView(
	org *types.Organization,
	project *types.Project,
	linkType *types.LinkType,
	collections map[string]*types.Collection,
	view *types.View,
	principal types.Principal,
	teams map[string]struct{},
) (base, withView types.RoleSet) {
	if linkType == nil {
		return 0, 0
	}

	base = LinkTypeRoles(org, project, linkType, collections, principal, teams)
	if view == nil || !view.Query.ContainsLinkType(linkType.ID) {
		return base, base
	}

	viewRoles := ResourceRoles(org, project, view.Permissions, principal, teams)
	return base, DelegatedRoles(base, viewRoles, view.AuthorLinkTypesRoles[linkType.ID])
}
