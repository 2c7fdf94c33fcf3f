package resolver

import "github.com/collabdata/roles/types"

// The ownership gate decides record-level access: a matching data role
// grants unconditionally, and DataContribute substitutes for it when
// the principal owns the record. Ownership is creation for both
// documents and links, plus an externally supplied purpose rule for
// documents only.

// CanReadDocument tells if the principal may read the document
func CanReadDocument(
	perms types.AllowedPermissions,
	collection *types.Collection,
	document *types.Document,
	principal types.Principal,
	owner types.DocumentOwnershipFunc,
) bool {
	return canAccessDocument(perms, types.RoleDataRead, collection, document, principal, owner)
}

// CanEditDocument tells if the principal may edit the document
func CanEditDocument(
	perms types.AllowedPermissions,
	collection *types.Collection,
	document *types.Document,
	principal types.Principal,
	owner types.DocumentOwnershipFunc,
) bool {
	return canAccessDocument(perms, types.RoleDataWrite, collection, document, principal, owner)
}

// CanDeleteDocument tells if the principal may delete the document
func CanDeleteDocument(
	perms types.AllowedPermissions,
	collection *types.Collection,
	document *types.Document,
	principal types.Principal,
	owner types.DocumentOwnershipFunc,
) bool {
	return canAccessDocument(perms, types.RoleDataDelete, collection, document, principal, owner)
}

// CanReadLink tells if the principal may read the link instance
func CanReadLink(perms types.AllowedPermissions, link *types.LinkInstance, principal types.Principal) bool {
	return canAccessLink(perms, types.RoleDataRead, link, principal)
}

// CanEditLink tells if the principal may edit the link instance
func CanEditLink(perms types.AllowedPermissions, link *types.LinkInstance, principal types.Principal) bool {
	return canAccessLink(perms, types.RoleDataWrite, link, principal)
}

// CanDeleteLink tells if the principal may delete the link instance
func CanDeleteLink(perms types.AllowedPermissions, link *types.LinkInstance, principal types.Principal) bool {
	return canAccessLink(perms, types.RoleDataDelete, link, principal)
}

func canAccessDocument(
	perms types.AllowedPermissions,
	role types.RoleType,
	collection *types.Collection,
	document *types.Document,
	principal types.Principal,
	owner types.DocumentOwnershipFunc,
) bool {
	if document == nil {
		return false
	}
	if perms.AllowsWithView(role) {
		return true
	}
	if !perms.AllowsWithView(types.RoleDataContribute) {
		return false
	}

	if createdBy(document.CreatedBy, principal) {
		return true
	}
	return owner != nil && owner(collection, document, principal)
}

func canAccessLink(
	perms types.AllowedPermissions,
	role types.RoleType,
	link *types.LinkInstance,
	principal types.Principal,
) bool {
	if link == nil {
		return false
	}
	if perms.AllowsWithView(role) {
		return true
	}
	return perms.AllowsWithView(types.RoleDataContribute) && createdBy(link.CreatedBy, principal)
}

// createdBy matches creator ids in the persisted user space only
func createdBy(creator string, principal types.Principal) bool {
	return principal.IsUser() && creator != "" && creator == principal.ID()
}
