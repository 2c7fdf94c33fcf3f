package types

import "context"

// Resolver is the top level interface for end use. It answers, for any
// principal and any resource of the workspace it was fed, which role
// types the principal effectively holds there.
//
// Every answer is computed from the current snapshots; a missing
// referent denies instead of failing. Methods may be called
// concurrently without coordination.
type Resolver interface {
	// OrganizationRoles resolves the principal's roles on an organization
	OrganizationRoles(principal Principal, organizationID string) AllowedPermissions

	// ProjectRoles resolves the principal's roles on a project
	ProjectRoles(principal Principal, projectID string) AllowedPermissions

	// CollectionRoles resolves the principal's roles on a collection,
	// with no view in context
	CollectionRoles(principal Principal, collectionID string) AllowedPermissions

	// CollectionRolesInView resolves the principal's roles on a
	// collection accessed through the given view
	CollectionRolesInView(principal Principal, collectionID, viewID string) AllowedPermissions

	// LinkTypeRoles resolves the principal's roles on a link type,
	// with no view in context
	LinkTypeRoles(principal Principal, linkTypeID string) AllowedPermissions

	// LinkTypeRolesInView resolves the principal's roles on a link type
	// accessed through the given view
	LinkTypeRolesInView(principal Principal, linkTypeID, viewID string) AllowedPermissions

	// ViewRoles resolves the principal's roles on a view
	ViewRoles(principal Principal, viewID string) AllowedPermissions

	// ResourcesPermissions compiles the capability lookup table for
	// every collection and link type the view reaches
	ResourcesPermissions(ctx context.Context, principal Principal, viewID string) (ResourcesPermissions, error)

	// CanReadDocument tells if the principal may read the document,
	// by role or by ownership. Pass an empty viewID for no view in context.
	CanReadDocument(principal Principal, document *Document, viewID string) bool

	// CanEditDocument tells if the principal may edit the document
	CanEditDocument(principal Principal, document *Document, viewID string) bool

	// CanDeleteDocument tells if the principal may delete the document
	CanDeleteDocument(principal Principal, document *Document, viewID string) bool

	// CanReadLink tells if the principal may read the link instance
	CanReadLink(principal Principal, link *LinkInstance, viewID string) bool

	// CanEditLink tells if the principal may edit the link instance
	CanEditLink(principal Principal, link *LinkInstance, viewID string) bool

	// CanDeleteLink tells if the principal may delete the link instance
	CanDeleteLink(principal Principal, link *LinkInstance, viewID string) bool
}
