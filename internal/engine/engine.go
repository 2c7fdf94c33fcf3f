// Package engine implements the Resolver facade: it assembles
// workspace snapshots from the store, runs the pure resolver over
// them, and layers the super-admin override, the resolution cache,
// and metrics on top.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/collabdata/roles/internal/compiler"
	"github.com/collabdata/roles/internal/resolver"
	"github.com/collabdata/roles/internal/store"
	"github.com/collabdata/roles/metrics"
	"github.com/collabdata/roles/types"
)

var _ types.Resolver = (*Engine)(nil)

// Config assembles an Engine
type Config struct {
	Store       *store.Store
	Log         logr.Logger
	SuperAdmins []string
	Ownership   types.DocumentOwnershipFunc
	CacheSize   int
	Metrics     *metrics.Collector
}

// Engine resolves effective roles against the current store state
type Engine struct {
	store       *store.Store
	log         logr.Logger
	superAdmins map[string]struct{}
	ownership   types.DocumentOwnershipFunc
	cache       *lru.Cache[string, types.AllowedPermissions]
	metrics     *metrics.Collector
}

// New creates an Engine
func New(cfg Config) (*Engine, error) {
	e := &Engine{
		store:     cfg.Store,
		log:       cfg.Log,
		ownership: cfg.Ownership,
		metrics:   cfg.Metrics,
	}

	if len(cfg.SuperAdmins) > 0 {
		e.superAdmins = make(map[string]struct{}, len(cfg.SuperAdmins))
		for _, id := range cfg.SuperAdmins {
			e.superAdmins[id] = struct{}{}
		}
	}

	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, types.AllowedPermissions](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("init resolution cache: %w", err)
		}
		e.cache = cache
	}

	return e, nil
}

// OrganizationRoles resolves the principal's roles on an organization
func (e *Engine) OrganizationRoles(principal types.Principal, organizationID string) types.AllowedPermissions {
	return e.resolve(principal, types.KindOrganization, organizationID, "")
}

// ProjectRoles resolves the principal's roles on a project
func (e *Engine) ProjectRoles(principal types.Principal, projectID string) types.AllowedPermissions {
	return e.resolve(principal, types.KindProject, projectID, "")
}

// CollectionRoles resolves the principal's roles on a collection
func (e *Engine) CollectionRoles(principal types.Principal, collectionID string) types.AllowedPermissions {
	return e.resolve(principal, types.KindCollection, collectionID, "")
}

// CollectionRolesInView resolves the principal's roles on a collection
// accessed through the view
func (e *Engine) CollectionRolesInView(principal types.Principal, collectionID, viewID string) types.AllowedPermissions {
	return e.resolve(principal, types.KindCollection, collectionID, viewID)
}

// LinkTypeRoles resolves the principal's roles on a link type
func (e *Engine) LinkTypeRoles(principal types.Principal, linkTypeID string) types.AllowedPermissions {
	return e.resolve(principal, types.KindLinkType, linkTypeID, "")
}

// LinkTypeRolesInView resolves the principal's roles on a link type
// accessed through the view
func (e *Engine) LinkTypeRolesInView(principal types.Principal, linkTypeID, viewID string) types.AllowedPermissions {
	return e.resolve(principal, types.KindLinkType, linkTypeID, viewID)
}

// ViewRoles resolves the principal's roles on a view
func (e *Engine) ViewRoles(principal types.Principal, viewID string) types.AllowedPermissions {
	return e.resolve(principal, types.KindView, viewID, "")
}

// ResourcesPermissions compiles the capability lookup table for every
// collection and link type the view reaches. An unknown view id yields
// empty maps rather than an error.
func (e *Engine) ResourcesPermissions(
	ctx context.Context,
	principal types.Principal,
	viewID string,
) (types.ResourcesPermissions, error) {
	view := e.store.View(viewID)
	if view == nil {
		return types.ResourcesPermissions{
			Collections: map[string]types.AllowedPermissions{},
			LinkTypes:   map[string]types.AllowedPermissions{},
		}, nil
	}

	project := e.store.Project(view.ProjectID)
	var org *types.Organization
	if project != nil {
		org = e.store.Organization(project.OrganizationID)
	}

	byID := e.store.Collections(view.Query.CollectionIDs...)
	collections := make([]*types.Collection, 0, len(byID))
	for _, id := range view.Query.CollectionIDs {
		if c := byID[id]; c != nil {
			collections = append(collections, c)
		}
	}
	linkTypes := e.store.LinkTypes(view.Query.LinkTypeIDs...)

	// derived link types resolve through their endpoint collections,
	// which the view query does not necessarily reach itself
	var endpointIDs []string
	for _, l := range linkTypes {
		for _, id := range l.CollectionIDs {
			if byID[id] == nil {
				endpointIDs = append(endpointIDs, id)
			}
		}
	}
	endpointsByID := e.store.Collections(endpointIDs...)
	endpoints := make([]*types.Collection, 0, len(endpointsByID))
	for _, c := range endpointsByID {
		endpoints = append(endpoints, c)
	}

	if e.isSuperAdmin(principal) {
		out := types.ResourcesPermissions{
			Collections: make(map[string]types.AllowedPermissions, len(collections)),
			LinkTypes:   make(map[string]types.AllowedPermissions, len(linkTypes)),
		}
		for _, c := range collections {
			out.Collections[c.ID] = types.NewAllowedPermissions(types.AllRoleTypes)
		}
		for _, l := range linkTypes {
			out.LinkTypes[l.ID] = types.NewAllowedPermissions(types.AllRoleTypes)
		}
		return out, nil
	}

	in := compiler.Input{
		Organization: org,
		Project:      project,
		View:         view,
		Collections:  collections,
		Endpoints:    endpoints,
		LinkTypes:    linkTypes,
		Principal:    principal,
		Teams:        e.teams(principal, org),
	}

	started := time.Now()
	out, err := compiler.Compute(ctx, in)
	if err != nil {
		return types.ResourcesPermissions{}, err
	}
	e.metrics.ObserveBatch(time.Since(started))

	return out, nil
}

// CanReadDocument tells if the principal may read the document
func (e *Engine) CanReadDocument(principal types.Principal, document *types.Document, viewID string) bool {
	perms, collection := e.documentContext(principal, document, viewID)
	return resolver.CanReadDocument(perms, collection, document, principal, e.ownership)
}

// CanEditDocument tells if the principal may edit the document
func (e *Engine) CanEditDocument(principal types.Principal, document *types.Document, viewID string) bool {
	perms, collection := e.documentContext(principal, document, viewID)
	return resolver.CanEditDocument(perms, collection, document, principal, e.ownership)
}

// CanDeleteDocument tells if the principal may delete the document
func (e *Engine) CanDeleteDocument(principal types.Principal, document *types.Document, viewID string) bool {
	perms, collection := e.documentContext(principal, document, viewID)
	return resolver.CanDeleteDocument(perms, collection, document, principal, e.ownership)
}

// CanReadLink tells if the principal may read the link instance
func (e *Engine) CanReadLink(principal types.Principal, link *types.LinkInstance, viewID string) bool {
	return resolver.CanReadLink(e.linkContext(principal, link, viewID), link, principal)
}

// CanEditLink tells if the principal may edit the link instance
func (e *Engine) CanEditLink(principal types.Principal, link *types.LinkInstance, viewID string) bool {
	return resolver.CanEditLink(e.linkContext(principal, link, viewID), link, principal)
}

// CanDeleteLink tells if the principal may delete the link instance
func (e *Engine) CanDeleteLink(principal types.Principal, link *types.LinkInstance, viewID string) bool {
	return resolver.CanDeleteLink(e.linkContext(principal, link, viewID), link, principal)
}

func (e *Engine) documentContext(
	principal types.Principal,
	document *types.Document,
	viewID string,
) (types.AllowedPermissions, *types.Collection) {
	if document == nil {
		return types.AllowedPermissions{}, nil
	}
	collection := e.store.Collection(document.CollectionID)
	if collection == nil {
		return types.AllowedPermissions{}, nil
	}
	return e.resolve(principal, types.KindCollection, collection.ID, viewID), collection
}

func (e *Engine) linkContext(
	principal types.Principal,
	link *types.LinkInstance,
	viewID string,
) types.AllowedPermissions {
	if link == nil {
		return types.AllowedPermissions{}
	}
	return e.resolve(principal, types.KindLinkType, link.LinkTypeID, viewID)
}

// resolve is the single entry for role resolution: super-admin check
// first, then the cache, then the pure resolver over store snapshots
func (e *Engine) resolve(principal types.Principal, kind types.ResourceKind, id, viewID string) types.AllowedPermissions {
	if e.isSuperAdmin(principal) {
		return types.NewAllowedPermissions(types.AllRoleTypes)
	}

	var key string
	if e.cache != nil {
		key = fmt.Sprintf("%s|%s|%s|%s|%d", principal, kind, id, viewID, e.store.Generation())
		if perms, ok := e.cache.Get(key); ok {
			e.metrics.CacheHit()
			return perms
		}
		e.metrics.CacheMiss()
	}

	perms := e.compute(principal, kind, id, viewID)
	e.metrics.Resolution(kind)
	e.log.V(6).Info("resolved roles",
		"principal", principal, "kind", kind, "id", id, "view", viewID, "roles", perms.RolesWithView)

	if e.cache != nil {
		e.cache.Add(key, perms)
	}
	return perms
}

func (e *Engine) compute(principal types.Principal, kind types.ResourceKind, id, viewID string) types.AllowedPermissions {
	switch kind {
	case types.KindOrganization:
		org := e.store.Organization(id)
		if org == nil {
			return types.AllowedPermissions{}
		}
		return types.NewAllowedPermissions(
			resolver.OrganizationRoles(org, principal, e.teams(principal, org)))

	case types.KindProject:
		project := e.store.Project(id)
		if project == nil {
			return types.AllowedPermissions{}
		}
		org := e.store.Organization(project.OrganizationID)
		return types.NewAllowedPermissions(
			resolver.ProjectRoles(org, project, principal, e.teams(principal, org)))

	case types.KindCollection:
		collection := e.store.Collection(id)
		if collection == nil {
			return types.AllowedPermissions{}
		}
		org, project := e.ancestors(collection.ProjectID)
		base, withView := resolver.CollectionRolesInView(
			org, project, collection, e.view(viewID), principal, e.teams(principal, org))
		return types.AllowedPermissions{Roles: base, RolesWithView: withView}

	case types.KindLinkType:
		linkType := e.store.LinkType(id)
		if linkType == nil {
			return types.AllowedPermissions{}
		}
		org, project := e.ancestors(linkType.ProjectID)
		collections := e.store.Collections(linkType.CollectionIDs[0], linkType.CollectionIDs[1])
		base, withView := resolver.LinkTypeRolesInView(
			org, project, linkType, collections, e.view(viewID), principal, e.teams(principal, org))
		return types.AllowedPermissions{Roles: base, RolesWithView: withView}

	case types.KindView:
		view := e.store.View(id)
		if view == nil {
			return types.AllowedPermissions{}
		}
		org, project := e.ancestors(view.ProjectID)
		return types.NewAllowedPermissions(
			resolver.ResourceRoles(org, project, view.Permissions, principal, e.teams(principal, org)))
	}

	return types.AllowedPermissions{}
}

func (e *Engine) ancestors(projectID string) (*types.Organization, *types.Project) {
	project := e.store.Project(projectID)
	if project == nil {
		return nil, nil
	}
	return e.store.Organization(project.OrganizationID), project
}

func (e *Engine) view(viewID string) *types.View {
	if viewID == "" {
		return nil
	}
	return e.store.View(viewID)
}

func (e *Engine) teams(principal types.Principal, org *types.Organization) map[string]struct{} {
	if org == nil || !principal.IsUser() {
		return nil
	}
	return resolver.MemberTeams(e.store.User(principal.ID()), org.ID)
}

func (e *Engine) isSuperAdmin(principal types.Principal) bool {
	if !principal.IsUser() {
		return false
	}
	_, ok := e.superAdmins[principal.ID()]
	return ok
}
