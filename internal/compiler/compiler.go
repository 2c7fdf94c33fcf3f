// Package compiler fans the role resolver out across every collection
// and link type a view reaches, producing the capability lookup table
// the rest of the application consumes.
package compiler

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/collabdata/roles/internal/resolver"
	"github.com/collabdata/roles/types"
)

// Input is one batch compilation request: a consistent workspace
// snapshot, the view in context (may be nil), and the asking principal.
// Endpoints holds collections that are referenced by the link types but
// are not themselves compiled; a derived link type may connect a
// collection the view never queries.
type Input struct {
	Organization *types.Organization
	Project      *types.Project
	View         *types.View
	Collections  []*types.Collection
	Endpoints    []*types.Collection
	LinkTypes    []*types.LinkType
	Principal    types.Principal
	Teams        map[string]struct{}
}

// Compute resolves every collection and link type of the input. The
// computations are independent, so they run concurrently; no ordering
// is guaranteed and none is needed. The only possible error is context
// cancellation.
func Compute(ctx context.Context, in Input) (types.ResourcesPermissions, error) {
	byID := make(map[string]*types.Collection, len(in.Collections)+len(in.Endpoints))
	for _, c := range in.Collections {
		byID[c.ID] = c
	}
	for _, c := range in.Endpoints {
		byID[c.ID] = c
	}

	collections := make([]types.AllowedPermissions, len(in.Collections))
	linkTypes := make([]types.AllowedPermissions, len(in.LinkTypes))

	g, ctx := errgroup.WithContext(ctx)

	for i, collection := range in.Collections {
		i, collection := i, collection
		g.Go(func() error {
			if e := ctx.Err(); e != nil {
				return e
			}
			base, withView := resolver.CollectionRolesInView(
				in.Organization, in.Project, collection, in.View, in.Principal, in.Teams)
			collections[i] = types.AllowedPermissions{Roles: base, RolesWithView: withView}
			return nil
		})
	}

	for i, linkType := range in.LinkTypes {
		i, linkType := i, linkType
		g.Go(func() error {
			if e := ctx.Err(); e != nil {
				return e
			}
			base, withView := resolver.LinkTypeRolesInView(
				in.Organization, in.Project, linkType, byID, in.View, in.Principal, in.Teams)
			linkTypes[i] = types.AllowedPermissions{Roles: base, RolesWithView: withView}
			return nil
		})
	}

	if e := g.Wait(); e != nil {
		return types.ResourcesPermissions{}, e
	}

	out := types.ResourcesPermissions{
		Collections: make(map[string]types.AllowedPermissions, len(in.Collections)),
		LinkTypes:   make(map[string]types.AllowedPermissions, len(in.LinkTypes)),
	}
	for i, c := range in.Collections {
		out.Collections[c.ID] = collections[i]
	}
	for i, l := range in.LinkTypes {
		out.LinkTypes[l.ID] = linkTypes[i]
	}

	return out, nil
}
