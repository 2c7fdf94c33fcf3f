package mgo

import (
	"fmt"
	"strings"

	"github.com/collabdata/roles/types"
)

// Snapshots of every resource kind share one mongodb collection. The
// document id is "kind#id" so a change stream delete event, which
// carries the document key only, still tells which snapshot is gone.

type resourceDO struct {
	ID           string               `bson:"_id"`
	Kind         types.ResourceKind   `bson:"kind"`
	ResourceID   string               `bson:"resourceId"`
	Organization *organizationDO      `bson:"organization,omitempty"`
	Project      *projectDO           `bson:"project,omitempty"`
	Collection   *collectionSnapshot  `bson:"collection,omitempty"`
	LinkType     *linkTypeDO          `bson:"linkType,omitempty"`
	View         *viewDO              `bson:"view,omitempty"`
}

type organizationDO struct {
	Code        string        `bson:"code,omitempty"`
	Name        string        `bson:"name,omitempty"`
	Permissions permissionsDO `bson:"permissions,omitempty"`
}

type projectDO struct {
	OrganizationID string        `bson:"organizationId"`
	Code           string        `bson:"code,omitempty"`
	Name           string        `bson:"name,omitempty"`
	Permissions    permissionsDO `bson:"permissions,omitempty"`
}

type collectionSnapshot struct {
	ProjectID   string                 `bson:"projectId"`
	Name        string                 `bson:"name,omitempty"`
	PurposeType string                 `bson:"purposeType,omitempty"`
	PurposeMeta map[string]interface{} `bson:"purposeMeta,omitempty"`
	Permissions permissionsDO          `bson:"permissions,omitempty"`
}

type linkTypeDO struct {
	ProjectID       string        `bson:"projectId"`
	Name            string        `bson:"name,omitempty"`
	CollectionIDs   []string      `bson:"collectionIds"`
	PermissionsType int           `bson:"permissionsType"`
	Permissions     permissionsDO `bson:"permissions,omitempty"`
}

type viewDO struct {
	ProjectID              string              `bson:"projectId"`
	Name                   string              `bson:"name,omitempty"`
	QueryCollectionIDs     []string            `bson:"queryCollectionIds,omitempty"`
	QueryLinkTypeIDs       []string            `bson:"queryLinkTypeIds,omitempty"`
	AuthorCollectionsRoles map[string][]string `bson:"authorCollectionsRoles,omitempty"`
	AuthorLinkTypesRoles   map[string][]string `bson:"authorLinkTypesRoles,omitempty"`
	Permissions            permissionsDO       `bson:"permissions,omitempty"`
}

// role types are stored by name, not by bit value, so persisted data
// survives reordering of the RoleType constants

type roleDO struct {
	Type       string `bson:"type"`
	Transitive bool   `bson:"transitive,omitempty"`
}

type permissionDO struct {
	PrincipalID string   `bson:"principalId"`
	Roles       []roleDO `bson:"roles,omitempty"`
}

type permissionsDO struct {
	Users  []permissionDO `bson:"users,omitempty"`
	Groups []permissionDO `bson:"groups,omitempty"`
}

func resourceDocID(kind types.ResourceKind, id string) string {
	return string(kind) + "#" + id
}

func parseResourceDocID(docID string) (types.ResourceKind, string, error) {
	parts := strings.SplitN(docID, "#", 2)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid resource document id: %s", docID)
	}
	return types.ResourceKind(parts[0]), parts[1], nil
}

func newResourceDO(resource types.ResourceSnapshot) (*resourceDO, error) {
	do := &resourceDO{
		ID:         resourceDocID(resource.ResourceKind(), resource.ResourceID()),
		Kind:       resource.ResourceKind(),
		ResourceID: resource.ResourceID(),
	}

	switch r := resource.(type) {
	case *types.Organization:
		do.Organization = &organizationDO{
			Code:        r.Code,
			Name:        r.Name,
			Permissions: fromPermissions(r.Permissions),
		}
	case *types.Project:
		do.Project = &projectDO{
			OrganizationID: r.OrganizationID,
			Code:           r.Code,
			Name:           r.Name,
			Permissions:    fromPermissions(r.Permissions),
		}
	case *types.Collection:
		do.Collection = &collectionSnapshot{
			ProjectID:   r.ProjectID,
			Name:        r.Name,
			PurposeType: r.Purpose.Type,
			PurposeMeta: r.Purpose.MetaData,
			Permissions: fromPermissions(r.Permissions),
		}
	case *types.LinkType:
		do.LinkType = &linkTypeDO{
			ProjectID:       r.ProjectID,
			Name:            r.Name,
			CollectionIDs:   r.CollectionIDs[:],
			PermissionsType: int(r.PermissionsType),
			Permissions:     fromPermissions(r.Permissions),
		}
	case *types.View:
		do.View = &viewDO{
			ProjectID:              r.ProjectID,
			Name:                   r.Name,
			QueryCollectionIDs:     r.Query.CollectionIDs,
			QueryLinkTypeIDs:       r.Query.LinkTypeIDs,
			AuthorCollectionsRoles: fromRoleSets(r.AuthorCollectionsRoles),
			AuthorLinkTypesRoles:   fromRoleSets(r.AuthorLinkTypesRoles),
			Permissions:            fromPermissions(r.Permissions),
		}
	default:
		return nil, types.ErrUnknownResourceKind
	}

	return do, nil
}

func (do *resourceDO) asResource() (types.ResourceSnapshot, error) {
	switch {
	case do.Organization != nil:
		perms, e := do.Organization.Permissions.asPermissions()
		if e != nil {
			return nil, e
		}
		return &types.Organization{
			ID:          do.ResourceID,
			Code:        do.Organization.Code,
			Name:        do.Organization.Name,
			Permissions: perms,
		}, nil

	case do.Project != nil:
		perms, e := do.Project.Permissions.asPermissions()
		if e != nil {
			return nil, e
		}
		return &types.Project{
			ID:             do.ResourceID,
			OrganizationID: do.Project.OrganizationID,
			Code:           do.Project.Code,
			Name:           do.Project.Name,
			Permissions:    perms,
		}, nil

	case do.Collection != nil:
		perms, e := do.Collection.Permissions.asPermissions()
		if e != nil {
			return nil, e
		}
		return &types.Collection{
			ID:        do.ResourceID,
			ProjectID: do.Collection.ProjectID,
			Name:      do.Collection.Name,
			Purpose: types.CollectionPurpose{
				Type:     do.Collection.PurposeType,
				MetaData: do.Collection.PurposeMeta,
			},
			Permissions: perms,
		}, nil

	case do.LinkType != nil:
		perms, e := do.LinkType.Permissions.asPermissions()
		if e != nil {
			return nil, e
		}
		lt := &types.LinkType{
			ID:              do.ResourceID,
			ProjectID:       do.LinkType.ProjectID,
			Name:            do.LinkType.Name,
			PermissionsType: types.LinkTypePermissions(do.LinkType.PermissionsType),
			Permissions:     perms,
		}
		copy(lt.CollectionIDs[:], do.LinkType.CollectionIDs)
		return lt, nil

	case do.View != nil:
		perms, e := do.View.Permissions.asPermissions()
		if e != nil {
			return nil, e
		}
		collectionsRoles, e := asRoleSets(do.View.AuthorCollectionsRoles)
		if e != nil {
			return nil, e
		}
		linkTypesRoles, e := asRoleSets(do.View.AuthorLinkTypesRoles)
		if e != nil {
			return nil, e
		}
		return &types.View{
			ID:        do.ResourceID,
			ProjectID: do.View.ProjectID,
			Name:      do.View.Name,
			Query: types.ViewQuery{
				CollectionIDs: do.View.QueryCollectionIDs,
				LinkTypeIDs:   do.View.QueryLinkTypeIDs,
			},
			AuthorCollectionsRoles: collectionsRoles,
			AuthorLinkTypesRoles:   linkTypesRoles,
			Permissions:            perms,
		}, nil
	}

	return nil, types.ErrUnknownResourceKind
}

func fromPermissions(perms types.Permissions) permissionsDO {
	return permissionsDO{
		Users:  fromPermissionList(perms.Users),
		Groups: fromPermissionList(perms.Groups),
	}
}

func fromPermissionList(perms []types.Permission) []permissionDO {
	if len(perms) == 0 {
		return nil
	}

	dos := make([]permissionDO, 0, len(perms))
	for _, p := range perms {
		do := permissionDO{PrincipalID: p.PrincipalID}
		for _, role := range p.Roles {
			do.Roles = append(do.Roles, roleDO{
				Type:       role.Type.String(),
				Transitive: role.Transitive,
			})
		}
		dos = append(dos, do)
	}

	return dos
}

func (do permissionsDO) asPermissions() (types.Permissions, error) {
	users, e := asPermissionList(do.Users)
	if e != nil {
		return types.Permissions{}, e
	}
	groups, e := asPermissionList(do.Groups)
	if e != nil {
		return types.Permissions{}, e
	}

	return types.Permissions{Users: users, Groups: groups}, nil
}

func asPermissionList(dos []permissionDO) ([]types.Permission, error) {
	if len(dos) == 0 {
		return nil, nil
	}

	perms := make([]types.Permission, 0, len(dos))
	for _, do := range dos {
		p := types.Permission{PrincipalID: do.PrincipalID}
		for _, role := range do.Roles {
			t, e := types.ParseRoleType(role.Type)
			if e != nil {
				return nil, e
			}
			p.Roles = append(p.Roles, types.Role{Type: t, Transitive: role.Transitive})
		}
		perms = append(perms, p)
	}

	return perms, nil
}

func fromRoleSets(sets map[string]types.RoleSet) map[string][]string {
	if len(sets) == 0 {
		return nil
	}

	out := make(map[string][]string, len(sets))
	for id, set := range sets {
		names := make([]string, 0, len(set.Split()))
		for _, t := range set.Split() {
			names = append(names, t.String())
		}
		out[id] = names
	}

	return out
}

func asRoleSets(sets map[string][]string) (map[string]types.RoleSet, error) {
	if len(sets) == 0 {
		return nil, nil
	}

	out := make(map[string]types.RoleSet, len(sets))
	for id, names := range sets {
		var set types.RoleSet
		for _, name := range names {
			t, e := types.ParseRoleType(name)
			if e != nil {
				return nil, e
			}
			set = set.With(t)
		}
		out[id] = set
	}

	return out, nil
}
