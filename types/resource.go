package types

// ResourceKind names the five kinds of permission-bearing resources
type ResourceKind string

// all resource kinds
const (
	KindOrganization ResourceKind = "organization"
	KindProject      ResourceKind = "project"
	KindCollection   ResourceKind = "collection"
	KindLinkType     ResourceKind = "linkType"
	KindView         ResourceKind = "view"
)

// ResourceSnapshot is a read-only snapshot of one permission-bearing
// resource, as supplied by the external store. The engine never
// creates, mutates, or deletes snapshots.
type ResourceSnapshot interface {
	ResourceID() string
	ResourceKind() ResourceKind
}

var _ ResourceSnapshot = (*Organization)(nil)
var _ ResourceSnapshot = (*Project)(nil)
var _ ResourceSnapshot = (*Collection)(nil)
var _ ResourceSnapshot = (*LinkType)(nil)
var _ ResourceSnapshot = (*View)(nil)

// Organization is the root of the resource hierarchy
type Organization struct {
	ID          string
	Code        string
	Name        string
	Permissions Permissions
}

func (o *Organization) ResourceID() string         { return o.ID }
func (o *Organization) ResourceKind() ResourceKind { return KindOrganization }

// Project belongs to an organization and owns collections, link types,
// and views
type Project struct {
	ID             string
	OrganizationID string
	Code           string
	Name           string
	Permissions    Permissions
}

func (p *Project) ResourceID() string         { return p.ID }
func (p *Project) ResourceKind() ResourceKind { return KindProject }

// CollectionPurpose describes what the documents of a collection are
// used for. The meta data drives purpose-based document ownership,
// evaluated by an externally supplied predicate.
type CollectionPurpose struct {
	Type     string
	MetaData map[string]interface{}
}

// Collection holds documents under a project
type Collection struct {
	ID          string
	ProjectID   string
	Name        string
	Purpose     CollectionPurpose
	Permissions Permissions
}

func (c *Collection) ResourceID() string         { return c.ID }
func (c *Collection) ResourceKind() ResourceKind { return KindCollection }

// LinkTypePermissions tells where a link type's effective roles come from
type LinkTypePermissions int

const (
	// LinkPermissionsDerived derives roles from the two endpoint
	// collections: the intersection of the roles held on both
	LinkPermissionsDerived LinkTypePermissions = iota

	// LinkPermissionsCustom resolves the link type's own Permissions
	// through the resource hierarchy
	LinkPermissionsCustom
)

// LinkType connects two collections under a project
type LinkType struct {
	ID              string
	ProjectID       string
	Name            string
	CollectionIDs   [2]string
	PermissionsType LinkTypePermissions
	Permissions     Permissions
}

func (l *LinkType) ResourceID() string         { return l.ID }
func (l *LinkType) ResourceKind() ResourceKind { return KindLinkType }

// ViewQuery lists the collections and link types a view reaches
type ViewQuery struct {
	CollectionIDs []string
	LinkTypeIDs   []string
}

// ContainsCollection tells if the view query reaches the collection
func (q ViewQuery) ContainsCollection(id string) bool {
	return containsID(q.CollectionIDs, id)
}

// ContainsLinkType tells if the view query reaches the link type
func (q ViewQuery) ContainsLinkType(id string) bool {
	return containsID(q.LinkTypeIDs, id)
}

func containsID(ids []string, id string) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}

// View is a saved perspective over collections and link types.
// AuthorCollectionsRoles and AuthorLinkTypesRoles record, per reachable
// resource id, the role types the view author is willing to delegate to
// anyone who can use the view itself.
type View struct {
	ID                     string
	ProjectID              string
	Name                   string
	Query                  ViewQuery
	AuthorCollectionsRoles map[string]RoleSet
	AuthorLinkTypesRoles   map[string]RoleSet
	Permissions            Permissions
}

func (v *View) ResourceID() string         { return v.ID }
func (v *View) ResourceKind() ResourceKind { return KindView }
