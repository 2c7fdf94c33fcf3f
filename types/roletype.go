package types

import "strings"

// RoleType is one of the closed set of capability kinds a principal may
// hold on a resource. The full set is known at compile time; no new kinds
// are ever introduced at runtime.
// Role types are power of twos to achieve efficient set operations,
// like union, intersection, complement.
type RoleType uint32

// all known role types
const (
	RoleRead RoleType = 1 << iota
	RoleManage
	RoleDataRead
	RoleDataWrite
	RoleDataDelete
	RoleDataContribute
	RoleViewContribute
	RoleCollectionContribute
	RoleLinkContribute
	RoleProjectContribute
	RoleCommentContribute
	RoleAttributeEdit
	RoleUserConfig
	RoleTechConfig
	RolePerspectiveConfig
	RoleQueryConfig
)

// conceptual groups of role types
const (
	StructuralRoles = RoleSet(RoleRead | RoleManage)

	DataRoles = RoleSet(RoleDataRead | RoleDataWrite | RoleDataDelete | RoleDataContribute)

	ContributionRoles = RoleSet(RoleViewContribute | RoleCollectionContribute |
		RoleLinkContribute | RoleProjectContribute | RoleCommentContribute)

	ConfigurationRoles = RoleSet(RoleAttributeEdit | RoleUserConfig |
		RoleTechConfig | RolePerspectiveConfig | RoleQueryConfig)
)

// AllRoleTypes is the union of every known role type
const AllRoleTypes = StructuralRoles | DataRoles | ContributionRoles | ConfigurationRoles

var roleTypeNames = map[RoleType]string{
	RoleRead:                 "Read",
	RoleManage:               "Manage",
	RoleDataRead:             "DataRead",
	RoleDataWrite:            "DataWrite",
	RoleDataDelete:           "DataDelete",
	RoleDataContribute:       "DataContribute",
	RoleViewContribute:       "ViewContribute",
	RoleCollectionContribute: "CollectionContribute",
	RoleLinkContribute:       "LinkContribute",
	RoleProjectContribute:    "ProjectContribute",
	RoleCommentContribute:    "CommentContribute",
	RoleAttributeEdit:        "AttributeEdit",
	RoleUserConfig:           "UserConfig",
	RoleTechConfig:           "TechConfig",
	RolePerspectiveConfig:    "PerspectiveConfig",
	RoleQueryConfig:          "QueryConfig",
}

var roleTypesByName = func() map[string]RoleType {
	byName := make(map[string]RoleType, len(roleTypeNames))
	for t, n := range roleTypeNames {
		byName[n] = t
	}
	return byName
}()

func (t RoleType) String() string {
	if n, ok := roleTypeNames[t]; ok {
		return n
	}
	return "unknown"
}

// ParseRoleType parses a serialized RoleType by its canonical name
func ParseRoleType(s string) (RoleType, error) {
	if t, ok := roleTypesByName[s]; ok {
		return t, nil
	}
	return 0, ErrUnknownRoleType
}

// RoleSet is a set of role types backed by a bitmask.
// The zero value is the empty set, membership tests are O(1),
// and set operations never allocate.
type RoleSet uint32

// NewRoleSet builds a set of the given role types
func NewRoleSet(types ...RoleType) RoleSet {
	var s RoleSet
	for _, t := range types {
		s |= RoleSet(t)
	}
	return s
}

// Has tells if the set contains the role type
func (s RoleSet) Has(t RoleType) bool {
	return s&RoleSet(t) != 0
}

// With returns the set extended by the given role types
func (s RoleSet) With(types ...RoleType) RoleSet {
	return s | NewRoleSet(types...)
}

// Union returns the set of role types belonging to either set
func (s RoleSet) Union(o RoleSet) RoleSet {
	return s | o
}

// Intersect returns the set of role types belonging to both sets
func (s RoleSet) Intersect(o RoleSet) RoleSet {
	return s & o
}

// Difference returns the set of role types belonging to s but not o
func (s RoleSet) Difference(o RoleSet) RoleSet {
	return s &^ o
}

// IsIn tells if all role types in s are members of o: s is a subset of o
func (s RoleSet) IsIn(o RoleSet) bool {
	return s|o == o
}

// IsEmpty tells if the set contains no role type at all
func (s RoleSet) IsEmpty() bool {
	return s == 0
}

// Split breaks the set into its single role types
func (s RoleSet) Split() []RoleType {
	out := make([]RoleType, 0)
	for t := RoleType(1); RoleSet(t) <= s && t != 0; t <<= 1 {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s RoleSet) String() string {
	types := s.Split()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return strings.Join(names, "|")
}
