package types

import "context"

// PersistMethod defines what happened about a persisted snapshot
type PersistMethod string

// possible changes could happen about persisted snapshots
const (
	PersistInsert PersistMethod = "insert"
	PersistDelete PersistMethod = "delete"
	PersistUpdate PersistMethod = "update"
)

// ResourcePersister persists resource snapshots to an external storage.
// The engine only lists and watches; Upsert and Remove serve the
// external permission-editing surface which owns all mutation.
type ResourcePersister interface {
	// Upsert inserts or replaces a resource snapshot
	Upsert(ResourceSnapshot) error

	// Remove deletes a resource snapshot
	Remove(kind ResourceKind, id string) error

	// List all resource snapshots from the persister
	List() ([]ResourceSnapshot, error)

	// Watch any changes occurred about the snapshots in the persister
	Watch(context.Context) (<-chan ResourceChange, error)
}

// ResourceChange denotes a changing event about a resource snapshot.
// Resource is nil for deletions; Kind and ID are always set.
type ResourceChange struct {
	Resource ResourceSnapshot
	Kind     ResourceKind
	ID       string
	Method   PersistMethod
}

// Membership is one user's team assignment within one organization,
// owned by the external team directory
type Membership struct {
	UserID         string
	OrganizationID string
	Teams          []string
}

// MembershipPersister persists user-organization-teams assignments to
// an external storage
type MembershipPersister interface {
	// Set inserts or replaces the user's team assignment in the organization
	Set(Membership) error

	// Remove deletes the user's team assignment in the organization
	Remove(userID, organizationID string) error

	// List all membership rows from the persister
	List() ([]Membership, error)

	// Watch any changes occurred about the memberships in the persister
	Watch(context.Context) (<-chan MembershipChange, error)
}

// MembershipChange denotes a changing event about a membership row
type MembershipChange struct {
	Membership
	Method PersistMethod
}
