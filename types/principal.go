package types

// principalKind tags the three disjoint principal spaces
type principalKind uint8

const (
	principalUser principalKind = iota
	principalPendingUser
	principalTeam
)

var principalKindNames = [...]string{"user", "pending", "team"}

// Principal identifies who is asking for access: a persisted user, a
// not-yet-persisted user known only by a correlation id, or a team.
// The three id spaces are disjoint; resolution never compares ids
// across them.
type Principal struct {
	kind principalKind
	id   string
}

// UserPrincipal identifies a persisted user by its id
func UserPrincipal(id string) Principal {
	return Principal{kind: principalUser, id: id}
}

// PendingUserPrincipal identifies an invited, not yet persisted user by
// its correlation id. Pending principals never match persisted grant
// ids, so they resolve to no roles until the user is persisted.
func PendingUserPrincipal(correlationID string) Principal {
	return Principal{kind: principalPendingUser, id: correlationID}
}

// TeamPrincipal identifies a team by its id
func TeamPrincipal(id string) Principal {
	return Principal{kind: principalTeam, id: id}
}

// ID returns the raw id within the principal's own space
func (p Principal) ID() string {
	return p.id
}

// IsTeam tells if the principal is a team
func (p Principal) IsTeam() bool {
	return p.kind == principalTeam
}

// IsPendingUser tells if the principal is a user known only by a
// correlation id
func (p Principal) IsPendingUser() bool {
	return p.kind == principalPendingUser
}

// IsUser tells if the principal is a persisted user
func (p Principal) IsUser() bool {
	return p.kind == principalUser
}

func (p Principal) String() string {
	return principalKindNames[p.kind] + ":" + p.id
}

// User is the engine's snapshot of a user: its persisted id and, per
// organization id, the teams it belongs to. The mapping is owned and
// mutated by the external team directory, never by the engine.
type User struct {
	ID    string
	Email string
	Teams map[string][]string
}
