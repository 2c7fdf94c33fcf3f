// Package store keeps the engine's in-memory snapshot of the
// workspace: every permission-bearing resource plus the user-team
// memberships, loaded from persisters and kept current through their
// change channels. Readers get consistent point-in-time values guarded
// by a single RWMutex; a generation counter tracks every applied
// change so resolution caches can key on it.
package store

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/collabdata/roles/types"
)

// Store is the in-memory snapshot state
type Store struct {
	log logr.Logger

	mu            sync.RWMutex
	organizations map[string]*types.Organization
	projects      map[string]*types.Project
	collections   map[string]*types.Collection
	linkTypes     map[string]*types.LinkType
	views         map[string]*types.View
	users         map[string]*types.User

	generation atomic.Uint64
}

// New creates an empty store
func New(log logr.Logger) *Store {
	return &Store{
		log:           log,
		organizations: make(map[string]*types.Organization),
		projects:      make(map[string]*types.Project),
		collections:   make(map[string]*types.Collection),
		linkTypes:     make(map[string]*types.LinkType),
		views:         make(map[string]*types.View),
		users:         make(map[string]*types.User),
	}
}

// Generation returns the number of changes applied so far. Two equal
// generations imply identical snapshot state.
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}

// ApplyResource applies one resource change event
func (s *Store) ApplyResource(change types.ResourceChange) error {
	s.log.V(4).Info("apply resource change", "kind", change.Kind, "id", change.ID, "method", change.Method)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch change.Method {
	case types.PersistInsert, types.PersistUpdate:
		if e := s.put(change.Resource); e != nil {
			return e
		}
	case types.PersistDelete:
		if e := s.drop(change.Kind, change.ID); e != nil {
			return e
		}
	default:
		return fmt.Errorf("%w: resource change method %s", types.ErrUnsupportedChange, change.Method)
	}

	s.generation.Add(1)
	return nil
}

func (s *Store) put(resource types.ResourceSnapshot) error {
	switch r := resource.(type) {
	case *types.Organization:
		s.organizations[r.ID] = r
	case *types.Project:
		s.projects[r.ID] = r
	case *types.Collection:
		s.collections[r.ID] = r
	case *types.LinkType:
		s.linkTypes[r.ID] = r
	case *types.View:
		s.views[r.ID] = r
	default:
		return fmt.Errorf("%w: %T", types.ErrUnknownResourceKind, resource)
	}
	return nil
}

func (s *Store) drop(kind types.ResourceKind, id string) error {
	switch kind {
	case types.KindOrganization:
		delete(s.organizations, id)
	case types.KindProject:
		delete(s.projects, id)
	case types.KindCollection:
		delete(s.collections, id)
	case types.KindLinkType:
		delete(s.linkTypes, id)
	case types.KindView:
		delete(s.views, id)
	default:
		return fmt.Errorf("%w: %s", types.ErrUnknownResourceKind, kind)
	}
	return nil
}

// ApplyMembership applies one membership change event
func (s *Store) ApplyMembership(change types.MembershipChange) error {
	s.log.V(4).Info("apply membership change",
		"user", change.UserID, "organization", change.OrganizationID, "method", change.Method)

	s.mu.Lock()
	defer s.mu.Unlock()

	// user snapshots are replaced, never mutated: resolvers may still
	// hold the previous value outside the lock
	switch change.Method {
	case types.PersistInsert, types.PersistUpdate:
		user := copyUser(change.UserID, s.users[change.UserID])
		user.Teams[change.OrganizationID] = append([]string(nil), change.Teams...)
		s.users[change.UserID] = user

	case types.PersistDelete:
		if prev := s.users[change.UserID]; prev != nil {
			user := copyUser(change.UserID, prev)
			delete(user.Teams, change.OrganizationID)
			if len(user.Teams) == 0 {
				delete(s.users, change.UserID)
			} else {
				s.users[change.UserID] = user
			}
		}

	default:
		return fmt.Errorf("%w: membership change method %s", types.ErrUnsupportedChange, change.Method)
	}

	s.generation.Add(1)
	return nil
}

func copyUser(id string, prev *types.User) *types.User {
	user := &types.User{ID: id, Teams: make(map[string][]string)}
	if prev != nil {
		user.Email = prev.Email
		for org, teams := range prev.Teams {
			user.Teams[org] = teams
		}
	}
	return user
}

// Organization returns the organization snapshot, or nil
func (s *Store) Organization(id string) *types.Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.organizations[id]
}

// Project returns the project snapshot, or nil
func (s *Store) Project(id string) *types.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects[id]
}

// Collection returns the collection snapshot, or nil
func (s *Store) Collection(id string) *types.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collections[id]
}

// Collections returns the named collection snapshots, keyed by id;
// missing ids are simply absent
func (s *Store) Collections(ids ...string) map[string]*types.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*types.Collection, len(ids))
	for _, id := range ids {
		if c := s.collections[id]; c != nil {
			out[id] = c
		}
	}
	return out
}

// LinkType returns the link type snapshot, or nil
func (s *Store) LinkType(id string) *types.LinkType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.linkTypes[id]
}

// LinkTypes returns the named link type snapshots, skipping missing ids
func (s *Store) LinkTypes(ids ...string) []*types.LinkType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.LinkType, 0, len(ids))
	for _, id := range ids {
		if l := s.linkTypes[id]; l != nil {
			out = append(out, l)
		}
	}
	return out
}

// View returns the view snapshot, or nil
func (s *Store) View(id string) *types.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views[id]
}

// User returns the user snapshot, or nil
func (s *Store) User(id string) *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[id]
}
