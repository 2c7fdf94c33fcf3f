package store

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/collabdata/roles/types"
)

// NewPersisted creates a store primed from the persisters and kept
// current through their change channels until the context is done.
// The membership persister may be nil: the store then knows no team
// memberships, and only direct user grants resolve.
func NewPersisted(
	ctx context.Context,
	resources types.ResourcePersister,
	memberships types.MembershipPersister,
	log logr.Logger,
) (*Store, error) {
	s := New(log)

	if e := s.loadPersisted(resources, memberships); e != nil {
		return nil, e
	}
	if e := s.startWatching(ctx, resources, memberships); e != nil {
		return nil, e
	}

	return s, nil
}

func (s *Store) loadPersisted(resources types.ResourcePersister, memberships types.MembershipPersister) error {
	s.log.V(4).Info("load persisted snapshots")

	snapshots, e := resources.List()
	if e != nil {
		return fmt.Errorf("list resources: %w", e)
	}
	for _, snapshot := range snapshots {
		change := types.ResourceChange{
			Resource: snapshot,
			Kind:     snapshot.ResourceKind(),
			ID:       snapshot.ResourceID(),
			Method:   types.PersistInsert,
		}
		if e := s.ApplyResource(change); e != nil {
			return e
		}
	}

	if memberships == nil {
		return nil
	}

	rows, e := memberships.List()
	if e != nil {
		return fmt.Errorf("list memberships: %w", e)
	}
	for _, row := range rows {
		change := types.MembershipChange{Membership: row, Method: types.PersistInsert}
		if e := s.ApplyMembership(change); e != nil {
			return e
		}
	}

	return nil
}

func (s *Store) startWatching(
	ctx context.Context,
	resources types.ResourcePersister,
	memberships types.MembershipPersister,
) error {
	resourceChanges, e := resources.Watch(ctx)
	if e != nil {
		return fmt.Errorf("watch resources: %w", e)
	}

	var membershipChanges <-chan types.MembershipChange
	if memberships != nil {
		membershipChanges, e = memberships.Watch(ctx)
		if e != nil {
			return fmt.Errorf("watch memberships: %w", e)
		}
	}

	go func() {
		for {
			select {
			case change, ok := <-resourceChanges:
				if !ok {
					// keep draining the other stream; a nil channel
					// blocks forever
					resourceChanges = nil
					if membershipChanges == nil {
						return
					}
					continue
				}
				if e := s.ApplyResource(change); e != nil {
					s.log.Error(e, "coordinate resource changes")
				}
			case change, ok := <-membershipChanges:
				if !ok {
					membershipChanges = nil
					if resourceChanges == nil {
						return
					}
					continue
				}
				if e := s.ApplyMembership(change); e != nil {
					s.log.Error(e, "coordinate membership changes")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}
