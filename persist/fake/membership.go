package fake

import (
	"context"

	"github.com/collabdata/roles/types"
)

type membershipKey struct {
	userID         string
	organizationID string
}

type MembershipPersister struct {
	memberships map[membershipKey][]string
	changes     chan types.MembershipChange
}

func NewMembershipPersister(ctx context.Context, initMemberships ...types.Membership) *MembershipPersister {
	mp := &MembershipPersister{
		memberships: make(map[membershipKey][]string),
		changes:     make(chan types.MembershipChange),
	}

	for _, m := range initMemberships {
		mp.memberships[membershipKey{m.UserID, m.OrganizationID}] = m.Teams
	}

	go func() {
		<-ctx.Done()
		close(mp.changes)
	}()

	return mp
}

func (p *MembershipPersister) Set(m types.Membership) error {
	key := membershipKey{m.UserID, m.OrganizationID}

	method := types.PersistInsert
	if _, ok := p.memberships[key]; ok {
		method = types.PersistUpdate
	}

	p.memberships[key] = m.Teams
	p.changes <- types.MembershipChange{
		Membership: m,
		Method:     method,
	}

	return nil
}

func (p *MembershipPersister) Remove(userID, organizationID string) error {
	key := membershipKey{userID, organizationID}
	if _, ok := p.memberships[key]; !ok {
		return nil
	}

	delete(p.memberships, key)
	p.changes <- types.MembershipChange{
		Membership: types.Membership{UserID: userID, OrganizationID: organizationID},
		Method:     types.PersistDelete,
	}

	return nil
}

func (p *MembershipPersister) List() ([]types.Membership, error) {
	memberships := make([]types.Membership, 0, len(p.memberships))
	for key, teams := range p.memberships {
		memberships = append(memberships, types.Membership{
			UserID:         key.userID,
			OrganizationID: key.organizationID,
			Teams:          teams,
		})
	}

	return memberships, nil
}

func (p *MembershipPersister) Watch(ctx context.Context) (<-chan types.MembershipChange, error) {
	return p.changes, nil
}
