package mgo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"

	"github.com/collabdata/roles/types"
)

// MembershipPersister is a MembershipPersister backed by mongodb
type MembershipPersister struct {
	*collection
}

// NewMembership uses the given mongodb collection as backend to
// persist team memberships
func NewMembership(coll *mgo.Collection, opts ...collectionOption) (*MembershipPersister, error) {
	c := &MembershipPersister{&collection{Collection: coll, retryTimeout: defaultRetryTimeout}}
	for _, opt := range opts {
		opt(c.collection)
	}

	ss := c.copySession()
	defer ss.closeSession()

	if e := ss.EnsureIndex(mgo.Index{Key: []string{"userId", "organizationId"}, Unique: true}); e != nil {
		return nil, e
	}

	return c, nil
}

type membershipDO struct {
	ID             string   `bson:"_id"`
	UserID         string   `bson:"userId"`
	OrganizationID string   `bson:"organizationId"`
	Teams          []string `bson:"teams,omitempty"`
}

func newMembershipDO(m types.Membership) *membershipDO {
	return &membershipDO{
		ID:             membershipDocID(m.UserID, m.OrganizationID),
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Teams:          m.Teams,
	}
}

func (do *membershipDO) asMembership() types.Membership {
	return types.Membership{
		UserID:         do.UserID,
		OrganizationID: do.OrganizationID,
		Teams:          do.Teams,
	}
}

func membershipDocID(userID, organizationID string) string {
	return userID + "#" + organizationID
}

func parseMembershipDocID(docID string) (userID, organizationID string, err error) {
	parts := strings.SplitN(docID, "#", 2)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid membership document id: %s", docID)
	}
	return parts[0], parts[1], nil
}

// Set inserts or replaces the user's team assignment in the organization
func (p *MembershipPersister) Set(m types.Membership) error {
	ss := p.copySession()
	defer ss.closeSession()

	do := newMembershipDO(m)
	p.log.V(4).Info("set membership", "user", do.UserID, "organization", do.OrganizationID, "teams", do.Teams)

	_, e := ss.UpsertId(do.ID, do)
	return parseMgoError(e)
}

// Remove deletes the user's team assignment in the organization
func (p *MembershipPersister) Remove(userID, organizationID string) error {
	ss := p.copySession()
	defer ss.closeSession()

	p.log.V(4).Info("remove membership", "user", userID, "organization", organizationID)

	return parseMgoError(ss.RemoveId(membershipDocID(userID, organizationID)))
}

// List all membership rows from the persister
func (p *MembershipPersister) List() ([]types.Membership, error) {
	ss := p.copySession()
	defer ss.closeSession()

	iter := ss.Find(nil).Iter()
	defer iter.Close()

	memberships := make([]types.Membership, 0)

	var do membershipDO
	for iter.Next(&do) {
		memberships = append(memberships, do.asMembership())
		do = membershipDO{}
	}
	if e := iter.Err(); e != nil {
		return nil, e
	}

	p.log.V(4).Info("list memberships", "count", len(memberships))

	return memberships, nil
}

type membershipChangeEvent struct {
	OperationType changeStreamOperationType `bson:"operationType,omitempty"`
	FullDocument  membershipDO              `bson:"fullDocument,omitempty"`
	DocumentKey   struct {
		ID string `bson:"_id,omitempty"`
	} `bson:"documentKey,omitempty"`
}

// Watch any changes occurred about the memberships in the persister
func (p *MembershipPersister) Watch(ctx context.Context) (<-chan types.MembershipChange, error) {
	// test connection
	cs, closer, e := p.connectToWatch(nil)
	if e != nil {
		return nil, e
	}
	firstConnection := true

	changes := make(chan types.MembershipChange)

	go func() {
		defer close(changes)

		// the token survives reconnects so the resumed stream replays
		// events missed during the outage
		var token *bson.Raw
		for {
			select {
			case <-ctx.Done():
				return

			default:
				if !firstConnection {
					cs, closer, e = p.connectToWatch(token)
					if e != nil {
						p.log.Error(e, "failed to connect")
						time.Sleep(p.retryTimeout)
						continue
					}
				}
				firstConnection = false

				e := p.watch(ctx, cs, changes)
				if e != nil {
					p.log.Error(e, "fetch change event failed, reconnect later")
				}
				token = cs.ResumeToken()
				closer()
				p.log.V(4).Info("change stream closed", "token", token)
				time.Sleep(p.retryTimeout)
			}
		}
	}()

	return changes, nil
}

func (p *MembershipPersister) watch(ctx context.Context, cs *mgo.ChangeStream, changes chan<- types.MembershipChange) error {
	for {
		var event membershipChangeEvent
		if cs.Next(&event) {
			var change types.MembershipChange
			p.log.V(6).Info("change event", "id", event.DocumentKey.ID, "operation", event.OperationType)

			userID, organizationID, e := parseMembershipDocID(event.DocumentKey.ID)
			if e != nil {
				p.log.Error(e, "parse membership id in change event")
				continue
			}
			change.UserID = userID
			change.OrganizationID = organizationID

			switch event.OperationType {
			case insert:
				change.Method = types.PersistInsert
				change.Teams = event.FullDocument.Teams

			case update, replace:
				change.Method = types.PersistUpdate
				change.Teams = event.FullDocument.Teams

			case delete:
				change.Method = types.PersistDelete

			default:
				p.log.Info("unknown event", "operation type", event.OperationType)
				continue
			}

			p.log.V(4).Info("got membership change event", "method", change.Method, "user", change.UserID, "organization", change.OrganizationID)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case changes <- change:
			}
		}

		if e := cs.Err(); e != nil {
			if errors.Is(e, mgo.ErrNotFound) {
				p.log.V(2).Info("watch found nothing, retry later")
				time.Sleep(p.retryTimeout)
				continue
			}

			return e
		}
	}
}
