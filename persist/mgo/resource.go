package mgo

import (
	"context"
	"errors"
	"time"

	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"

	"github.com/collabdata/roles/types"
)

// ResourcePersister is a ResourcePersister backed by mongodb
type ResourcePersister struct {
	*collection
}

// NewResource uses the given mongodb collection as backend to persist
// resource snapshots
func NewResource(coll *mgo.Collection, opts ...collectionOption) (*ResourcePersister, error) {
	c := &ResourcePersister{&collection{Collection: coll, retryTimeout: defaultRetryTimeout}}
	for _, opt := range opts {
		opt(c.collection)
	}

	ss := c.copySession()
	defer ss.closeSession()

	if e := ss.EnsureIndex(mgo.Index{Key: []string{"kind", "resourceId"}, Unique: true}); e != nil {
		return nil, e
	}

	return c, nil
}

// Upsert inserts or replaces a resource snapshot
func (p *ResourcePersister) Upsert(resource types.ResourceSnapshot) error {
	ss := p.copySession()
	defer ss.closeSession()

	do, e := newResourceDO(resource)
	if e != nil {
		return e
	}
	p.log.V(4).Info("upsert resource", "kind", do.Kind, "id", do.ResourceID)

	_, e = ss.UpsertId(do.ID, do)
	return parseMgoError(e)
}

// Remove deletes a resource snapshot
func (p *ResourcePersister) Remove(kind types.ResourceKind, id string) error {
	ss := p.copySession()
	defer ss.closeSession()

	p.log.V(4).Info("remove resource", "kind", kind, "id", id)

	return parseMgoError(ss.RemoveId(resourceDocID(kind, id)))
}

// List all resource snapshots from the persister
func (p *ResourcePersister) List() ([]types.ResourceSnapshot, error) {
	ss := p.copySession()
	defer ss.closeSession()

	iter := ss.Find(nil).Iter()
	defer iter.Close()

	resources := make([]types.ResourceSnapshot, 0)

	var do resourceDO
	for iter.Next(&do) {
		resource, e := do.asResource()
		if e != nil {
			p.log.Error(e, "decode resource snapshot", "id", do.ID)
			do = resourceDO{}
			continue
		}
		resources = append(resources, resource)
		do = resourceDO{}
	}
	if e := iter.Err(); e != nil {
		return nil, e
	}

	p.log.V(4).Info("list resource snapshots", "count", len(resources))

	return resources, nil
}

type resourceChangeEvent struct {
	OperationType changeStreamOperationType `bson:"operationType,omitempty"`
	FullDocument  resourceDO                `bson:"fullDocument,omitempty"`
	DocumentKey   struct {
		ID string `bson:"_id,omitempty"`
	} `bson:"documentKey,omitempty"`
}

// Watch any changes occurred about the snapshots in the persister
func (p *ResourcePersister) Watch(ctx context.Context) (<-chan types.ResourceChange, error) {
	// test connection
	cs, closer, e := p.connectToWatch(nil)
	if e != nil {
		return nil, e
	}
	firstConnection := true

	changes := make(chan types.ResourceChange)

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

func (p *ResourcePersister) watch(ctx context.Context, cs *mgo.ChangeStream, changes chan<- types.ResourceChange) error {
	for {
		var event resourceChangeEvent
		if cs.Next(&event) {
			var change types.ResourceChange
			p.log.V(6).Info("change event", "id", event.DocumentKey.ID, "operation", event.OperationType)

			kind, id, e := parseResourceDocID(event.DocumentKey.ID)
			if e != nil {
				p.log.Error(e, "parse resource id in change event")
				continue
			}
			change.Kind = kind
			change.ID = id

			switch event.OperationType {
			case insert:
				change.Method = types.PersistInsert

			case update, replace:
				change.Method = types.PersistUpdate

			case delete:
				change.Method = types.PersistDelete

			default:
				p.log.Info("unknown event", "operation type", event.OperationType)
				continue
			}

			if change.Method != types.PersistDelete {
				resource, e := event.FullDocument.asResource()
				if e != nil {
					p.log.Error(e, "decode resource in change event", "id", event.DocumentKey.ID)
					continue
				}
				change.Resource = resource
			}

			p.log.V(4).Info("got resource change event", "method", change.Method, "kind", change.Kind, "id", change.ID)

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
