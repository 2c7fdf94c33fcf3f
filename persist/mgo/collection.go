// Package mgo persists workspace resources and team memberships to
// mongodb, and follows remote changes through change streams. It needs
// a replica set: standalone servers do not serve change streams.
package mgo

import (
	"errors"
	"time"

	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	"github.com/go-logr/logr"

	"github.com/collabdata/roles/types"
)

const defaultRetryTimeout = 5 * time.Second

type collection struct {
	*mgo.Collection
	log          logr.Logger
	retryTimeout time.Duration
}

func (c *collection) copySession() *collection {
	db := c.Database
	return &collection{
		Collection:   db.Session.Copy().DB(db.Name).C(c.Name),
		log:          c.log,
		retryTimeout: c.retryTimeout,
	}
}

func (c *collection) closeSession() {
	c.Database.Session.Close()
}

// connectToWatch opens a change stream on a fresh session, resuming
// after the given token if any. The returned closer releases both the
// stream and the session.
func (c *collection) connectToWatch(token *bson.Raw) (*mgo.ChangeStream, func(), error) {
	ss := c.copySession()
	cs, e := ss.Watch(nil, mgo.ChangeStreamOptions{
		FullDocument: mgo.UpdateLookup,
		ResumeAfter:  token,
	})
	if e != nil {
		ss.closeSession()
		return nil, nil, e
	}

	c.log.V(4).Info("watch mongo change stream", "collection", c.Name)

	return cs, func() {
		cs.Close()
		ss.closeSession()
	}, nil
}

type changeStreamOperationType string

const (
	insert  changeStreamOperationType = "insert"
	delete  changeStreamOperationType = "delete"
	update  changeStreamOperationType = "update"
	replace changeStreamOperationType = "replace"
)

type collectionOption func(*collection)

// WithLogger sets logger for the persister
func WithLogger(log logr.Logger) collectionOption {
	return func(c *collection) {
		c.log = log
	}
}

// SetRetryTimeout controls how long to wait before reconnecting a
// broken change stream
func SetRetryTimeout(d time.Duration) collectionOption {
	return func(c *collection) {
		c.retryTimeout = d
	}
}

func parseMgoError(e error) error {
	switch {
	case e == nil:
		return nil
	case errors.Is(e, mgo.ErrNotFound):
		return types.ErrNotFound
	case mgo.IsDup(e):
		return types.ErrAlreadyExists
	}
	return e
}
