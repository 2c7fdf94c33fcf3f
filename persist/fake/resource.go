// Package fake provides in-memory persisters: they keep snapshots in
// plain maps and emit every mutation on an unbuffered change channel.
// Meant for tests and for trying things out, not for production.
package fake

import (
	"context"

	"github.com/collabdata/roles/types"
)

type resourceKey struct {
	kind types.ResourceKind
	id   string
}

type ResourcePersister struct {
	resources map[resourceKey]types.ResourceSnapshot
	changes   chan types.ResourceChange
}

func NewResourcePersister(ctx context.Context, initResources ...types.ResourceSnapshot) *ResourcePersister {
	rp := &ResourcePersister{
		resources: make(map[resourceKey]types.ResourceSnapshot),
		changes:   make(chan types.ResourceChange),
	}

	for _, resource := range initResources {
		rp.resources[resourceKey{resource.ResourceKind(), resource.ResourceID()}] = resource
	}

	go func() {
		<-ctx.Done()
		close(rp.changes)
	}()

	return rp
}

func (p *ResourcePersister) Upsert(resource types.ResourceSnapshot) error {
	key := resourceKey{resource.ResourceKind(), resource.ResourceID()}

	method := types.PersistInsert
	if _, ok := p.resources[key]; ok {
		method = types.PersistUpdate
	}

	p.resources[key] = resource
	p.changes <- types.ResourceChange{
		Resource: resource,
		Kind:     key.kind,
		ID:       key.id,
		Method:   method,
	}

	return nil
}

func (p *ResourcePersister) Remove(kind types.ResourceKind, id string) error {
	key := resourceKey{kind, id}
	if _, ok := p.resources[key]; !ok {
		return nil
	}

	delete(p.resources, key)
	p.changes <- types.ResourceChange{
		Kind:   kind,
		ID:     id,
		Method: types.PersistDelete,
	}

	return nil
}

func (p *ResourcePersister) List() ([]types.ResourceSnapshot, error) {
	resources := make([]types.ResourceSnapshot, 0, len(p.resources))
	for _, resource := range p.resources {
		resources = append(resources, resource)
	}

	return resources, nil
}

func (p *ResourcePersister) Watch(ctx context.Context) (<-chan types.ResourceChange, error) {
	return p.changes, nil
}
