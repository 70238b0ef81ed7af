// Package registry provides the concrete metric group store behind the
// metrics.Grouper contract: named ordered groups, duplicate identity
// detection and discovery for collection consumers.
package registry

import (
	"fmt"

	"github.com/perfline/shardmetrics/metrics"
)

// Registry stores metric definitions in named, ordered groups. One
// registry belongs to one shard; it is not synchronized and must only
// be used from the execution context that owns it.
type Registry struct {
	order  []string
	groups map[string][]metrics.Definition
	seen   map[string]map[string]struct{}
	err    error
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		groups: make(map[string][]metrics.Definition),
		seen:   make(map[string]map[string]struct{}),
	}
}

// AddMetric appends one definition to the named group, creating the
// group if absent. A duplicate identity within the group is recorded
// as the registry's sticky error; see Err.
func (r *Registry) AddMetric(group string, def metrics.Definition) metrics.Grouper {
	if err := r.TryAddMetric(group, def); err != nil && r.err == nil {
		r.err = err
	}
	return r
}

// AddGroup appends a batch of definitions to the named group.
func (r *Registry) AddGroup(group string, defs []metrics.Definition) metrics.Grouper {
	for _, def := range defs {
		r.AddMetric(group, def)
	}
	return r
}

// TryAddMetric is the explicit-error form of AddMetric.
func (r *Registry) TryAddMetric(group string, def metrics.Definition) error {
	ids, ok := r.seen[group]
	if !ok {
		ids = make(map[string]struct{})
		r.seen[group] = ids
		r.order = append(r.order, group)
	}
	id := def.Identity()
	if _, dup := ids[id]; dup {
		return fmt.Errorf("%w: %q (instance %q) already registered in group %q",
			metrics.ErrDuplicateMetric, def.Name(), def.InstanceID(), group)
	}
	ids[id] = struct{}{}
	r.groups[group] = append(r.groups[group], def)
	return nil
}

// TryAddGroup is the explicit-error form of AddGroup. It stops at the
// first duplicate; definitions before it stay registered.
func (r *Registry) TryAddGroup(group string, defs []metrics.Definition) error {
	for _, def := range defs {
		if err := r.TryAddMetric(group, def); err != nil {
			return err
		}
	}
	return nil
}

// Err returns the first error recorded by the chained AddMetric and
// AddGroup calls, or nil.
func (r *Registry) Err() error { return r.err }

// Groups returns the group names in registration order.
func (r *Registry) Groups() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Group returns the definitions of a group in registration order.
func (r *Registry) Group(name string) []metrics.Definition {
	defs := r.groups[name]
	out := make([]metrics.Definition, len(defs))
	copy(out, defs)
	return out
}

// RemoveMetric unregisters the definition with the given identity from
// a group and reports whether it was present. Producers call this at
// teardown, before the accessor's backing value goes away.
func (r *Registry) RemoveMetric(group string, def metrics.Definition) bool {
	ids, ok := r.seen[group]
	if !ok {
		return false
	}
	id := def.Identity()
	if _, present := ids[id]; !present {
		return false
	}
	delete(ids, id)
	defs := r.groups[group]
	for i := range defs {
		if defs[i].Identity() == id {
			r.groups[group] = append(defs[:i], defs[i+1:]...)
			break
		}
	}
	return true
}

// RemoveGroup unregisters an entire group.
func (r *Registry) RemoveGroup(group string) {
	if _, ok := r.seen[group]; !ok {
		return
	}
	delete(r.seen, group)
	delete(r.groups, group)
	for i, name := range r.order {
		if name == group {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

var _ metrics.Grouper = (*Registry)(nil)
