package metrics

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.\-]*$`)

// Definition is the immutable record describing one metric: its
// identity (name, instance id, label set), its type descriptor (kind
// plus flavor), the accessor producing snapshots, a human description
// and an enabled flag.
//
// The accessor may read mutable external state, but the definition's
// identity and metadata never change after construction.
type Definition struct {
	name        string
	instanceID  string
	kind        Kind
	typeName    string
	accessor    Accessor
	description string
	enabled     bool
	labels      []LabelInstance
}

// newDefinition validates and assembles a definition. Labels are
// sorted lexicographically; duplicate label keys are rejected because
// identity would become ambiguous.
func newDefinition(name, instanceID string, kind Kind, typeName string, src Source, description string, enabled bool, labels []LabelInstance) (Definition, error) {
	if name == "" {
		return Definition{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidDefinition)
	}
	if !nameRegex.MatchString(name) {
		return Definition{}, fmt.Errorf("%w: malformed name %q", ErrInvalidDefinition, name)
	}
	if typeName == "" {
		typeName = kind.String()
	}

	sorted := make([]LabelInstance, len(labels))
	copy(sorted, labels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Compare(sorted[j]) < 0 })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Key() == sorted[i-1].Key() {
			return Definition{}, fmt.Errorf("%w: duplicate label key %q", ErrInvalidDefinition, sorted[i].Key())
		}
	}

	return Definition{
		name:        name,
		instanceID:  instanceID,
		kind:        kind,
		typeName:    typeName,
		accessor:    src.accessor(kind),
		description: description,
		enabled:     enabled,
		labels:      sorted,
	}, nil
}

// Name returns the metric name.
func (d Definition) Name() string { return d.name }

// InstanceID returns the producer slice this metric belongs to,
// typically the owning shard.
func (d Definition) InstanceID() string { return d.instanceID }

// Kind returns the base semantic type.
func (d Definition) Kind() Kind { return d.kind }

// TypeName returns the flavor string, an exporter hint that never
// changes the base type's arithmetic semantics.
func (d Definition) TypeName() string { return d.typeName }

// Description returns the human description.
func (d Definition) Description() string { return d.description }

// Enabled reports whether collectors should poll this metric.
// Disabled definitions remain registered but are excluded from
// collection.
func (d Definition) Enabled() bool { return d.enabled }

// Labels returns the label set, sorted lexicographically.
func (d Definition) Labels() []LabelInstance {
	out := make([]LabelInstance, len(d.labels))
	copy(out, d.labels)
	return out
}

// Snapshot invokes the accessor and returns a fresh tagged value.
func (d Definition) Snapshot() Value {
	return d.accessor()
}

// Identity returns the key on which duplicate detection is defined:
// the (name, instance id, label set) tuple.
func (d Definition) Identity() string {
	var b strings.Builder
	b.WriteString(d.name)
	b.WriteByte(0)
	b.WriteString(d.instanceID)
	for _, li := range d.labels {
		b.WriteByte(0)
		b.WriteString(li.Key())
		b.WriteByte('=')
		b.WriteString(li.Value())
	}
	return b.String()
}
