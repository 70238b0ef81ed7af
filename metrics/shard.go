package metrics

import "strconv"

// Shard identifies one independently scheduled, single-threaded
// execution context, typically bound to one processor core. It is an
// explicit handle: pass it to NewFactory instead of relying on any
// ambient "current shard" lookup.
type Shard struct {
	id string
}

// ShardID creates a shard handle from a numeric core id.
func ShardID(id uint) Shard {
	return Shard{id: strconv.FormatUint(uint64(id), 10)}
}

// NamedShard creates a shard handle with an arbitrary identifier.
func NamedShard(id string) Shard {
	return Shard{id: id}
}

// ID returns the shard identifier used as the default instance id for
// definitions built through a factory bound to this shard.
func (s Shard) ID() string { return s.id }

// ShardLabel dimensions a metric by the shard that produced it.
var ShardLabel = NewLabel("shard")
