// Package metrics is the declaration layer of a sharded,
// single-thread-per-core runtime: components register named
// measurements that external collectors later poll, without coupling
// producers to any wire protocol or export format.
//
// A metric is declared once, at producer setup time, through a Factory
// bound to the owning shard:
//
//	f := metrics.NewFactory(metrics.ShardID(0))
//	def, err := f.Gauge("bytes.used", metrics.Ref(&used),
//		metrics.WithDescription("bytes currently in use"))
//	reg.AddGroup("cache", []metrics.Definition{def})
//
// The backing value is supplied either by reference (metrics.Ref) or
// as a zero-argument function (metrics.Func); both present the same
// accessor contract, a zero-argument operation returning a fresh
// tagged Value snapshot on every call.
//
// Every operation here is synchronous and unsynchronized. Each shard
// owns its registry and producer state, and accessors must be invoked
// only from the execution context that owns the backing value. A
// definition built over a reference must be unregistered no later than
// the destruction of the referenced value; an accessor invoked after
// its backing value is gone is undefined behavior that only the owning
// component's lifecycle discipline can prevent.
package metrics
