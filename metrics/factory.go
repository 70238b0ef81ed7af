package metrics

// definitionConfig carries the optional parts of a definition.
type definitionConfig struct {
	description string
	labels      []LabelInstance
	enabled     bool
	instanceID  string
	hasInstance bool
	typeName    string
}

// Option mutates the optional parts of a definition under construction.
type Option func(*definitionConfig)

// WithDescription sets the human description.
func WithDescription(desc string) Option {
	return func(c *definitionConfig) { c.description = desc }
}

// WithLabels attaches label instances to the definition.
func WithLabels(labels ...LabelInstance) Option {
	return func(c *definitionConfig) { c.labels = append(c.labels, labels...) }
}

// WithEnabled sets the enabled flag. Definitions are enabled by default.
func WithEnabled(enabled bool) Option {
	return func(c *definitionConfig) { c.enabled = enabled }
}

// Disabled registers the metric but excludes it from collection.
func Disabled() Option {
	return func(c *definitionConfig) { c.enabled = false }
}

// WithInstanceID overrides the instance id instead of taking it from
// the factory's shard.
func WithInstanceID(id string) Option {
	return func(c *definitionConfig) {
		c.instanceID = id
		c.hasInstance = true
	}
}

// WithTypeName overrides the flavor string. The base factories default
// it to the kind's canonical name; the convenience factories fix it
// and ignore this option.
func WithTypeName(name string) Option {
	return func(c *definitionConfig) { c.typeName = name }
}

// Factory builds metric definitions whose default instance id is the
// bound shard. One factory per execution context keeps the ambient
// "current shard" lookup out of the picture.
type Factory struct {
	shard Shard
}

// NewFactory creates a factory bound to the given execution context.
func NewFactory(shard Shard) Factory {
	return Factory{shard: shard}
}

func (f Factory) build(name string, kind Kind, src Source, opts []Option) (Definition, error) {
	cfg := definitionConfig{enabled: true}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	instance := f.shard.ID()
	if cfg.hasInstance {
		instance = cfg.instanceID
	}
	return newDefinition(name, instance, kind, cfg.typeName, src, cfg.description, cfg.enabled, cfg.labels)
}

// Gauge builds a general purpose floating point metric that can
// increase or decrease.
func (f Factory) Gauge(name string, src Source, opts ...Option) (Definition, error) {
	return f.build(name, KindGauge, src, opts)
}

// Counter builds an unsigned metric that is monotonic by convention;
// a decrease in a series counts as a wrap-around.
func (f Factory) Counter(name string, src Source, opts ...Option) (Definition, error) {
	return f.build(name, KindCounter, src, opts)
}

// Derive builds a signed metric used when the rate is more interesting
// than the value. Prefer it over Counter when no wrap-around is
// expected.
func (f Factory) Derive(name string, src Source, opts ...Option) (Definition, error) {
	return f.build(name, KindDerive, src, opts)
}

// Absolute builds an unsigned metric that resets on every read. It
// exists for compatibility and should generally be avoided.
func (f Factory) Absolute(name string, src Source, opts ...Option) (Definition, error) {
	return f.build(name, KindAbsolute, src, opts)
}

// QueueLength builds a gauge with the fixed "queue_length" flavor.
// The base type cannot be overridden through this name.
func (f Factory) QueueLength(name string, src Source, opts ...Option) (Definition, error) {
	return f.Gauge(name, src, append(opts, WithTypeName("queue_length"))...)
}

// TotalBytes builds a derive with the fixed "total_bytes" flavor, for
// ever growing byte counters like total bytes passed on a network.
func (f Factory) TotalBytes(name string, src Source, opts ...Option) (Definition, error) {
	return f.Derive(name, src, append(opts, WithTypeName("total_bytes"))...)
}

// CurrentBytes builds a derive with the fixed "bytes" flavor, for
// current status in bytes such as free memory.
func (f Factory) CurrentBytes(name string, src Source, opts ...Option) (Definition, error) {
	return f.Derive(name, src, append(opts, WithTypeName("bytes"))...)
}

// TotalOperations builds a derive with the fixed "total_operations"
// flavor, for ever growing operation counters.
func (f Factory) TotalOperations(name string, src Source, opts ...Option) (Definition, error) {
	return f.Derive(name, src, append(opts, WithTypeName("total_operations"))...)
}
