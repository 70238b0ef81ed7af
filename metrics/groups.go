package metrics

// Grouper accumulates metric definitions into named groups. Producers
// publish through it; a concrete registry owns storage, duplicate
// detection and discovery. Both methods return the receiver so
// registrations chain:
//
//	reg.AddGroup("cache", defs).AddMetric("cache", extra)
//
// The contract itself performs no validation.
type Grouper interface {
	AddMetric(group string, def Definition) Grouper
	AddGroup(group string, defs []Definition) Grouper
}
