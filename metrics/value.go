package metrics

import "fmt"

// Kind defines the base semantic type of a metric value.
type Kind uint8

const (
	// KindCounter is an unsigned, monotonic-by-convention count.
	KindCounter Kind = iota
	// KindGauge is a floating point value that can move in any direction.
	KindGauge
	// KindDerive is a signed value whose rate of change is the interesting part.
	KindDerive
	// KindAbsolute is an unsigned value that resets on every read.
	KindAbsolute
)

// String returns the canonical type name, which also serves as the
// default flavor for definitions of this kind.
func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	case KindDerive:
		return "derive"
	case KindAbsolute:
		return "absolute"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a tagged metric snapshot. Exactly one payload field is
// meaningful, selected by the kind: float64 for gauges, uint64 for
// counters and absolutes, int64 for derives. Payloads of different
// kinds are never implicitly convertible.
type Value struct {
	kind Kind
	f    float64
	u    uint64
	i    int64
}

// GaugeValue wraps a float64 as a gauge snapshot.
func GaugeValue(v float64) Value { return Value{kind: KindGauge, f: v} }

// CounterValue wraps a uint64 as a counter snapshot.
func CounterValue(v uint64) Value { return Value{kind: KindCounter, u: v} }

// DeriveValue wraps an int64 as a derive snapshot.
func DeriveValue(v int64) Value { return Value{kind: KindDerive, i: v} }

// AbsoluteValue wraps a uint64 as an absolute snapshot.
func AbsoluteValue(v uint64) Value { return Value{kind: KindAbsolute, u: v} }

// Kind returns the value's base semantic type.
func (v Value) Kind() Kind { return v.kind }

// Float64 returns the gauge payload.
func (v Value) Float64() (float64, error) {
	if v.kind != KindGauge {
		return 0, fmt.Errorf("%w: reading %s value as gauge", ErrTypeMismatch, v.kind)
	}
	return v.f, nil
}

// Uint64 returns the counter or absolute payload.
func (v Value) Uint64() (uint64, error) {
	if v.kind != KindCounter && v.kind != KindAbsolute {
		return 0, fmt.Errorf("%w: reading %s value as unsigned", ErrTypeMismatch, v.kind)
	}
	return v.u, nil
}

// Int64 returns the derive payload.
func (v Value) Int64() (int64, error) {
	if v.kind != KindDerive {
		return 0, fmt.Errorf("%w: reading %s value as signed", ErrTypeMismatch, v.kind)
	}
	return v.i, nil
}

// AsFloat64 converts any payload to float64 for exporters that only
// speak floating point, such as Prometheus.
func (v Value) AsFloat64() float64 {
	switch v.kind {
	case KindGauge:
		return v.f
	case KindDerive:
		return float64(v.i)
	default:
		return float64(v.u)
	}
}

// Combine sums two snapshots of the same kind. It is used by
// aggregators merging identical metrics collected from multiple
// shards. Combining values of different kinds is an error.
func Combine(a, b Value) (Value, error) {
	if a.kind != b.kind {
		return Value{}, fmt.Errorf("%w: cannot combine %s with %s", ErrTypeMismatch, a.kind, b.kind)
	}
	switch a.kind {
	case KindGauge:
		return GaugeValue(a.f + b.f), nil
	case KindDerive:
		return DeriveValue(a.i + b.i), nil
	case KindAbsolute:
		return AbsoluteValue(a.u + b.u), nil
	default:
		return CounterValue(a.u + b.u), nil
	}
}
