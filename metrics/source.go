package metrics

// Accessor produces a fresh, tagged snapshot every time it is invoked.
// Two invocations may observe different values when the producer
// mutates the backing state in between; that is the point.
type Accessor func() Value

// Number constrains the value types a source can snapshot.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Source supplies the backing value of a metric. It has exactly two
// variants, chosen at definition-construction time: Ref captures a
// read-only view of a value the producer still owns, Func wraps a
// zero-argument computation. Both yield the same accessor contract.
type Source interface {
	accessor(k Kind) Accessor
}

// Ref builds a source that re-reads the pointed-to value on every
// accessor invocation.
//
// The caller guarantees the backing value outlives every future
// invocation of the accessor; the source provides no ownership or
// lifetime extension. Unregister the definition before the value goes
// away.
func Ref[T Number](v *T) Source {
	return refSource[T]{p: v}
}

// Func builds a source that calls fn on every accessor invocation.
func Func[T Number](fn func() T) Source {
	return funcSource[T]{fn: fn}
}

type refSource[T Number] struct {
	p *T
}

func (s refSource[T]) accessor(k Kind) Accessor {
	return func() Value {
		return valueFrom(*s.p, k)
	}
}

type funcSource[T Number] struct {
	fn func() T
}

func (s funcSource[T]) accessor(k Kind) Accessor {
	return func() Value {
		return valueFrom(s.fn(), k)
	}
}

// valueFrom converts a raw reading to the declared kind's payload and
// wraps it with the tag.
func valueFrom[T Number](v T, k Kind) Value {
	switch k {
	case KindGauge:
		return GaugeValue(float64(v))
	case KindDerive:
		return DeriveValue(int64(v))
	case KindAbsolute:
		return AbsoluteValue(uint64(v))
	default:
		return CounterValue(uint64(v))
	}
}
