package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefSource(t *testing.T) {
	backing := uint64(10)
	acc := Ref(&backing).accessor(KindCounter)

	first := acc()
	assert.Equal(t, CounterValue(10), first)

	backing = 42
	assert.Equal(t, CounterValue(42), acc())

	// The already-returned snapshot does not change.
	assert.Equal(t, CounterValue(10), first)
}

func TestFuncSource(t *testing.T) {
	backing := 10
	acc := Func(func() int { return backing }).accessor(KindDerive)

	assert.Equal(t, DeriveValue(10), acc())

	backing = 42
	assert.Equal(t, DeriveValue(42), acc())
}

func TestRefAndFuncAgree(t *testing.T) {
	backing := 17.5

	byRef := Ref(&backing).accessor(KindGauge)
	byFunc := Func(func() float64 { return backing }).accessor(KindGauge)

	assert.Equal(t, byRef(), byFunc())

	backing = -2.25
	assert.Equal(t, byRef(), byFunc())

	f, err := byRef().Float64()
	require.NoError(t, err)
	assert.Equal(t, -2.25, f)
}

func TestSourceKindConversion(t *testing.T) {
	backing := 5

	tests := []struct {
		name string
		kind Kind
		want Value
	}{
		{"gauge gets double", KindGauge, GaugeValue(5)},
		{"counter gets unsigned", KindCounter, CounterValue(5)},
		{"derive gets signed", KindDerive, DeriveValue(5)},
		{"absolute gets unsigned", KindAbsolute, AbsoluteValue(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ref(&backing).accessor(tt.kind)())
		})
	}
}
