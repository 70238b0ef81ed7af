package metrics

import (
	"fmt"
	"strconv"
	"strings"
)

// LabelInstance is an immutable (key, value) pair used to dimension a
// metric, for example the queue id when one shard owns several queues.
type LabelInstance struct {
	key   string
	value string
}

// Key returns the label key.
func (li LabelInstance) Key() string { return li.key }

// Value returns the label value.
func (li LabelInstance) Value() string { return li.value }

// Compare orders instances lexicographically on (key, value).
func (li LabelInstance) Compare(other LabelInstance) int {
	if c := strings.Compare(li.key, other.key); c != 0 {
		return c
	}
	return strings.Compare(li.value, other.value)
}

// Label is a factory bound to one fixed key. Create it once and reuse
// it wherever the same dimension applies; each call to Value yields an
// instance sharing that key.
type Label struct {
	key string
}

// NewLabel creates a label factory for the given key.
func NewLabel(key string) Label {
	return Label{key: key}
}

// Name returns the label key.
func (l Label) Name() string { return l.key }

// Value creates a label instance from any value-representable input.
// The string conversion is deterministic and locale-independent, and
// never fails for numeric types, booleans and text.
func (l Label) Value(v any) LabelInstance {
	return LabelInstance{key: l.key, value: formatLabelValue(v)}
}

func formatLabelValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
