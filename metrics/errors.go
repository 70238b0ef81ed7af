package metrics

import "errors"

var (
	// ErrInvalidDefinition reports a definition that cannot be built,
	// typically because its name is empty or malformed.
	ErrInvalidDefinition = errors.New("invalid metric definition")

	// ErrTypeMismatch reports an attempt to read or combine a Value
	// through the wrong kind.
	ErrTypeMismatch = errors.New("metric value type mismatch")

	// ErrDuplicateMetric reports two definitions with the same
	// (name, instance id, label set) identity within one group.
	ErrDuplicateMetric = errors.New("duplicate metric")
)
