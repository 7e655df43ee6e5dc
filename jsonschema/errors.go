package jsonschema

import "fmt"

// InvalidSchemaError reports a malformed JSON Schema document: a missing
// type, a field of the wrong shape, or an unsupported combination of
// type:[...] entries.
type InvalidSchemaError struct {
	Message string
}

func (e *InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid JSON Schema: %s", e.Message)
}

// UnsupportedFeatureError reports an explicit refusal: a feature the parser
// recognizes but will not pretend to support, such as non-nullable anyOf.
type UnsupportedFeatureError struct {
	Message string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("unsupported JSON Schema feature: %s", e.Message)
}

// InvalidConstraintError reports a self-contradictory constraint: min > max
// on any range, an empty enum, or an empty type:[].
type InvalidConstraintError struct {
	Message string
}

func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("invalid constraint: %s", e.Message)
}
