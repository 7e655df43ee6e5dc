package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/outpostlabs/shapecast/diag"
	"github.com/outpostlabs/shapecast/schema"
)

func TestParseBoolean(t *testing.T) {
	s, err := Parse([]byte(`{"type":"boolean"}`), nil)
	assert.NoError(t, err)
	assert.Equal(t, schema.KindBoolean, s.Kind)
}

func TestParseNull(t *testing.T) {
	s, err := Parse([]byte(`{"type":"null"}`), nil)
	assert.NoError(t, err)
	assert.Equal(t, schema.KindNull, s.Kind)
}

func TestParseStringWithFormat(t *testing.T) {
	s, err := Parse([]byte(`{"type":"string","format":"uuid"}`), nil)
	assert.NoError(t, err)
	assert.Equal(t, schema.StringUUID, s.String.Kind)
}

func TestParseStringUnknownFormatWarns(t *testing.T) {
	log := &diag.Log{}
	s, err := Parse([]byte(`{"type":"string","format":"bogus"}`), log)
	assert.NoError(t, err)
	assert.Equal(t, schema.StringUnknown, s.String.Kind)
	assert.NotEmpty(t, log.Warnings)
}

func TestParseStringLength(t *testing.T) {
	s, err := Parse([]byte(`{"type":"string","minLength":2,"maxLength":5}`), nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, s.String.MinLen)
	assert.Equal(t, 5, s.String.MaxLen)
}

func TestParseStringMinExceedsMax(t *testing.T) {
	// §8 scenario 5.
	_, err := Parse([]byte(`{"type":"string","minLength":10,"maxLength":2}`), nil)
	assert.Error(t, err)
	assert.IsType(t, &InvalidConstraintError{}, err)
}

func TestParseEnum(t *testing.T) {
	s, err := Parse([]byte(`{"type":"string","enum":["a","b","c"]}`), nil)
	assert.NoError(t, err)
	assert.Equal(t, schema.StringEnum, s.String.Kind)
	assert.Equal(t, []string{"a", "b", "c"}, s.String.Enum)
}

func TestParseEmptyEnum(t *testing.T) {
	// §8 scenario 6.
	_, err := Parse([]byte(`{"type":"string","enum":[]}`), nil)
	assert.Error(t, err)
	assert.IsType(t, &InvalidConstraintError{}, err)
}

func TestParseIntegerRange(t *testing.T) {
	s, err := Parse([]byte(`{"type":"integer","minimum":1,"maximum":10}`), nil)
	assert.NoError(t, err)
	assert.Equal(t, schema.NumberInteger, s.Number.Kind)
	assert.Equal(t, int64(1), s.Number.IntMin)
	assert.Equal(t, int64(10), s.Number.IntMax)
}

func TestParseIntegerDefaults(t *testing.T) {
	s, err := Parse([]byte(`{"type":"integer"}`), nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(-1000), s.Number.IntMin)
	assert.Equal(t, int64(1000), s.Number.IntMax)
}

func TestParseNumberMinExceedsMax(t *testing.T) {
	_, err := Parse([]byte(`{"type":"number","minimum":5,"maximum":1}`), nil)
	assert.Error(t, err)
	assert.IsType(t, &InvalidConstraintError{}, err)
}

func TestParseExclusiveBoundsWarn(t *testing.T) {
	log := &diag.Log{}
	s, err := Parse([]byte(`{"type":"integer","exclusiveMinimum":0,"exclusiveMaximum":10}`), log)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), s.Number.IntMin)
	assert.Equal(t, int64(10), s.Number.IntMax)
	assert.NotEmpty(t, log.Warnings)
}

func TestParseObject(t *testing.T) {
	doc := `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"}
		},
		"required": ["name"]
	}`
	s, err := Parse([]byte(doc), nil)
	assert.NoError(t, err)
	assert.Equal(t, schema.KindObject, s.Kind)
	assert.Len(t, s.Object.Fields, 2)

	var name, age schema.ObjectField
	for _, f := range s.Object.Fields {
		if f.Key == "name" {
			name = f
		}
		if f.Key == "age" {
			age = f
		}
	}
	assert.True(t, name.Required)
	assert.False(t, age.Required)
}

func TestParseArray(t *testing.T) {
	doc := `{"type":"array","items":{"type":"integer"},"minItems":1,"maxItems":5}`
	s, err := Parse([]byte(doc), nil)
	assert.NoError(t, err)
	assert.Equal(t, schema.KindArray, s.Kind)
	assert.Equal(t, 1, s.Array.MinLen)
	assert.Equal(t, 5, s.Array.MaxLen)
	assert.Equal(t, schema.KindNumber, s.Array.Item.Kind)
}

func TestParseArrayMissingItems(t *testing.T) {
	_, err := Parse([]byte(`{"type":"array"}`), nil)
	assert.Error(t, err)
	assert.IsType(t, &InvalidSchemaError{}, err)
}

func TestParseArrayMinExceedsMax(t *testing.T) {
	doc := `{"type":"array","items":{"type":"boolean"},"minItems":8,"maxItems":2}`
	_, err := Parse([]byte(doc), nil)
	assert.Error(t, err)
	assert.IsType(t, &InvalidConstraintError{}, err)
}

func TestParseNullableTypeArray(t *testing.T) {
	s, err := Parse([]byte(`{"type":["string","null"]}`), nil)
	assert.NoError(t, err)
	assert.Equal(t, schema.KindNullable, s.Kind)
	assert.Equal(t, schema.KindString, s.Inner.Kind)
}

func TestParseNullableTypeArrayOrderIndependent(t *testing.T) {
	s, err := Parse([]byte(`{"type":["null","integer"]}`), nil)
	assert.NoError(t, err)
	assert.Equal(t, schema.KindNullable, s.Kind)
	assert.Equal(t, schema.KindNumber, s.Inner.Kind)
}

func TestParseTypeArrayEmpty(t *testing.T) {
	_, err := Parse([]byte(`{"type":[]}`), nil)
	assert.Error(t, err)
	assert.IsType(t, &InvalidConstraintError{}, err)
}

func TestParseTypeArrayUnsupportedShape(t *testing.T) {
	_, err := Parse([]byte(`{"type":["string","integer"]}`), nil)
	assert.Error(t, err)
	assert.IsType(t, &InvalidSchemaError{}, err)
}

func TestParseAnyOfNullable(t *testing.T) {
	doc := `{"anyOf":[{"type":"string"},{"type":"null"}]}`
	s, err := Parse([]byte(doc), nil)
	assert.NoError(t, err)
	assert.Equal(t, schema.KindNullable, s.Kind)
	assert.Equal(t, schema.KindString, s.Inner.Kind)
}

func TestParseAnyOfUnsupportedShape(t *testing.T) {
	doc := `{"anyOf":[{"type":"string"},{"type":"integer"}]}`
	_, err := Parse([]byte(doc), nil)
	assert.Error(t, err)
	assert.IsType(t, &UnsupportedFeatureError{}, err)
}

func TestParseNoTypeOrUnion(t *testing.T) {
	_, err := Parse([]byte(`{}`), nil)
	assert.Error(t, err)
	assert.IsType(t, &InvalidSchemaError{}, err)
}

func TestParseIgnoredKeywordWarns(t *testing.T) {
	log := &diag.Log{}
	s, err := Parse([]byte(`{"type":"string","pattern":"^[a-z]+$"}`), log)
	assert.NoError(t, err)
	assert.Equal(t, schema.KindString, s.Kind)
	assert.NotEmpty(t, log.Warnings)
}

func TestParseUnsupportedType(t *testing.T) {
	_, err := Parse([]byte(`{"type":"banana"}`), nil)
	assert.Error(t, err)
	assert.IsType(t, &UnsupportedFeatureError{}, err)
}

func TestParseMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`), nil)
	assert.Error(t, err)
	assert.IsType(t, &InvalidSchemaError{}, err)
}

func TestParseNestedObjectInArray(t *testing.T) {
	doc := `{
		"type": "array",
		"items": {
			"type": "object",
			"properties": {"id": {"type": "string", "format": "uuid"}},
			"required": ["id"]
		}
	}`
	s, err := Parse([]byte(doc), nil)
	assert.NoError(t, err)
	assert.Equal(t, schema.KindObject, s.Array.Item.Kind)
	assert.Equal(t, schema.StringUUID, s.Array.Item.Object.Fields[0].Value.String.Kind)
}
