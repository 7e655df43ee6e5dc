package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"

	"github.com/outpostlabs/shapecast/diag"
	"github.com/outpostlabs/shapecast/schema"
)

func mustInfer(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := Bytes([]byte(doc), nil)
	assert.NoError(t, err)
	return s
}

func field(t *testing.T, s *schema.Schema, key string) *schema.Schema {
	t.Helper()
	for _, f := range s.Object.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	t.Fatalf("no field %q", key)
	return nil
}

func TestInferNull(t *testing.T) {
	s := mustInfer(t, `null`)
	assert.Equal(t, schema.KindNull, s.Kind)
}

func TestInferUnknownString(t *testing.T) {
	s := mustInfer(t, `"foo"`)
	assert.Equal(t, schema.KindString, s.Kind)
	assert.Equal(t, schema.StringUnknown, s.String.Kind)
	assert.Equal(t, 3, s.String.MinLen)
	assert.Equal(t, 3, s.String.MaxLen)
}

func TestInferInteger(t *testing.T) {
	s := mustInfer(t, `42`)
	assert.Equal(t, schema.KindNumber, s.Kind)
	assert.Equal(t, schema.NumberInteger, s.Number.Kind)
	assert.Equal(t, int64(42), s.Number.IntMin)
	assert.Equal(t, int64(42), s.Number.IntMax)
}

func TestInferFloat(t *testing.T) {
	s := mustInfer(t, `42.5`)
	assert.Equal(t, schema.NumberFloat, s.Number.Kind)
	assert.Equal(t, 42.5, s.Number.FloatMin)
}

func TestInferBoolean(t *testing.T) {
	s := mustInfer(t, `true`)
	assert.Equal(t, schema.KindBoolean, s.Kind)
}

func TestInferFlatObject(t *testing.T) {
	// §8 scenario 1.
	doc := `{"name":"John Doe","age":30,"is_student":false,"grades":[85,90,78],"id":"0e3a99a5-0201-4444-9ab1-8343fac56233"}`
	s := mustInfer(t, doc)
	assert.Equal(t, schema.KindObject, s.Kind)

	name := field(t, s, "name")
	assert.Equal(t, schema.StringUnknown, name.String.Kind)
	assert.Equal(t, 8, name.String.MinLen)
	assert.Equal(t, 8, name.String.MaxLen)

	age := field(t, s, "age")
	assert.Equal(t, int64(30), age.Number.IntMin)
	assert.Equal(t, int64(30), age.Number.IntMax)

	student := field(t, s, "is_student")
	assert.Equal(t, schema.KindBoolean, student.Kind)

	grades := field(t, s, "grades")
	assert.Equal(t, schema.KindArray, grades.Kind)
	assert.Equal(t, 3, grades.Array.MinLen)
	assert.Equal(t, 3, grades.Array.MaxLen)
	assert.Equal(t, int64(78), grades.Array.Item.Number.IntMin)
	assert.Equal(t, int64(90), grades.Array.Item.Number.IntMax)

	id := field(t, s, "id")
	assert.Equal(t, schema.StringUUID, id.String.Kind)
}

func TestInferArrayNull(t *testing.T) {
	s := mustInfer(t, `[null, null]`)
	assert.Equal(t, schema.KindArray, s.Kind)
	assert.Equal(t, schema.KindNull, s.Array.Item.Kind)
}

func TestInferArrayEmpty(t *testing.T) {
	s := mustInfer(t, `[]`)
	assert.Equal(t, schema.KindArray, s.Kind)
	assert.Equal(t, 0, s.Array.MinLen)
	assert.Equal(t, 0, s.Array.MaxLen)
	assert.Equal(t, schema.KindIndefinite, s.Array.Item.Kind)
}

func TestInferArrayStringMixedLength(t *testing.T) {
	s := mustInfer(t, `["foo", "barbar"]`)
	assert.Equal(t, 3, s.Array.Item.String.MinLen)
	assert.Equal(t, 6, s.Array.Item.String.MaxLen)
}

func TestInferNestedArray(t *testing.T) {
	s := mustInfer(t, `[[true, false], [false]]`)
	inner := s.Array.Item
	assert.Equal(t, schema.KindArray, inner.Kind)
	assert.Equal(t, 1, inner.Array.MinLen)
	assert.Equal(t, 2, inner.Array.MaxLen)
	assert.Equal(t, schema.KindBoolean, inner.Array.Item.Kind)
}

func TestInferNullableArray(t *testing.T) {
	s1 := mustInfer(t, `["foo", null]`)
	s2 := mustInfer(t, `[null, "foo"]`)
	assert.Equal(t, schema.KindNullable, s1.Array.Item.Kind)
	assert.Equal(t, schema.KindNullable, s2.Array.Item.Kind)
	assert.Equal(t, s1.Array.Item.Inner.String.Kind, s2.Array.Item.Inner.String.Kind)
}

func parseLines(t *testing.T, docs ...string) []*fastjson.Value {
	t.Helper()
	vs := make([]*fastjson.Value, len(docs))
	for i, d := range docs {
		v, err := fastjson.Parse(d)
		assert.NoError(t, err)
		vs[i] = v
	}
	return vs
}

func TestStreamRequiredVsOptional(t *testing.T) {
	// §8 scenario 2.
	vs := parseLines(t, `{"a":1,"b":2}`, `{"a":3}`, `{"a":4,"b":5}`)
	s := Stream(vs, nil)

	a := field(t, s, "a")
	assert.Equal(t, int64(1), a.Number.IntMin)
	assert.Equal(t, int64(4), a.Number.IntMax)

	var aField, bField schema.ObjectField
	for _, f := range s.Object.Fields {
		if f.Key == "a" {
			aField = f
		}
		if f.Key == "b" {
			bField = f
		}
	}
	assert.True(t, aField.Required)
	assert.False(t, bField.Required)
}

func TestStreamNullableEmergesButFieldStaysRequired(t *testing.T) {
	// §8 scenario 3.
	vs := parseLines(t, `{"x":1}`, `{"x":null}`, `{"x":2}`)
	s := Stream(vs, nil)

	var xField schema.ObjectField
	for _, f := range s.Object.Fields {
		if f.Key == "x" {
			xField = f
		}
	}
	assert.True(t, xField.Required)
	assert.Equal(t, schema.KindNullable, xField.Value.Kind)
	assert.Equal(t, int64(1), xField.Value.Inner.Number.IntMin)
	assert.Equal(t, int64(2), xField.Value.Inner.Number.IntMax)
}

func TestStreamParallelMatchesSequential(t *testing.T) {
	docs := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		docs = append(docs, `{"n":`+itoa(i)+`}`)
	}
	vs := parseLines(t, docs...)

	seq := Stream(vs, nil)
	par := StreamParallel(vs, nil)

	assert.Equal(t, field(t, seq, "n").Number, field(t, par, "n").Number)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestMergeTypeMismatchWarnsAndKeepsLeft(t *testing.T) {
	log := &diag.Log{}
	a := schema.Boolean()
	b := schema.Integer(3)
	m := schema.Merge(a, b, log)
	assert.Equal(t, schema.KindBoolean, m.Kind)
	assert.NotEmpty(t, log.Warnings)
}
