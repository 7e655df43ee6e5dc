// Package render implements the C6 component: turning a schema.Schema into
// either a human-readable indented description or a JSON Schema document.
// The JSON Schema form is built as an *openapi3.Schema and marshaled, the
// same wire representation the teacher's infer/infer.go builds
// (NewObjectSchema/NewArraySchema/NewStringSchema) before handing a schema
// off to json.Marshal, the way merge/merge_test.go exercises it.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/outpostlabs/shapecast/schema"
)

// Pretty renders s as the two-space-indented human form described in §4.6.
func Pretty(s *schema.Schema) string {
	return prettyNode(s, "")
}

func prettyNode(s *schema.Schema, indent string) string {
	switch s.Kind {
	case schema.KindInitial, schema.KindIndefinite:
		return "null"
	case schema.KindNull:
		return "null"
	case schema.KindBoolean:
		return "bool"
	case schema.KindNumber:
		return prettyNumber(s.Number)
	case schema.KindString:
		return prettyString(s.String)
	case schema.KindArray:
		inner := prettyNode(s.Array.Item, indent+"  ")
		return fmt.Sprintf("[\n%s  %s\n%s] (%d-%d)", indent, inner, indent, s.Array.MinLen, s.Array.MaxLen)
	case schema.KindObject:
		return prettyObject(s.Object, indent)
	case schema.KindNullable:
		return prettyNode(s.Inner, indent) + " (nullable)"
	}
	panic("render: unreachable schema kind " + s.Kind.String())
}

func prettyNumber(n schema.NumberSchema) string {
	if n.Kind == schema.NumberInteger {
		return fmt.Sprintf("int (%d-%d)", n.IntMin, n.IntMax)
	}
	return fmt.Sprintf("float (%s-%s)", trimFloat(n.FloatMin), trimFloat(n.FloatMax))
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func prettyString(s schema.StringSchema) string {
	switch s.Kind {
	case schema.StringUnknown:
		return fmt.Sprintf("string (%d-%d)", s.MinLen, s.MaxLen)
	case schema.StringNumeric:
		return fmt.Sprintf("string (numeric, %d-%d)", s.MinLen, s.MaxLen)
	case schema.StringEnum:
		return fmt.Sprintf("string (enum: %s)", strings.Join(s.Enum, ", "))
	default:
		return "string (" + s.Kind.String() + ")"
	}
}

func prettyObject(o *schema.ObjectSchema, indent string) string {
	if len(o.Fields) == 0 {
		return "{}"
	}
	inner := indent + "  "
	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range o.Fields {
		b.WriteString(inner)
		b.WriteString(strconv.Quote(f.Key))
		b.WriteString(": ")
		b.WriteString(prettyNode(f.Value, inner))
		if !f.Required {
			b.WriteString(" (optional)")
		}
		if i < len(o.Fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(indent)
	b.WriteString("}")
	return b.String()
}

// JSONSchema renders s as a minimal JSON Schema document. Per §4.6, internal
// ranges (minLength/maxLength, minimum/maximum, minItems/maxItems) are
// deliberately never emitted — they are sample-size-bound inference
// artifacts, too speculative for a declarative constraint. Only type,
// properties/required, items, enum/format, and nullable survive.
func JSONSchema(s *schema.Schema) ([]byte, error) {
	oa := toOpenAPISchema(s)
	return json.MarshalIndent(oa, "", "  ")
}

func toOpenAPISchema(s *schema.Schema) *openapi3.Schema {
	switch s.Kind {
	case schema.KindInitial, schema.KindIndefinite:
		return openapi3.NewSchema()
	case schema.KindNull:
		oa := openapi3.NewSchema()
		oa.Nullable = true
		return oa
	case schema.KindBoolean:
		return openapi3.NewBoolSchema()
	case schema.KindNumber:
		if s.Number.Kind == schema.NumberInteger {
			return openapi3.NewIntegerSchema()
		}
		return openapi3.NewFloat64Schema()
	case schema.KindString:
		return stringOpenAPISchema(s.String)
	case schema.KindArray:
		oa := openapi3.NewArraySchema()
		oa.Items = openapi3.NewSchemaRef("", toOpenAPISchema(s.Array.Item))
		return oa
	case schema.KindObject:
		return objectOpenAPISchema(s.Object)
	case schema.KindNullable:
		oa := toOpenAPISchema(s.Inner)
		oa.Nullable = true
		return oa
	}
	panic("render: unreachable schema kind " + s.Kind.String())
}

func stringOpenAPISchema(s schema.StringSchema) *openapi3.Schema {
	oa := openapi3.NewStringSchema()
	switch s.Kind {
	case schema.StringEnum:
		for _, v := range s.Enum {
			oa.Enum = append(oa.Enum, v)
		}
	case schema.StringUUID:
		oa.Format = "uuid"
	case schema.StringEmail:
		oa.Format = "email"
	case schema.StringURL:
		oa.Format = "uri"
	case schema.StringHostname:
		oa.Format = "hostname"
	case schema.StringIsoDate:
		oa.Format = "date"
	case schema.StringIsoDateTime:
		oa.Format = "date-time"
	}
	return oa
}

func objectOpenAPISchema(o *schema.ObjectSchema) *openapi3.Schema {
	oa := openapi3.NewObjectSchema()
	oa.Properties = make(openapi3.Schemas, len(o.Fields))
	for _, f := range o.Fields {
		oa.Properties[f.Key] = openapi3.NewSchemaRef("", toOpenAPISchema(f.Value))
		if f.Required {
			oa.Required = append(oa.Required, f.Key)
		}
	}
	return oa
}
