// Package jsonschema implements the C4 component: interpreting a JSON
// Schema document (drafts >= 7) as a value in the same schema.Schema
// algebra inference produces. It walks the document with fastjson the same
// way apispec/parsesample.go and infer/parsesamplebody.go walk sample data
// in the teacher repo, rather than unmarshaling into a fixed Go struct,
// because a handful of keywords (notably `type`) can be either a string or
// an array and only a tagged-value walk distinguishes that for free.
package jsonschema

import (
	"github.com/valyala/fastjson"

	"github.com/outpostlabs/shapecast/diag"
	"github.com/outpostlabs/shapecast/schema"
)

// Default bounds used when a JSON Schema supplies none, per §6.
const (
	defaultIntMin    int64   = -1000
	defaultIntMax    int64   = 1000
	defaultFloatMin  float64 = -1000.0
	defaultFloatMax  float64 = 1000.0
	defaultStrMinLen int     = 0
	defaultStrMaxLen int     = 32
	defaultArrMinLen int     = 0
	defaultArrMaxLen int     = 10
)

// ignoredKeywords are accepted, warned about once per occurrence, and then
// have no effect on the resulting schema — the explicit non-support list
// from §1/§4.4.
var ignoredKeywords = []string{
	"$ref", "allOf", "if", "then", "else", "not",
	"patternProperties", "additionalProperties", "const", "default",
	"propertyNames", "minProperties", "maxProperties", "contains",
	"contentEncoding", "pattern", "uniqueItems",
}

// Parse interprets raw as a JSON Schema document and returns its
// schema.Schema representation. log may be nil; callers that want the
// "Warning: ..." lines §6 describes should pass a non-nil *diag.Log and
// flush it themselves.
func Parse(raw []byte, log *diag.Log) (*schema.Schema, error) {
	v, err := fastjson.ParseBytes(raw)
	if err != nil {
		return nil, &InvalidSchemaError{Message: err.Error()}
	}
	return parseNode(v, log)
}

func parseNode(v *fastjson.Value, log *diag.Log) (*schema.Schema, error) {
	if v.Type() != fastjson.TypeObject {
		return nil, &InvalidSchemaError{Message: "schema node must be an object"}
	}
	obj, err := v.Object()
	if err != nil {
		return nil, &InvalidSchemaError{Message: err.Error()}
	}

	warnIgnoredKeywords(obj, log)

	if typeVal := obj.Get("type"); typeVal != nil {
		return parseTypeField(obj, typeVal, log)
	}

	if anyOfVal := obj.Get("anyOf"); anyOfVal != nil {
		return parseNullableUnion(anyOfVal, log, "anyOf")
	}
	if oneOfVal := obj.Get("oneOf"); oneOfVal != nil {
		return parseNullableUnion(oneOfVal, log, "oneOf")
	}

	return nil, &InvalidSchemaError{Message: "schema must have a 'type', 'anyOf', or 'oneOf'"}
}

func warnIgnoredKeywords(obj *fastjson.Object, log *diag.Log) {
	for _, kw := range ignoredKeywords {
		if obj.Get(kw) != nil {
			log.Warn("Warning: ignoring unsupported keyword %q", kw)
		}
	}
}

func parseTypeField(obj *fastjson.Object, typeVal *fastjson.Value, log *diag.Log) (*schema.Schema, error) {
	switch typeVal.Type() {
	case fastjson.TypeString:
		return parseByTypeName(obj, string(typeVal.GetStringBytes()), log)
	case fastjson.TypeArray:
		arr := typeVal.GetArray()
		if len(arr) == 0 {
			return nil, &InvalidConstraintError{Message: "type array must not be empty"}
		}
		names := make([]string, len(arr))
		for i, v := range arr {
			if v.Type() != fastjson.TypeString {
				return nil, &InvalidSchemaError{Message: "type array must contain only strings"}
			}
			names[i] = string(v.GetStringBytes())
		}
		if len(names) == 2 {
			other, hasNull := nonNullOf(names)
			if hasNull {
				inner, err := parseByTypeName(obj, other, log)
				if err != nil {
					return nil, err
				}
				return schema.Nullable(inner), nil
			}
		}
		return nil, &InvalidSchemaError{Message: "type array not of the form [T, \"null\"]"}
	default:
		return nil, &InvalidSchemaError{Message: "'type' must be a string or an array of strings"}
	}
}

func nonNullOf(names []string) (other string, hasNull bool) {
	var nonNull []string
	for _, n := range names {
		if n == "null" {
			hasNull = true
		} else {
			nonNull = append(nonNull, n)
		}
	}
	if hasNull && len(nonNull) == 1 {
		return nonNull[0], true
	}
	return "", false
}

func parseNullableUnion(arrVal *fastjson.Value, log *diag.Log, keyword string) (*schema.Schema, error) {
	if arrVal.Type() != fastjson.TypeArray {
		return nil, &InvalidSchemaError{Message: keyword + " must be an array"}
	}
	arr := arrVal.GetArray()
	if len(arr) != 2 {
		return nil, &UnsupportedFeatureError{Message: keyword + " is only supported with exactly two members, one of which is {type: null}"}
	}

	var nullIdx, otherIdx = -1, -1
	for i, member := range arr {
		if isNullTypeSchema(member) {
			nullIdx = i
		} else {
			otherIdx = i
		}
	}
	if nullIdx == -1 || otherIdx == -1 {
		return nil, &UnsupportedFeatureError{Message: keyword + " is only supported when one member is {type: null}"}
	}

	inner, err := parseNode(arr[otherIdx], log)
	if err != nil {
		return nil, err
	}
	return schema.Nullable(inner), nil
}

func isNullTypeSchema(v *fastjson.Value) bool {
	if v.Type() != fastjson.TypeObject {
		return false
	}
	obj, err := v.Object()
	if err != nil {
		return false
	}
	t := obj.Get("type")
	return t != nil && t.Type() == fastjson.TypeString && string(t.GetStringBytes()) == "null"
}

func parseByTypeName(obj *fastjson.Object, typeName string, log *diag.Log) (*schema.Schema, error) {
	switch typeName {
	case "boolean":
		return schema.Boolean(), nil
	case "null":
		return schema.Null(), nil
	case "string":
		return parseStringSchema(obj, log)
	case "integer", "number":
		return parseNumberSchema(obj, typeName, log)
	case "object":
		return parseObjectSchema(obj, log)
	case "array":
		return parseArraySchema(obj, log)
	default:
		return nil, &UnsupportedFeatureError{Message: "type " + typeName + " is not supported"}
	}
}

func parseStringSchema(obj *fastjson.Object, log *diag.Log) (*schema.Schema, error) {
	if enumVal := obj.Get("enum"); enumVal != nil {
		if enumVal.Type() != fastjson.TypeArray {
			return nil, &InvalidSchemaError{Message: "enum must be an array"}
		}
		arr := enumVal.GetArray()
		if len(arr) == 0 {
			return nil, &InvalidConstraintError{Message: "enum must not be empty"}
		}
		values := make([]string, len(arr))
		for i, v := range arr {
			if v.Type() != fastjson.TypeString {
				return nil, &InvalidSchemaError{Message: "enum must contain only strings"}
			}
			values[i] = string(v.GetStringBytes())
		}
		return schema.EnumString(values), nil
	}

	if formatVal := obj.Get("format"); formatVal != nil {
		if formatVal.Type() == fastjson.TypeString {
			if kind, ok := formatToKind(string(formatVal.GetStringBytes())); ok {
				return schema.StringOf(kind), nil
			}
			log.Warn("Warning: unknown string format %q, falling back to unknown", string(formatVal.GetStringBytes()))
		}
	}

	minLen := defaultStrMinLen
	maxLen := defaultStrMaxLen
	if mv := obj.Get("minLength"); mv != nil {
		minLen = int(mv.GetInt64())
		maxLen = minLen + defaultStrMaxLen
	}
	if mv := obj.Get("maxLength"); mv != nil {
		maxLen = int(mv.GetInt64())
	}
	if minLen > maxLen {
		return nil, &InvalidConstraintError{Message: "minLength must not exceed maxLength"}
	}

	return &schema.Schema{Kind: schema.KindString, String: schema.StringSchema{
		Kind:   schema.StringUnknown,
		MinLen: minLen,
		MaxLen: maxLen,
	}}, nil
}

func formatToKind(format string) (schema.StringKind, bool) {
	switch format {
	case "uuid":
		return schema.StringUUID, true
	case "email":
		return schema.StringEmail, true
	case "uri", "url":
		return schema.StringURL, true
	case "hostname":
		return schema.StringHostname, true
	case "date":
		return schema.StringIsoDate, true
	case "date-time":
		return schema.StringIsoDateTime, true
	default:
		return schema.StringUnknown, false
	}
}

func parseNumberSchema(obj *fastjson.Object, typeName string, log *diag.Log) (*schema.Schema, error) {
	for _, kw := range []string{"exclusiveMinimum", "exclusiveMaximum"} {
		if obj.Get(kw) != nil {
			log.Warn("Warning: %q is not supported, treating exclusive bounds as inclusive", kw)
		}
	}
	if obj.Get("multipleOf") != nil {
		log.Warn("Warning: %q is not supported, ignoring it", "multipleOf")
	}

	minimum := obj.Get("minimum")
	if minimum == nil {
		minimum = exclusiveNumberFallback(obj.Get("exclusiveMinimum"))
	}
	maximum := obj.Get("maximum")
	if maximum == nil {
		maximum = exclusiveNumberFallback(obj.Get("exclusiveMaximum"))
	}

	if typeName == "integer" {
		min, max := defaultIntMin, defaultIntMax
		if minimum != nil {
			min = minimum.GetInt64()
		}
		if maximum != nil {
			max = maximum.GetInt64()
		}
		if min > max {
			return nil, &InvalidConstraintError{Message: "minimum must not exceed maximum"}
		}
		return schema.IntegerRange(min, max), nil
	}

	min, max := defaultFloatMin, defaultFloatMax
	if minimum != nil {
		min = minimum.GetFloat64()
	}
	if maximum != nil {
		max = maximum.GetFloat64()
	}
	if min > max {
		return nil, &InvalidConstraintError{Message: "minimum must not exceed maximum"}
	}
	return schema.FloatRange(min, max), nil
}

func exclusiveNumberFallback(v *fastjson.Value) *fastjson.Value {
	if v == nil || v.Type() != fastjson.TypeNumber {
		return nil
	}
	return v
}

func parseObjectSchema(obj *fastjson.Object, log *diag.Log) (*schema.Schema, error) {
	requiredSet := map[string]bool{}
	if reqVal := obj.Get("required"); reqVal != nil {
		if reqVal.Type() != fastjson.TypeArray {
			return nil, &InvalidSchemaError{Message: "required must be an array"}
		}
		for _, v := range reqVal.GetArray() {
			if v.Type() != fastjson.TypeString {
				return nil, &InvalidSchemaError{Message: "required must contain only strings"}
			}
			requiredSet[string(v.GetStringBytes())] = true
		}
	}

	var fields []schema.ObjectField
	if propsVal := obj.Get("properties"); propsVal != nil {
		if propsVal.Type() != fastjson.TypeObject {
			return nil, &InvalidSchemaError{Message: "properties must be an object"}
		}
		propsObj, err := propsVal.Object()
		if err != nil {
			return nil, &InvalidSchemaError{Message: err.Error()}
		}
		var visitErr error
		propsObj.Visit(func(key []byte, val *fastjson.Value) {
			if visitErr != nil {
				return
			}
			child, err := parseNode(val, log)
			if err != nil {
				visitErr = err
				return
			}
			k := string(key)
			fields = append(fields, schema.ObjectField{
				Key:      k,
				Value:    child,
				Required: requiredSet[k],
			})
		})
		if visitErr != nil {
			return nil, visitErr
		}
	}

	return schema.Object(fields), nil
}

func parseArraySchema(obj *fastjson.Object, log *diag.Log) (*schema.Schema, error) {
	itemsVal := obj.Get("items")
	if itemsVal == nil {
		return nil, &InvalidSchemaError{Message: "array schema must have 'items'"}
	}
	item, err := parseNode(itemsVal, log)
	if err != nil {
		return nil, err
	}

	minItems, maxItems := defaultArrMinLen, defaultArrMaxLen
	if mv := obj.Get("minItems"); mv != nil {
		minItems = int(mv.GetInt64())
	}
	if mv := obj.Get("maxItems"); mv != nil {
		maxItems = int(mv.GetInt64())
	}
	if minItems > maxItems {
		return nil, &InvalidConstraintError{Message: "minItems must not exceed maxItems"}
	}

	return schema.Array(minItems, maxItems, item), nil
}
