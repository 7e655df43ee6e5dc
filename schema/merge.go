package schema

import "github.com/outpostlabs/shapecast/diag"

// Merge is the total, commutative, associative combiner over the schema
// algebra. Initial is its identity element; Indefinite is absorbed by any
// concrete schema. log may be nil; it only receives a message when two
// concrete-but-incompatible schemas are merged (§4.2's type-mismatch case).
func Merge(a, b *Schema, log *diag.Log) *Schema {
	if a == nil {
		a = Initial()
	}
	if b == nil {
		b = Initial()
	}

	if a.Kind == KindInitial {
		return b
	}
	if b.Kind == KindInitial {
		return a
	}
	if a.Kind == KindIndefinite {
		return b
	}
	if b.Kind == KindIndefinite {
		return a
	}

	// Null / Nullable handling happens before the general same-kind dispatch
	// because Null combines with every other kind.
	if a.Kind == KindNull && b.Kind == KindNull {
		return Null()
	}
	if a.Kind == KindNull && b.Kind == KindNullable {
		return b
	}
	if a.Kind == KindNullable && b.Kind == KindNull {
		return a
	}
	if a.Kind == KindNull {
		return Nullable(b)
	}
	if b.Kind == KindNull {
		return Nullable(a)
	}
	if a.Kind == KindNullable && b.Kind == KindNullable {
		return Nullable(Merge(a.Inner, b.Inner, log))
	}
	if a.Kind == KindNullable {
		return Nullable(Merge(a.Inner, b, log))
	}
	if b.Kind == KindNullable {
		return Nullable(Merge(a, b.Inner, log))
	}

	if a.Kind != b.Kind {
		log.Warn("cannot merge %s with %s, keeping left-hand schema", a.Kind, b.Kind)
		return a
	}

	switch a.Kind {
	case KindBoolean:
		return Boolean()
	case KindNumber:
		return &Schema{Kind: KindNumber, Number: mergeNumber(a.Number, b.Number)}
	case KindString:
		return &Schema{Kind: KindString, String: mergeString(a.String, b.String, log)}
	case KindArray:
		return mergeArray(a.Array, b.Array, log)
	case KindObject:
		return mergeObject(a.Object, b.Object, log)
	}

	// Unreachable: every Kind is covered by a case above or handled earlier.
	panic("schema: unreachable merge kind " + a.Kind.String())
}

func mergeNumber(a, b NumberSchema) NumberSchema {
	if a.Kind == NumberInteger && b.Kind == NumberInteger {
		return NumberSchema{Kind: NumberInteger, IntMin: minI64(a.IntMin, b.IntMin), IntMax: maxI64(a.IntMax, b.IntMax)}
	}

	toFloat := func(n NumberSchema) (float64, float64) {
		if n.Kind == NumberFloat {
			return n.FloatMin, n.FloatMax
		}
		return float64(n.IntMin), float64(n.IntMax)
	}
	aMin, aMax := toFloat(a)
	bMin, bMax := toFloat(b)
	return NumberSchema{Kind: NumberFloat, FloatMin: minF64(aMin, bMin), FloatMax: maxF64(aMax, bMax)}
}

// mergeString follows §4.2's mergeStr table: identical format tags stay
// identical, two NumericString widen their length range, two Unknown widen
// lengths and union chars_seen, two Enum union their sets, and any other mix
// falls back to Unknown (re-treating each side's canonical rendering as
// observed characters, per the original Rust infer.rs "Unknown vs concrete
// format" branch).
func mergeString(a, b StringSchema, log *diag.Log) StringSchema {
	if a.Kind == b.Kind {
		switch a.Kind {
		case StringUnknown:
			chars := append(append([]rune(nil), a.CharsSeen...), b.CharsSeen...)
			return StringSchema{Kind: StringUnknown, MinLen: minI(a.MinLen, b.MinLen), MaxLen: maxI(a.MaxLen, b.MaxLen), CharsSeen: chars}
		case StringNumeric:
			return StringSchema{Kind: StringNumeric, MinLen: minI(a.MinLen, b.MinLen), MaxLen: maxI(a.MaxLen, b.MaxLen)}
		case StringEnum:
			return StringSchema{Kind: StringEnum, Enum: unionStrings(a.Enum, b.Enum)}
		default:
			return a
		}
	}

	aMin, aMax, aChars := canonicalLength(a)
	bMin, bMax, bChars := canonicalLength(b)
	return StringSchema{
		Kind:      StringUnknown,
		MinLen:    minI(aMin, bMin),
		MaxLen:    maxI(aMax, bMax),
		CharsSeen: append(aChars, bChars...),
	}
}

// formatSample is a representative literal value for a format tag, used by
// canonicalLength as a stand-in "observed" string when no real samples were
// ever recorded. It shadows what generate.generateString actually produces
// for that format, rather than the format's name.
var formatSample = map[StringKind]string{
	StringUUID:        "00000000-0000-0000-0000-000000000000",
	StringEmail:       "user@example.com",
	StringURL:         "https://example.com/path",
	StringHostname:    "example.com",
	StringIsoDate:     "2006-01-02",
	StringIsoDateTime: "2006-01-02T15:04:05Z",
}

// canonicalLength produces a plausible length range and rune sequence for a
// format-tagged string schema, so that merging it with (or into) an Unknown
// string doesn't lose all signal. Unknown and NumericString already carry a
// real length range; every other format is treated as observed through a
// representative literal sample of that format.
func canonicalLength(s StringSchema) (min, max int, chars []rune) {
	switch s.Kind {
	case StringUnknown, StringNumeric:
		return s.MinLen, s.MaxLen, append([]rune(nil), s.CharsSeen...)
	case StringEnum:
		var out []rune
		for _, v := range s.Enum {
			out = append(out, []rune(v)...)
		}
		return len(out), len(out), out
	default:
		r := []rune(formatSample[s.Kind])
		return len(r), len(r), r
	}
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func mergeArray(a, b *ArraySchema, log *diag.Log) *Schema {
	return Array(minI(a.MinLen, b.MinLen), maxI(a.MaxLen, b.MaxLen), Merge(a.Item, b.Item, log))
}

// mergeObject pairs fields by key (teacher calls this "moop" pairing in
// merge/merge.go's mergeObjects): a field required on only one side becomes
// optional, a field required on both sides stays required, and all fields'
// values are merged pairwise. Field order is: a's fields first (in a's
// order), then any b-only fields appended in b's order.
func mergeObject(a, b *ObjectSchema, log *diag.Log) *Schema {
	bIndex := make(map[string]int, len(b.Fields))
	for i, f := range b.Fields {
		bIndex[f.Key] = i
	}
	consumed := make(map[string]bool, len(b.Fields))

	fields := make([]ObjectField, 0, len(a.Fields)+len(b.Fields))
	for _, af := range a.Fields {
		if i, ok := bIndex[af.Key]; ok {
			bf := b.Fields[i]
			consumed[af.Key] = true
			fields = append(fields, ObjectField{
				Key:      af.Key,
				Value:    Merge(af.Value, bf.Value, log),
				Required: af.Required && bf.Required,
			})
		} else {
			fields = append(fields, ObjectField{Key: af.Key, Value: af.Value, Required: false})
		}
	}
	for _, bf := range b.Fields {
		if !consumed[bf.Key] {
			fields = append(fields, ObjectField{Key: bf.Key, Value: bf.Value, Required: false})
		}
	}

	return Object(fields)
}

func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minF64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
