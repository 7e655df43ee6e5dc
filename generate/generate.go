// Package generate implements the C5 component: sampling a JSON value from
// a schema.Schema. Values are built as plain Go interface{} trees
// (map[string]interface{}, []interface{}, string, int64, float64, bool, nil) ready
// for encoding/json.Marshal, the same representation the teacher's
// fakejsonserver used for hand-built fixture responses before a
// schema-driven generator existed here.
package generate

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/outpostlabs/shapecast/diag"
	"github.com/outpostlabs/shapecast/schema"
)

// corpusWords backs Email/Url/Hostname generation. The original Rust
// implementation pulled these from the `fake` crate; nothing in this
// module's dependency set offers an equivalent, so a small fixed word list
// stands in, in the same spirit as the teacher's own hand-rolled random
// string generator.
var corpusWords = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf",
	"hotel", "india", "juliet", "kilo", "lima", "mike", "november",
	"oscar", "papa", "quebec", "romeo", "sierra", "tango", "uniform",
	"victor", "whiskey", "xray", "yankee", "zulu",
}

var tlds = []string{"com", "net", "org", "io", "dev"}

const loweralpha = "abcdefghijklmnopqrstuvwxyz"

// dateEpoch is the fixed reference point ISO date/datetime generation
// samples ±50 years around.
var dateEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// NewRand returns a *rand.Rand seeded from the current time, for callers
// that don't need a reproducible seed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Generate samples one JSON value from s. rng must not be nil; callers own
// its lifetime and may reuse it across calls or seed it for reproducible
// output. log may be nil; it receives a warning when an integer or float
// range is too wide to sample directly and has to be clamped.
func Generate(s *schema.Schema, rng *rand.Rand, log *diag.Log) (interface{}, error) {
	switch s.Kind {
	case schema.KindInitial, schema.KindIndefinite:
		return nil, nil
	case schema.KindNull:
		return nil, nil
	case schema.KindBoolean:
		return rng.Intn(2) == 1, nil
	case schema.KindNumber:
		return generateNumber(s.Number, rng, log), nil
	case schema.KindString:
		return generateString(s.String, rng)
	case schema.KindArray:
		return generateArray(s.Array, rng, log)
	case schema.KindObject:
		return generateObject(s.Object, rng, log)
	case schema.KindNullable:
		if rng.Float64() < 0.5 {
			return nil, nil
		}
		return Generate(s.Inner, rng, log)
	}

	panic("generate: unreachable schema kind " + s.Kind.String())
}

func generateNumber(n schema.NumberSchema, rng *rand.Rand, log *diag.Log) interface{} {
	if n.Kind == schema.NumberInteger {
		lo, hi := n.IntMin, n.IntMax
		if lo > hi {
			lo, hi = hi, lo
		}
		// span is computed in uint64 because hi-lo can itself equal
		// math.MaxInt64, which overflows back to negative in int64 once 1 is
		// added for Int63n's exclusive-upper-bound argument.
		span := uint64(hi) - uint64(lo)
		if span >= math.MaxInt64 {
			log.Warn("Warning: clamping integer range [%d, %d] to [-1000, 1000] before generating", lo, hi)
			lo, hi = -1000, 1000
			span = uint64(hi - lo)
		}
		return lo + rng.Int63n(int64(span)+1)
	}

	lo, hi := n.FloatMin, n.FloatMax
	if lo > hi {
		lo, hi = hi, lo
	}
	const safeBound = 1e15
	if hi-lo > safeBound || hi-lo < 0 {
		log.Warn("Warning: clamping float range [%g, %g] to [-1000, 1000] before generating", lo, hi)
		lo, hi = -1000.0, 1000.0
	}
	return lo + rng.Float64()*(hi-lo)
}

func generateString(s schema.StringSchema, rng *rand.Rand) (interface{}, error) {
	switch s.Kind {
	case schema.StringUUID:
		return uuid.New().String(), nil
	case schema.StringEmail:
		return randomWord(rng) + "@" + randomWord(rng) + "." + randomTLD(rng), nil
	case schema.StringURL:
		return "https://" + randomWord(rng) + "." + randomTLD(rng) + "/" + randomWord(rng), nil
	case schema.StringHostname:
		return randomHostname(rng), nil
	case schema.StringIsoDate:
		return randomDate(rng).Format("2006-01-02"), nil
	case schema.StringIsoDateTime:
		return randomDate(rng).Format("2006-01-02T15:04:05Z"), nil
	case schema.StringNumeric:
		return randomNumericString(s.MinLen, s.MaxLen, rng), nil
	case schema.StringEnum:
		if len(s.Enum) == 0 {
			return nil, fmt.Errorf("generate: enum schema has no values")
		}
		return s.Enum[rng.Intn(len(s.Enum))], nil
	default:
		return randomUnknownString(s, rng), nil
	}
}

func randomWord(rng *rand.Rand) string {
	return corpusWords[rng.Intn(len(corpusWords))]
}

func randomTLD(rng *rand.Rand) string {
	return tlds[rng.Intn(len(tlds))]
}

func randomHostname(rng *rand.Rand) string {
	labels := 2 + rng.Intn(2) // 2-3 labels
	out := randomWord(rng)
	for i := 1; i < labels; i++ {
		out += "." + randomWord(rng)
	}
	return out
}

func randomDate(rng *rand.Rand) time.Time {
	const yearSpanDays = 50 * 365
	offsetDays := rng.Intn(2*yearSpanDays+1) - yearSpanDays
	t := dateEpoch.AddDate(0, 0, offsetDays)
	secs := rng.Intn(24 * 60 * 60)
	return t.Add(time.Duration(secs) * time.Second)
}

func randomNumericString(minLen, maxLen int, rng *rand.Rand) string {
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	length := minLen
	if maxLen > minLen {
		length += rng.Intn(maxLen - minLen + 1)
	}
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length)
	buf[0] = byte('1' + rng.Intn(9))
	if length == 1 {
		buf[0] = byte('0' + rng.Intn(10))
	}
	for i := 1; i < length; i++ {
		buf[i] = byte('0' + rng.Intn(10))
	}
	return string(buf)
}

func randomUnknownString(s schema.StringSchema, rng *rand.Rand) string {
	minLen, maxLen := s.MinLen, s.MaxLen
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	length := minLen
	if maxLen > minLen {
		length += rng.Intn(maxLen - minLen + 1)
	}
	chars := s.CharsSeen
	if len(chars) == 0 {
		chars = []rune(loweralpha)
	}
	out := make([]rune, length)
	for i := range out {
		out[i] = chars[rng.Intn(len(chars))]
	}
	return string(out)
}

func generateArray(a *schema.ArraySchema, rng *rand.Rand, log *diag.Log) (interface{}, error) {
	lo, hi := a.MinLen, a.MaxLen
	if lo > hi {
		lo, hi = hi, lo
	}
	length := lo
	if hi > lo {
		length += rng.Intn(hi - lo + 1)
	}
	out := make([]interface{}, length)
	for i := range out {
		v, err := Generate(a.Item, rng, log)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func generateObject(o *schema.ObjectSchema, rng *rand.Rand, log *diag.Log) (interface{}, error) {
	out := make(map[string]interface{}, len(o.Fields))
	for _, f := range o.Fields {
		if !f.Required && rng.Float64() >= 0.5 {
			continue
		}
		v, err := Generate(f.Value, rng, log)
		if err != nil {
			return nil, err
		}
		out[f.Key] = v
	}
	return out, nil
}

// Produce samples n independent values from s and wraps them in a top-level
// JSON array, per the "Bug #3" fix documented in the original implementation:
// each repeated element is generated fresh (including its own independently
// sampled array length when s itself is an array), never by reusing one
// sampled value n times.
func Produce(s *schema.Schema, n int, rng *rand.Rand, log *diag.Log) ([]interface{}, error) {
	out := make([]interface{}, n)
	for i := 0; i < n; i++ {
		v, err := Generate(s, rng, log)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
