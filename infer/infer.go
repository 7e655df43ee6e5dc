// Package infer implements the C3 inferrer: folding one or many sample JSON
// values into a single schema.Schema by recursively classifying each node
// then merging, the same two-step shape as the teacher's
// infer/parsesamplebody.go (parse each fastjson.Value, then
// merge.Schema(...) the element schemas together).
package infer

import (
	"bufio"
	"bytes"
	"io"
	"runtime"
	"sync"

	"github.com/valyala/fastjson"

	"github.com/outpostlabs/shapecast/classify"
	"github.com/outpostlabs/shapecast/diag"
	"github.com/outpostlabs/shapecast/schema"
)

// Value infers a schema from a single already-parsed JSON value.
func Value(v *fastjson.Value, log *diag.Log) *schema.Schema {
	switch v.Type() {
	case fastjson.TypeNull:
		return schema.Null()
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return schema.Boolean()
	case fastjson.TypeNumber:
		return number(v)
	case fastjson.TypeString:
		s := string(v.GetStringBytes())
		kind := classify.Classify(s)
		return &schema.Schema{Kind: schema.KindString, String: kind}
	case fastjson.TypeArray:
		items := v.GetArray()
		elem := schema.Initial()
		for _, item := range items {
			elem = schema.Merge(elem, Value(item, log), log)
		}
		if len(items) == 0 {
			elem = schema.Indefinite()
		}
		return schema.Array(len(items), len(items), elem)
	case fastjson.TypeObject:
		obj := v.GetObject()
		fields := make([]schema.ObjectField, 0, obj.Len())
		obj.Visit(func(key []byte, val *fastjson.Value) {
			fields = append(fields, schema.ObjectField{
				Key:      string(key),
				Value:    Value(val, log),
				Required: true,
			})
		})
		return schema.Object(fields)
	}

	// fastjson.Value.Type() is exhaustive over the cases above.
	panic("infer: unreachable fastjson type")
}

func number(v *fastjson.Value) *schema.Schema {
	f := v.GetFloat64()
	if i, err := v.Int64(); err == nil && float64(i) == f {
		return schema.Integer(i)
	}
	return schema.Float(f)
}

// Bytes parses and infers a schema from a single JSON document.
func Bytes(b []byte, log *diag.Log) (*schema.Schema, error) {
	v, err := fastjson.ParseBytes(b)
	if err != nil {
		return nil, err
	}
	return Value(v, log), nil
}

// Stream folds a sequence of already-parsed values into one schema via
// repeated Merge, starting from the Initial identity element. ReadJSONLines
// performs the same fold while reading, and is what describe/produce use.
func Stream(values []*fastjson.Value, log *diag.Log) *schema.Schema {
	acc := schema.Initial()
	for _, v := range values {
		acc = schema.Merge(acc, Value(v, log), log)
	}
	return acc
}

// StreamParallel folds a sequence of values the same way Stream does, but
// splits the input into per-CPU chunks, infers+folds each chunk on its own
// goroutine, then sequentially reduces the per-chunk schemas. Merge being
// associative and commutative is what makes this split-then-reduce valid
// regardless of how the chunk boundaries fall.
func StreamParallel(values []*fastjson.Value, log *diag.Log) *schema.Schema {
	n := len(values)
	if n == 0 {
		return schema.Initial()
	}
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return Stream(values, log)
	}

	chunkSize := (n + workers - 1) / workers
	results := make([]*schema.Schema, workers)
	workerLogs := make([]*diag.Log, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if start >= n {
			continue
		}
		if end > n {
			end = n
		}
		// Each worker gets its own Log: diag.Log.Warn appends to a plain
		// slice with no locking, so sharing one Log across goroutines would
		// race on its backing array. The per-worker logs are folded into
		// the caller's log sequentially below, once every worker has
		// returned.
		workerLog := &diag.Log{}
		workerLogs[w] = workerLog
		wg.Add(1)
		go func(idx, start, end int) {
			defer wg.Done()
			results[idx] = Stream(values[start:end], workerLog)
		}(w, start, end)
	}
	wg.Wait()

	for _, wl := range workerLogs {
		if wl != nil {
			log.Append(wl.Warnings)
		}
	}

	acc := schema.Initial()
	for _, r := range results {
		if r != nil {
			acc = schema.Merge(acc, r, log)
		}
	}
	return acc
}

// ReadJSONLines reads either a single JSON document (which may span several
// lines) or newline-separated JSON documents, one per line, from r and infers
// one schema across all of them. Input that does not parse as one document is
// read line by line as JSON Lines.
func ReadJSONLines(r io.Reader, log *diag.Log) (*schema.Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if v, err := fastjson.ParseBytes(data); err == nil {
		return Value(v, log), nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var p fastjson.Parser
	acc := schema.Initial()
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(trimSpace(line)) == 0 {
			continue
		}
		// fastjson.Parser reuses its internal arena across calls to
		// ParseBytes, so each line is inferred and folded in immediately
		// rather than holding on to *fastjson.Value pointers across lines.
		v, err := p.ParseBytes(line)
		if err != nil {
			return nil, err
		}
		acc = schema.Merge(acc, Value(v, log), log)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return acc, nil
}

func trimSpace(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && isSpace(b[i]) {
		i++
	}
	for j > i && isSpace(b[j-1]) {
		j--
	}
	return b[i:j]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
