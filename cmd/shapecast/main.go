// Command shapecast infers or parses a JSON schema and either describes it
// or produces synthetic JSON from it. Flag parsing and dispatch follow the
// teacher's run()-error CLI shape: main only wires logging and the exit
// code, run does the work and returns an error.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/outpostlabs/shapecast/diag"
	"github.com/outpostlabs/shapecast/generate"
	"github.com/outpostlabs/shapecast/infer"
	"github.com/outpostlabs/shapecast/jsonschema"
	"github.com/outpostlabs/shapecast/render"
	"github.com/outpostlabs/shapecast/schema"
)

func main() {
	setupLogging()
	if err := run(os.Args[1:]); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	switch os.Getenv("SHAPECAST_LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: shapecast <describe|produce> [flags]")
	}
	switch args[0] {
	case "describe":
		return runDescribe(args[1:])
	case "produce":
		return runProduce(args[1:])
	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func runDescribe(args []string) error {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	fromSchema := fs.Bool("from-schema", false, "treat input as a JSON Schema document instead of sample data")
	jsonSchemaOut := fs.Bool("json-schema", false, "emit a JSON Schema document instead of the pretty form")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, log, err := loadSchema(os.Stdin, *fromSchema)
	if err != nil {
		return err
	}
	flushDiagnostics(log)

	if *jsonSchemaOut {
		out, err := render.JSONSchema(s)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(render.Pretty(s))
	return nil
}

func runProduce(args []string) error {
	fs := flag.NewFlagSet("produce", flag.ContinueOnError)
	fromSchema := fs.Bool("from-schema", false, "treat input as a JSON Schema document instead of sample data")
	n := fs.Int("n", 1, "number of values to generate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, log, err := loadSchema(os.Stdin, *fromSchema)
	if err != nil {
		return err
	}
	flushDiagnostics(log)

	values, err := generate.Produce(s, *n, generate.NewRand(), log)
	if err != nil {
		return err
	}
	flushDiagnostics(log)

	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(values)
}

func loadSchema(r io.Reader, fromSchema bool) (*schema.Schema, *diag.Log, error) {
	log := &diag.Log{}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	if fromSchema {
		s, err := jsonschema.Parse(data, log)
		if err != nil {
			return nil, nil, err
		}
		return s, log, nil
	}
	s, err := infer.ReadJSONLines(bytes.NewReader(data), log)
	if err != nil {
		return nil, nil, err
	}
	return s, log, nil
}

func flushDiagnostics(log *diag.Log) {
	for _, w := range log.Flush() {
		slog.Warn(w)
	}
}
