// Command tablecalc reads CSV rows, applies a filter and a projection and
// prints the result as a text table.
//
//	tablecalc -schema "a:int,b:bigint,c:string" -filter "a > 1" -select "a, b * 2 AS d" data.csv
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rulego/tablecalc"
	"github.com/rulego/tablecalc/logger"
	"github.com/rulego/tablecalc/types"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "tablecalc: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tablecalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	schemaSpec := fs.String("schema", "", "comma separated name:type pairs, e.g. a:int,b:bigint,c:string")
	selectList := fs.String("select", "", "projection list; all fields when empty")
	filter := fs.String("filter", "", "boolean predicate applied before the projection")
	configPath := fs.String("config", "", "TOML config file")
	jsonLog := fs.Bool("json-log", false, "log as JSON through zap")
	header := fs.Bool("header", false, "skip the first CSV record")
	explain := fs.Bool("explain", false, "print the plan instead of the rows")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemaSpec == "" {
		return fmt.Errorf("-schema is required")
	}

	cfg := tablecalc.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = tablecalc.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if *jsonLog {
		cfg.LogFormat = "json"
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	env := tablecalc.New(opts...)

	schema, err := parseSchema(*schemaSpec)
	if err != nil {
		return err
	}

	input := stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}
	rows, err := readRows(input, schema, *header)
	if err != nil {
		return err
	}
	logger.Debug("read %d rows", len(rows))

	t := env.FromSchema(schema, rows)
	if strings.TrimSpace(*filter) != "" {
		if t, err = t.Filter(*filter); err != nil {
			return err
		}
	}
	if strings.TrimSpace(*selectList) != "" {
		if t, err = t.Select(*selectList); err != nil {
			return err
		}
	}

	if *explain {
		_, err = fmt.Fprintln(stdout, t.Explain())
		return err
	}
	return t.Print(stdout)
}

// parseSchema reads "name:type,..." pairs
func parseSchema(spec string) (*types.Schema, error) {
	var fields []types.Field
	for _, part := range strings.Split(spec, ",") {
		name, typeName, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("schema field %q: expected name:type", part)
		}
		t, err := types.ParseScalarType(typeName)
		if err != nil {
			return nil, fmt.Errorf("schema field %s: %w", name, err)
		}
		fields = append(fields, types.Field{Name: strings.TrimSpace(name), Type: t})
	}
	return types.NewSchema(fields...)
}

// readRows converts every CSV record to a row of schema
func readRows(r io.Reader, schema *types.Schema, skipHeader bool) ([]types.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = schema.Len()
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if skipHeader && len(records) > 0 {
		records = records[1:]
	}
	rows := make([]types.Row, len(records))
	for i, record := range records {
		values := make([]any, len(record))
		for j, v := range record {
			values[j] = v
		}
		if rows[i], err = schema.Conform(values); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return rows, nil
}
