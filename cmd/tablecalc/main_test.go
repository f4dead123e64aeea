package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/tablecalc/logger"
	"github.com/rulego/tablecalc/types"
)

const sample = "1,1,Hi\n2,2,Hello\n3,2,Hello world\n"

func quietConfig(t *testing.T) string {
	t.Helper()
	original := logger.GetDefault()
	t.Cleanup(func() { logger.SetDefault(original) })
	path := filepath.Join(t.TempDir(), "tablecalc.toml")
	require.NoError(t, os.WriteFile(path, []byte("log_level = \"off\"\n"), 0o644))
	return path
}

func TestParseSchema(t *testing.T) {
	schema, err := parseSchema("a:int, b:bigint ,c:string")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, schema.Names())
	assert.Equal(t, []types.ScalarType{types.Int32, types.Int64, types.String}, schema.Types())

	for _, spec := range []string{"a", "a:uuid", "a:int,a:int", "a:any"} {
		_, err := parseSchema(spec)
		assert.Error(t, err, spec)
	}
}

func TestReadRows(t *testing.T) {
	schema, err := parseSchema("a:int,b:bigint,c:string")
	require.NoError(t, err)

	rows, err := readRows(strings.NewReader("a,b,c\n"+sample), schema, true)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, types.Row{int32(3), int64(2), "Hello world"}, rows[2])

	rows, err = readRows(strings.NewReader("010,08,Zero\n"), schema, false)
	require.NoError(t, err)
	assert.Equal(t, types.Row{int32(10), int64(8), "Zero"}, rows[0])

	_, err = readRows(strings.NewReader("x,1,Hi\n"), schema, false)
	assert.Error(t, err)
	_, err = readRows(strings.NewReader("1,1\n"), schema, false)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	cfg := quietConfig(t)
	var stdout, stderr bytes.Buffer
	err := run([]string{
		"-config", cfg,
		"-schema", "a:int,b:bigint,c:string",
		"-filter", "a > 1",
		"-select", "a, b * 2 AS d",
	}, strings.NewReader(sample), &stdout, &stderr)
	require.NoError(t, err)

	expected := "" +
		"+------+------+\n" +
		"| a    | d    |\n" +
		"+------+------+\n" +
		"| 2    | 4    |\n" +
		"| 3    | 4    |\n" +
		"+------+------+\n" +
		"(2 rows)\n"
	assert.Equal(t, expected, stdout.String())
}

func TestRunExplain(t *testing.T) {
	cfg := quietConfig(t)
	var stdout, stderr bytes.Buffer
	err := run([]string{"-config", cfg, "-schema", "a:int,c:string", "-select", "upper(c)", "-explain"},
		strings.NewReader("1,x\n"), &stdout, &stderr)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Source(a INT32, c STRING)", lines[0])
	assert.Contains(t, lines[1], "upper(c) AS _c0")
}

func TestRunErrors(t *testing.T) {
	cfg := quietConfig(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing schema", []string{"-config", cfg}},
		{"unknown field", []string{"-config", cfg, "-schema", "a:int", "-select", "b"}},
		{"non boolean filter", []string{"-config", cfg, "-schema", "a:int", "-filter", "a + 1"}},
		{"missing input", []string{"-config", cfg, "-schema", "a:int", filepath.Join(t.TempDir(), "none.csv")}},
		{"missing config", []string{"-config", filepath.Join(t.TempDir(), "none.toml"), "-schema", "a:int"}},
		{"bad flag", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tt.args, strings.NewReader("1\n"), &stdout, &stderr)
			assert.Error(t, err)
			assert.Empty(t, stdout.String())
		})
	}
}
