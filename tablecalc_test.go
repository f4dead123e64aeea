package tablecalc

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/tablecalc/expr"
	"github.com/rulego/tablecalc/functions"
	"github.com/rulego/tablecalc/logger"
	"github.com/rulego/tablecalc/planner"
	"github.com/rulego/tablecalc/types"
)

var tuple3Types = []types.ScalarType{types.Int32, types.Int64, types.String}

// tuple3Data returns the 21 rows (Int, Long, String) used throughout these tests
func tuple3Data() [][]any {
	comments := []string{"Hi", "Hello", "Hello world", "Hello world, how are you?", "I am fine.", "Luke Skywalker"}
	longs := []int64{1, 2, 2, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 5, 6, 6, 6, 6, 6, 6}
	data := make([][]any, 0, 21)
	for i := 1; i <= 21; i++ {
		text := fmt.Sprintf("Comment#%d", i-6)
		if i <= len(comments) {
			text = comments[i-1]
		}
		data = append(data, []any{i, longs[i-1], text})
	}
	return data
}

// tuple3Expected renders tuple3Data rows for which keep returns true
func tuple3Expected(keep func(a int) bool) []string {
	var out []string
	for _, r := range tuple3Data() {
		if keep(r[0].(int)) {
			out = append(out, fmt.Sprintf("%d,%d,%s", r[0], r[1], r[2]))
		}
	}
	return out
}

func rowStrings(rows []types.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.String()
	}
	return out
}

func newEnv(opts ...Option) *Environment {
	return New(append([]Option{WithDiscardLog()}, opts...)...)
}

// environments runs every test against each backend and with parallel collection
func environments() map[string]func() *Environment {
	return map[string]func() *Environment{
		"interpreted": func() *Environment { return newEnv() },
		"compiled":    func() *Environment { return newEnv(WithBackend(BackendCompiled)) },
		"parallel":    func() *Environment { return newEnv(WithParallelism(4)) },
	}
}

func tuple3Table(t *testing.T, env *Environment, names string) *Table {
	t.Helper()
	tbl, err := env.FromRows(tuple3Types, names, tuple3Data())
	require.NoError(t, err)
	return tbl
}

func collect(t *testing.T, tbl *Table) []string {
	t.Helper()
	rows, err := tbl.Collect()
	require.NoError(t, err)
	return rowStrings(rows)
}

func TestSimpleSelectAll(t *testing.T) {
	for name, mk := range environments() {
		t.Run(name, func(t *testing.T) {
			out, err := tuple3Table(t, mk(), "a, b, c").Select("a, b, c")
			require.NoError(t, err)
			assert.Equal(t, tuple3Expected(func(int) bool { return true }), collect(t, out))
		})
	}
}

func TestSelectStar(t *testing.T) {
	for name, mk := range environments() {
		t.Run(name, func(t *testing.T) {
			out, err := tuple3Table(t, mk(), "a, b, c").Select("*")
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b", "c"}, out.Schema().Names())
			assert.Equal(t, tuple3Expected(func(int) bool { return true }), collect(t, out))
		})
	}
}

func TestSelectWithNaming(t *testing.T) {
	for name, mk := range environments() {
		t.Run(name, func(t *testing.T) {
			src := tuple3Table(t, mk(), "")
			assert.Equal(t, []string{"f0", "f1", "f2"}, src.Schema().Names())

			renamed, err := src.Select("f0 as a, f1 as b")
			require.NoError(t, err)
			out, err := renamed.Select("a, b")
			require.NoError(t, err)

			var expected []string
			for _, r := range tuple3Data() {
				expected = append(expected, fmt.Sprintf("%d,%d", r[0], r[1]))
			}
			assert.Equal(t, expected, collect(t, out))
		})
	}
}

func TestSelectInvalidFields(t *testing.T) {
	tbl := tuple3Table(t, newEnv(), "a, b, c")
	_, err := tbl.Select("a + 1, foo + 2")
	require.Error(t, err)

	var ve *planner.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, planner.UnresolvedField, ve.Kind)
	assert.Equal(t, "foo", ve.Name)
}

func TestSelectAmbiguousFieldNames(t *testing.T) {
	tbl := tuple3Table(t, newEnv(), "a, b, c")
	_, err := tbl.Select("a + 1 as foo, b + 2 as foo")
	require.Error(t, err)

	kind, ok := planner.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, planner.AmbiguousName, kind)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		predicate string
		keep      func(a int) bool
	}{
		{"false", func(int) bool { return false }},
		{"true", func(int) bool { return true }},
		{"a % 2 = 0", func(a int) bool { return a%2 == 0 }},
		{"!( a % 2 <> 0 ) ", func(a int) bool { return a%2 == 0 }},
		{"a < 2 || a > 20", func(a int) bool { return a == 1 || a == 21 }},
		{"a = 300 ", func(int) bool { return false }},
	}

	for name, mk := range environments() {
		for _, tt := range tests {
			t.Run(name+"/"+tt.predicate, func(t *testing.T) {
				out, err := tuple3Table(t, mk(), "a, b, c").Filter(tt.predicate)
				require.NoError(t, err)
				got := collect(t, out)
				if expected := tuple3Expected(tt.keep); len(expected) > 0 {
					assert.Equal(t, expected, got)
				} else {
					assert.Empty(t, got)
				}
			})
		}
	}
}

func TestFilterLargeLiteral(t *testing.T) {
	for name, mk := range environments() {
		t.Run(name, func(t *testing.T) {
			tbl, err := mk().FromRows(tuple3Types, "a, b, c", [][]any{{300, 1, "Hello"}, {44, 300, "x"}})
			require.NoError(t, err)
			out, err := tbl.Where("a = 300")
			require.NoError(t, err)
			assert.Equal(t, []string{"300,1,Hello"}, collect(t, out))
		})
	}
}

func TestLiteralArithmeticDoesNotWrap(t *testing.T) {
	for name, mk := range environments() {
		t.Run(name, func(t *testing.T) {
			tbl, err := mk().FromRows([]types.ScalarType{types.Int8, types.Int32}, "a, b", [][]any{{100, 200}})
			require.NoError(t, err)

			out, err := tbl.Select("a + 100 as x, 100 + 100 as y, 127 + 1 as z, a + a as w")
			require.NoError(t, err)
			assert.Equal(t, []types.ScalarType{types.Int32, types.Int32, types.Int32, types.Int8}, out.Schema().Types())
			assert.Equal(t, []string{"200,200,128,-56"}, collect(t, out))

			kept, err := tbl.Filter("b = 100 + 100")
			require.NoError(t, err)
			assert.Equal(t, []string{"100,200"}, collect(t, kept))
		})
	}
}

func TestFilterInvalidField(t *testing.T) {
	_, err := tuple3Table(t, newEnv(), "a, b, c").Filter("foo = 17")
	require.Error(t, err)
	kind, ok := planner.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, planner.UnresolvedField, kind)
}

func TestFilterNotBoolean(t *testing.T) {
	_, err := tuple3Table(t, newEnv(), "a, b, c").Filter("a + 1")
	kind, ok := planner.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, planner.NonBooleanFilter, kind)
}

func TestParseErrorBeforeEvaluation(t *testing.T) {
	_, err := tuple3Table(t, newEnv(), "a, b, c").Select("a +* b")
	require.Error(t, err)
	var pe *expr.ParseError
	assert.ErrorAs(t, err, &pe)
	assert.False(t, planner.IsValidationError(err))
}

// javaHashCode is s[0]*31^(n-1) + ... + s[n-1] over UTF-16 code units, wrapping at 32 bits
func javaHashCode(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(u)
	}
	return h
}

func TestUDFReRegistration(t *testing.T) {
	for name, mk := range environments() {
		t.Run(name, func(t *testing.T) {
			env := mk()
			oldHashCode := func(args []interface{}) (interface{}, error) { return int32(-1), nil }
			hashCode := func(args []interface{}) (interface{}, error) { return javaHashCode(args[0].(string)), nil }

			require.NoError(t, env.RegisterScalarFunction("hashCode", []types.ScalarType{types.String}, types.Int32, oldHashCode))
			require.NoError(t, env.RegisterScalarFunction("hashCode", []types.ScalarType{types.String}, types.Int32, hashCode))

			tbl, err := env.FromRows([]types.ScalarType{types.String}, "text", [][]any{{"a"}, {"b"}, {"c"}})
			require.NoError(t, err)
			out, err := tbl.Select("text.hashCode()")
			require.NoError(t, err)
			assert.Equal(t, []string{"97", "98", "99"}, collect(t, out))

			plain, err := tbl.Select("hashCode(text) as h")
			require.NoError(t, err)
			assert.Equal(t, []string{"97", "98", "99"}, collect(t, plain))
		})
	}
}

func TestPlanKeepsBindingAfterReRegistration(t *testing.T) {
	env := newEnv()
	require.NoError(t, env.RegisterScalarFunction("tag", []types.ScalarType{types.String}, types.String,
		func(args []interface{}) (interface{}, error) { return "first:" + args[0].(string), nil }))

	tbl, err := env.FromRows([]types.ScalarType{types.String}, "s", [][]any{{"x"}})
	require.NoError(t, err)
	before, err := tbl.Select("tag(s)")
	require.NoError(t, err)

	require.NoError(t, env.RegisterScalarFunction("tag", []types.ScalarType{types.String}, types.String,
		func(args []interface{}) (interface{}, error) { return "second:" + args[0].(string), nil }))
	after, err := tbl.Select("tag(s)")
	require.NoError(t, err)

	assert.Equal(t, []string{"first:x"}, collect(t, before))
	assert.Equal(t, []string{"second:x"}, collect(t, after))
}

func TestChainedFilterAndSelect(t *testing.T) {
	for name, mk := range environments() {
		t.Run(name, func(t *testing.T) {
			filtered, err := tuple3Table(t, mk(), "a, b, c").Filter("b = 4 && c.startsWith('Comment')")
			require.NoError(t, err)
			out, err := filtered.Select("a * 10 as x, c.upper(), b % 3")
			require.NoError(t, err)

			assert.Equal(t, []string{"x", "_c1", "_c2"}, out.Schema().Names())
			assert.Equal(t, []types.ScalarType{types.Int32, types.String, types.Int64}, out.Schema().Types())
			assert.Equal(t, []string{
				"70,COMMENT#1,1",
				"80,COMMENT#2,1",
				"90,COMMENT#3,1",
				"100,COMMENT#4,1",
			}, collect(t, out))
		})
	}
}

func TestDivisionByZeroSurfacesOnCollect(t *testing.T) {
	for name, mk := range environments() {
		t.Run(name, func(t *testing.T) {
			out, err := tuple3Table(t, mk(), "a, b, c").Select("b / (a - 5)")
			require.NoError(t, err)
			_, err = out.Collect()
			assert.ErrorIs(t, err, functions.ErrDivisionByZero)
		})
	}
}

func TestDecimalFallsBackToInterpreter(t *testing.T) {
	var buf bytes.Buffer
	env := New(WithLogger(logger.NewLogger(logger.INFO, &buf)), WithBackend(BackendCompiled))
	defer logger.SetDefault(logger.NewDiscardLogger())

	tbl, err := env.FromRows([]types.ScalarType{types.Decimal, types.String}, "price, item",
		[][]any{{"19.99", "book"}, {"5.01", "pen"}})
	require.NoError(t, err)
	out, err := tbl.Select("price * 3 as total, item")
	require.NoError(t, err)

	assert.Equal(t, []string{"59.97,book", "15.03,pen"}, collect(t, out))
	assert.Contains(t, buf.String(), "falling back to the interpreter")
}

func TestFromRowsRejectsBadInput(t *testing.T) {
	env := newEnv()
	_, err := env.FromRows(tuple3Types, "a, b", nil)
	assert.Error(t, err)
	_, err = env.FromRows(tuple3Types, "a, a, c", nil)
	assert.Error(t, err)
	_, err = env.FromRows(tuple3Types, "a, b, c", [][]any{{1, 2}})
	assert.Error(t, err)
	_, err = env.FromRows(tuple3Types, "a, b, c", [][]any{{"x", 2, "y"}})
	assert.Error(t, err)
	_, err = env.FromRows([]types.ScalarType{types.Int8}, "a", [][]any{{300}})
	assert.Error(t, err)
}

func TestExplain(t *testing.T) {
	tbl := tuple3Table(t, newEnv(), "a, b, c")
	filtered, err := tbl.Filter("a > 2")
	require.NoError(t, err)
	out, err := filtered.Select("c, a + b")
	require.NoError(t, err)

	lines := strings.Split(out.Explain(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Source(a INT32, b INT64, c STRING)", lines[0])
	assert.Equal(t, "Calc(input=[a INT32, b INT64, c STRING], select=[a, b, c], where=[(a > 2)])", lines[1])
	assert.Equal(t, "Calc(input=[a INT32, b INT64, c STRING], select=[c, (CAST(a AS INT64) + b) AS _c1])", lines[2])
	assert.Nil(t, tbl.Plan())
	assert.NotNil(t, out.Plan())
}

func TestPrint(t *testing.T) {
	tbl := tuple3Table(t, newEnv(), "a, b, c")
	out, err := tbl.Filter("a <= 2")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, out.Print(&buf))
	expected := "" +
		"+------+------+-------+\n" +
		"| a    | b    | c     |\n" +
		"+------+------+-------+\n" +
		"| 1    | 1    | Hi    |\n" +
		"| 2    | 2    | Hello |\n" +
		"+------+------+-------+\n" +
		"(2 rows)\n"
	assert.Equal(t, expected, buf.String())
}

func TestWithRegistry(t *testing.T) {
	registry := functions.NewFunctionRegistry()
	env := newEnv(WithRegistry(registry))
	assert.Same(t, registry, env.Registry())

	tbl := tuple3Table(t, env, "a, b, c")
	_, err := tbl.Select("upper(c)")
	kind, ok := planner.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, planner.UnresolvedFunction, kind)

	require.NoError(t, env.RegisterFunction(functions.NewUpperFunction()))
	out, err := tbl.Select("upper(c)")
	require.NoError(t, err)
	assert.Equal(t, "HI", collect(t, out)[0])
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendInterpreted, b)

	b, err = ParseBackend(" Compiled ")
	require.NoError(t, err)
	assert.Equal(t, BackendCompiled, b)

	_, err = ParseBackend("jit")
	assert.Error(t, err)
}
