package exprvm

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/tablecalc/functions"
	"github.com/rulego/tablecalc/operator"
	"github.com/rulego/tablecalc/planner"
	"github.com/rulego/tablecalc/types"
)

func testSchema(t *testing.T) *types.Schema {
	t.Helper()
	s, err := types.FromTypes(
		[]types.ScalarType{types.Int32, types.Int64, types.String, types.Float64, types.Int8, types.Boolean},
		"a, b, c, f, s, ok")
	require.NoError(t, err)
	return s
}

func testRows() []types.Row {
	rows := make([]types.Row, 0, 24)
	for i := int32(-3); i <= 20; i++ {
		rows = append(rows, types.Row{
			i,
			int64(i) * 1_000_000_007,
			fmt.Sprintf("row-%d", i),
			float64(i) / 4,
			int8(i * 11),
			i%3 == 0,
		})
	}
	return rows
}

func TestBackendsAgree(t *testing.T) {
	tests := []struct {
		sel    string
		filter string
	}{
		{"*", ""},
		{"a, b, c", "true"},
		{"a", "false"},
		{"", "a % 2 = 0"},
		{"", "!( a % 2 <> 0 ) "},
		{"", "a < 2 || a > 17"},
		{"a + 1 as x, b * 2 as y, a - b", ""},
		{"a / 2, a % 3, -a, b % -7, 7 % a", "a <> 0"},
		{"s + s, s * 3, -s", ""},
		{"f * 2, f / 3, f % 0.75, a + f, -f", ""},
		{"c + a, c + f, c + ok, 'x' + c", ""},
		{"a > b, a <= 3, f = 1.25, c = 'row-1', ok = true, ok <> (a > 0)", ""},
		{"upper(c), c.length(), abs(a), mod(a, 4), concat(c, a, f)", ""},
		{"round(f, 1), power(f, 2), sqrt(abs(f)), substring(c, 2, 3)", "f >= 0"},
		{"md5(c), c.sha1(), tostring(b)", "ok && a > 0"},
		{"a", "startsWith(c, 'row-1') || -a = 3"},
		{"b - 1000000007 * a", ""},
		{"a * 2147483647, s * 127, s + s", ""},
		{"100 + 100, 127 + 1, -(-128), s - 200", ""},
	}

	for _, tt := range tests {
		t.Run(tt.sel+" where "+tt.filter, func(t *testing.T) {
			plan, err := planner.Compile(testSchema(t), functions.NewBuiltinRegistry(), tt.sel, tt.filter)
			require.NoError(t, err)

			program, err := Compile(plan)
			require.NoError(t, err)

			expected, err := operator.Run(operator.NewCalcOp(plan), testRows())
			require.NoError(t, err)
			got, err := operator.Run(program, testRows())
			require.NoError(t, err)
			assert.Equal(t, expected, got, "%v", program.Sources())
		})
	}
}

func TestOutputKeepsDeclaredWidths(t *testing.T) {
	plan, err := planner.Compile(testSchema(t), functions.NewBuiltinRegistry(), "a + 1, s + 1, s + s, b, c.length(), f", "")
	require.NoError(t, err)
	program, err := Compile(plan)
	require.NoError(t, err)

	out, ok, err := program.Evaluate(types.Row{int32(1), int64(2), "abc", 0.5, int8(127), true})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.Row{int32(2), int32(128), int8(-2), int64(2), int32(3), 0.5}, out)
}

func TestDivisionByZeroKeepsError(t *testing.T) {
	for _, sel := range []string{"b / (a - a)", "a % 0", "mod(b, a - a)"} {
		t.Run(sel, func(t *testing.T) {
			plan, err := planner.Compile(testSchema(t), functions.NewBuiltinRegistry(), sel, "")
			require.NoError(t, err)
			program, err := Compile(plan)
			require.NoError(t, err)

			_, _, err = program.Evaluate(testRows()[0])
			require.Error(t, err)
			assert.ErrorIs(t, err, functions.ErrDivisionByZero)
		})
	}
}

func TestFloatDivisionByZero(t *testing.T) {
	plan, err := planner.Compile(testSchema(t), functions.NewBuiltinRegistry(), "f / 0.0", "")
	require.NoError(t, err)
	program, err := Compile(plan)
	require.NoError(t, err)

	out, ok, err := program.Evaluate(testRows()[10])
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, math.IsInf(out[0].(float64), 1))
}

func TestDecimalUnsupported(t *testing.T) {
	schema, err := types.FromTypes([]types.ScalarType{types.Decimal, types.Int32}, "d, n")
	require.NoError(t, err)

	for _, tt := range []struct{ sel, filter string }{
		{"d", ""},
		{"n", "d > 1"},
		{"n + 1", ""},
	} {
		plan, err := planner.Compile(schema, functions.NewBuiltinRegistry(), tt.sel, tt.filter)
		require.NoError(t, err)
		_, err = Compile(plan)
		if tt.sel == "n + 1" {
			assert.NoError(t, err)
			continue
		}
		assert.ErrorIs(t, err, ErrUnsupported)
	}
}

func TestBoundFunctionCapturedAtResolution(t *testing.T) {
	registry := functions.NewFunctionRegistry()
	register := func(result int32) {
		require.NoError(t, registry.Register(functions.NewScalarFunction("hashCode",
			[]types.ScalarType{types.String}, types.Int32,
			func(args []interface{}) (interface{}, error) {
				s := args[0].(string)
				return result + int32(len(s)), nil
			})))
	}

	register(-100)
	schema := testSchema(t)
	plan, err := planner.Compile(schema, registry, "c.hashCode()", "")
	require.NoError(t, err)
	register(100)

	program, err := Compile(plan)
	require.NoError(t, err)
	out, _, err := program.Evaluate(testRows()[3])
	require.NoError(t, err)
	assert.Equal(t, int32(-95), out[0])
}

func TestProgramParallel(t *testing.T) {
	plan, err := planner.Compile(testSchema(t), functions.NewBuiltinRegistry(), "a * 3, upper(c)", "a % 2 = 1")
	require.NoError(t, err)
	program, err := Compile(plan)
	require.NoError(t, err)

	expected, err := operator.Run(program, testRows())
	require.NoError(t, err)
	got, err := operator.RunParallel(context.Background(), program, testRows(), 5)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
	assert.Same(t, plan, program.Plan())
	assert.Len(t, program.Sources(), 3)
}
