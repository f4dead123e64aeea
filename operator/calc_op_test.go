package operator

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/tablecalc/functions"
	"github.com/rulego/tablecalc/planner"
	"github.com/rulego/tablecalc/types"
)

var comments = []string{
	"Hi", "Hello", "Hello world", "Hello world, how are you?", "I am fine.", "Luke Skywalker",
}

// tuple3Rows returns 21 rows (a INT32, b INT64, c STRING)
func tuple3Rows() []types.Row {
	rows := make([]types.Row, 0, 21)
	b := int64(1)
	next := int32(2)
	for a := int32(1); a <= 21; a++ {
		if a == next {
			b++
			next += int32(b)
		}
		var c string
		if int(a) <= len(comments) {
			c = comments[a-1]
		} else {
			c = fmt.Sprintf("Comment#%d", a-6)
		}
		rows = append(rows, types.Row{a, b, c})
	}
	return rows
}

func tuple3Schema(t *testing.T) *types.Schema {
	t.Helper()
	s, err := types.FromTypes([]types.ScalarType{types.Int32, types.Int64, types.String}, "a, b, c")
	require.NoError(t, err)
	return s
}

func compile(t *testing.T, schema *types.Schema, sel, filter string) *CalcOp {
	t.Helper()
	plan, err := planner.Compile(schema, functions.NewBuiltinRegistry(), sel, filter)
	require.NoError(t, err)
	return NewCalcOp(plan)
}

func TestTuple3Rows(t *testing.T) {
	rows := tuple3Rows()
	require.Len(t, rows, 21)
	assert.Equal(t, types.Row{int32(1), int64(1), "Hi"}, rows[0])
	assert.Equal(t, types.Row{int32(4), int64(3), "Hello world, how are you?"}, rows[3])
	assert.Equal(t, types.Row{int32(7), int64(4), "Comment#1"}, rows[6])
	assert.Equal(t, types.Row{int32(11), int64(5), "Comment#5"}, rows[10])
	assert.Equal(t, types.Row{int32(21), int64(6), "Comment#15"}, rows[20])
}

func TestFilterProperties(t *testing.T) {
	rows := tuple3Rows()
	even := func() []types.Row {
		var out []types.Row
		for _, r := range rows {
			if r[0].(int32)%2 == 0 {
				out = append(out, r)
			}
		}
		return out
	}()

	tests := []struct {
		filter   string
		expected []types.Row
	}{
		{"true", rows},
		{"false", []types.Row{}},
		{"a % 2 = 0", even},
		{"!( a % 2 <> 0 ) ", even},
		{"a < 2 || a > 20", []types.Row{rows[0], rows[20]}},
		{"a = 300 ", []types.Row{}},
		{"a <= 1 && b == 1", []types.Row{rows[0]}},
		{"c = 'Hi' || c = \"Hello\"", []types.Row{rows[0], rows[1]}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			op := compile(t, tuple3Schema(t), "", tt.filter)
			out, err := Run(op, rows)
			require.NoError(t, err)
			if len(tt.expected) == 0 {
				assert.Empty(t, out)
				return
			}
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestFilterLargeLiteral(t *testing.T) {
	op := compile(t, tuple3Schema(t), "", "a = 300")
	row := types.Row{int32(300), int64(1), "x"}
	out, ok, err := op.Evaluate(row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, row, out)
}

func TestProjectionValues(t *testing.T) {
	row := types.Row{int32(-7), int64(3), "Hi"}
	tests := []struct {
		sel      string
		expected any
	}{
		{"a % 3", int32(2)},
		{"7 % -3", int32(-2)},
		{"100 + 100", int32(200)},
		{"-(-128)", int32(128)},
		{"a % b", int64(2)},
		{"a / 2", int32(-3)},
		{"a + b", int64(-4)},
		{"a * 1.5", -10.5},
		{"-a", int32(7)},
		{"-(b * 2)", int64(-6)},
		{"c + a", "Hi-7"},
		{"c + true", "Hitrue"},
		{"a > b", false},
		{"upper(c)", "HI"},
		{"c.length()", int32(2)},
		{"mod(a, 3)", int32(2)},
		{"abs(a)", int32(7)},
		{"concat(c, '-', b)", "Hi-3"},
		{"round(2.567, 2)", 2.57},
		{"c.substring(1, 1)", "H"},
	}

	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			op := compile(t, tuple3Schema(t), tt.sel, "")
			out, ok, err := op.Evaluate(row)
			require.NoError(t, err)
			require.True(t, ok)
			require.Len(t, out, 1)
			assert.Equal(t, tt.expected, out[0])
		})
	}
}

func TestIntegerWidthWraps(t *testing.T) {
	schema, err := types.FromTypes([]types.ScalarType{types.Int8, types.Int8, types.Int64}, "x, z, y")
	require.NoError(t, err)

	// field arithmetic stays in the field width, literals count as INT32
	op := compile(t, schema, "x + z, x + 1, y / -1", "")
	out, ok, err := op.Evaluate(types.Row{int8(127), int8(1), int64(math.MinInt64)})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int8(-128), out[0])
	assert.Equal(t, int32(128), out[1])
	assert.Equal(t, int64(math.MinInt64), out[2])
}

func TestDivisionByZero(t *testing.T) {
	schema := tuple3Schema(t)
	for _, sel := range []string{"a / 0", "a % (b - b)", "mod(a, 0)"} {
		t.Run(sel, func(t *testing.T) {
			op := compile(t, schema, sel, "")
			_, _, err := op.Evaluate(types.Row{int32(1), int64(1), "x"})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDivisionByZero)
		})
	}

	op := compile(t, schema, "a / 0.0", "")
	out, ok, err := op.Evaluate(types.Row{int32(1), int64(1), "x"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, math.IsInf(out[0].(float64), 1))
}

func TestDecimalArithmetic(t *testing.T) {
	schema, err := types.FromTypes([]types.ScalarType{types.Decimal, types.Int32}, "d, n")
	require.NoError(t, err)
	row, err := schema.Conform([]any{"1.10", 4})
	require.NoError(t, err)

	op := compile(t, schema, "d * n, d + 1, d % 0.25, d > 1, -d", "")
	out, ok, err := op.Evaluate(row)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, decimal.RequireFromString("4.4").Equal(out[0].(decimal.Decimal)))
	assert.True(t, decimal.RequireFromString("2.1").Equal(out[1].(decimal.Decimal)))
	assert.InDelta(t, 0.1, out[2].(float64), 1e-9)
	assert.Equal(t, true, out[3])
	assert.True(t, decimal.RequireFromString("-1.1").Equal(out[4].(decimal.Decimal)))

	zero := compile(t, schema, "d / (n - n)", "")
	_, _, err = zero.Evaluate(row)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestEvaluateRejectsWrongArity(t *testing.T) {
	op := compile(t, tuple3Schema(t), "a", "")
	_, _, err := op.Evaluate(types.Row{int32(1)})
	assert.Error(t, err)
}

func TestRunParallelMatchesRun(t *testing.T) {
	rows := tuple3Rows()
	op := compile(t, tuple3Schema(t), "a * 2 as x, c.upper() as u", "a % 3 <> 1")

	expected, err := Run(op, rows)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 2, 3, 8, 64} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			got, err := RunParallel(context.Background(), op, rows, workers)
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		})
	}
}

func TestRunParallelStopsOnError(t *testing.T) {
	rows := tuple3Rows()
	op := compile(t, tuple3Schema(t), "b / (a - 10)", "")

	_, err := Run(op, rows)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = RunParallel(context.Background(), op, rows, 4)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestRunParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunParallel(ctx, compile(t, tuple3Schema(t), "", ""), tuple3Rows(), 4)
	assert.ErrorIs(t, err, context.Canceled)
}
