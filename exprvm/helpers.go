package exprvm

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/rulego/tablecalc/functions"
	"github.com/rulego/tablecalc/planner"
	"github.com/rulego/tablecalc/types"
)

// evalState collects the first helper error of one evaluation so the caller
// sees the original error value rather than the VM's wrapped message.
type evalState struct {
	err error
}

func (s *evalState) fail(err error) (any, error) {
	if s.err == nil {
		s.err = err
	}
	return nil, err
}

// env is the expr-lang environment of one evaluation
type env struct {
	Row    []any
	Consts []any
	State  *evalState
}

// normalize maps every integer width to int, the integer kind expr-lang computes in
func normalize(v any) any {
	if i, ok := types.IntValue(v); ok {
		return int(i)
	}
	return v
}

func stateArg(params []any) *evalState {
	if s, ok := params[0].(*evalState); ok {
		return s
	}
	return &evalState{}
}

func intArg(v any) int64 {
	i, _ := types.IntValue(v)
	return i
}

func floatArg(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	default:
		return 0
	}
}

// helperOptions are the functions every translated program may call
func helperOptions() []expr.Option {
	narrow := func(t types.ScalarType) func(params ...any) (any, error) {
		return func(params ...any) (any, error) {
			return normalize(types.NarrowInt(intArg(params[0]), t)), nil
		}
	}
	return []expr.Option{
		expr.Function("calcI8", narrow(types.Int8)),
		expr.Function("calcI16", narrow(types.Int16)),
		expr.Function("calcI32", narrow(types.Int32)),
		expr.Function("calcFloat", func(params ...any) (any, error) {
			return floatArg(params[0]), nil
		}),
		expr.Function("calcIdiv", func(params ...any) (any, error) {
			b := intArg(params[2])
			if b == 0 {
				return stateArg(params).fail(functions.ErrDivisionByZero)
			}
			return int(intArg(params[1]) / b), nil
		}),
		expr.Function("calcImod", func(params ...any) (any, error) {
			r, err := functions.FloorMod(intArg(params[1]), intArg(params[2]))
			if err != nil {
				return stateArg(params).fail(err)
			}
			return int(r), nil
		}),
		expr.Function("calcFmod", func(params ...any) (any, error) {
			return functions.FloorModFloat(floatArg(params[0]), floatArg(params[1])), nil
		}),
		expr.Function("calcConcat", func(params ...any) (any, error) {
			return types.FormatValue(params[0]) + types.FormatValue(params[1]), nil
		}),
		// both operands are already evaluated when a helper is called
		expr.Function("calcAnd", func(params ...any) (any, error) {
			l, _ := params[0].(bool)
			r, _ := params[1].(bool)
			return l && r, nil
		}),
		expr.Function("calcOr", func(params ...any) (any, error) {
			l, _ := params[0].(bool)
			r, _ := params[1].(bool)
			return l || r, nil
		}),
	}
}

// callHelper wraps a bound function. Arguments are converted back to their
// declared widths so the function sees the same values as in the interpreter.
func callHelper(call *planner.Call) func(params ...any) (any, error) {
	fn := call.Function
	argTypes := make([]types.ScalarType, len(call.Args))
	for i, a := range call.Args {
		argTypes[i] = a.Type()
	}
	return func(params ...any) (any, error) {
		state := stateArg(params)
		args := make([]interface{}, len(params)-1)
		for i, p := range params[1:] {
			v, err := types.Coerce(p, argTypes[i])
			if err != nil {
				return state.fail(err)
			}
			args[i] = v
		}
		result, err := fn.Execute(args)
		if err != nil {
			return state.fail(fmt.Errorf("function %s: %w", call.Name, err))
		}
		if result == nil {
			return state.fail(fmt.Errorf("function %s returned nil", call.Name))
		}
		v, err := types.Coerce(result, call.ResultType)
		if err != nil {
			return state.fail(err)
		}
		return normalize(v), nil
	}
}
