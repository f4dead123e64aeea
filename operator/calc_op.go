/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package operator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rulego/tablecalc/expr"
	"github.com/rulego/tablecalc/functions"
	"github.com/rulego/tablecalc/planner"
	"github.com/rulego/tablecalc/types"
)

// CalcOp interprets a CalcPlan by walking its resolved trees
type CalcOp struct {
	plan *planner.CalcPlan
}

func NewCalcOp(plan *planner.CalcPlan) *CalcOp {
	return &CalcOp{plan: plan}
}

func (o *CalcOp) Plan() *planner.CalcPlan {
	return o.plan
}

// Evaluate 过滤并计算投影
func (o *CalcOp) Evaluate(row types.Row) (types.Row, bool, error) {
	if len(row) != o.plan.InputSchema().Len() {
		return nil, false, fmt.Errorf("row has %d values, input schema %s expects %d",
			len(row), o.plan.InputSchema(), o.plan.InputSchema().Len())
	}
	if o.plan.HasFilter() {
		v, err := Eval(o.plan.Filter(), row)
		if err != nil {
			return nil, false, err
		}
		if !AsBool(v) {
			return nil, false, nil
		}
	}
	projections := o.plan.Projections()
	out := make(types.Row, len(projections))
	for i, proj := range projections {
		v, err := Eval(proj.Expr, row)
		if err != nil {
			return nil, false, fmt.Errorf("column %s: %w", proj.Name, err)
		}
		out[i] = v
	}
	return out, true, nil
}

// Eval computes one resolved expression against row
func Eval(n planner.Resolved, row types.Row) (any, error) {
	switch node := n.(type) {
	case *planner.Constant:
		return node.Value, nil
	case *planner.FieldAccess:
		return row[node.Index], nil
	case *planner.Cast:
		v, err := Eval(node.Operand, row)
		if err != nil {
			return nil, err
		}
		return types.Coerce(v, node.To)
	case *planner.Unary:
		return evalUnary(node, row)
	case *planner.Binary:
		return evalBinary(node, row)
	case *planner.Call:
		return evalCall(node, row)
	default:
		return nil, fmt.Errorf("unsupported node %T", n)
	}
}

func evalUnary(node *planner.Unary, row types.Row) (any, error) {
	v, err := Eval(node.Operand, row)
	if err != nil {
		return nil, err
	}
	if node.Op == expr.OpNot {
		return !AsBool(v), nil
	}
	switch x := v.(type) {
	case float64:
		return -x, nil
	case decimal.Decimal:
		return x.Neg(), nil
	}
	i, ok := types.IntValue(v)
	if !ok {
		return nil, fmt.Errorf("cannot negate %T", v)
	}
	return types.NarrowInt(-i, node.ResultType), nil
}

func evalBinary(node *planner.Binary, row types.Row) (any, error) {
	l, err := Eval(node.Left, row)
	if err != nil {
		return nil, err
	}
	r, err := Eval(node.Right, row)
	if err != nil {
		return nil, err
	}

	switch {
	case node.Op == expr.OpAnd:
		return AsBool(l) && AsBool(r), nil
	case node.Op == expr.OpOr:
		return AsBool(l) || AsBool(r), nil
	case node.Op.IsComparison():
		return compare(node.Op, l, r, node.Left.Type())
	case node.ResultType == types.String:
		return types.FormatValue(l) + types.FormatValue(r), nil
	}

	switch {
	case node.ResultType.IsInteger():
		a, _ := types.IntValue(l)
		b, _ := types.IntValue(r)
		v, err := arithInt(node.Op, a, b)
		if err != nil {
			return nil, err
		}
		return types.NarrowInt(v, node.ResultType), nil
	case node.ResultType == types.Decimal:
		a, err := types.ToDecimal(l)
		if err != nil {
			return nil, err
		}
		b, err := types.ToDecimal(r)
		if err != nil {
			return nil, err
		}
		return arithDecimal(node.Op, a, b)
	case node.ResultType == types.Float64:
		a, _ := l.(float64)
		b, _ := r.(float64)
		return arithFloat(node.Op, a, b), nil
	}
	return nil, fmt.Errorf("operator %s not defined for %s", node.Op, node.ResultType)
}

func arithInt(op expr.Operator, a, b int64) (int64, error) {
	switch op {
	case expr.OpAdd:
		return a + b, nil
	case expr.OpSub:
		return a - b, nil
	case expr.OpMul:
		return a * b, nil
	case expr.OpDiv:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	case expr.OpMod:
		return functions.FloorMod(a, b)
	}
	return 0, fmt.Errorf("unknown arithmetic operator %s", op)
}

func arithDecimal(op expr.Operator, a, b decimal.Decimal) (decimal.Decimal, error) {
	switch op {
	case expr.OpAdd:
		return a.Add(b), nil
	case expr.OpSub:
		return a.Sub(b), nil
	case expr.OpMul:
		return a.Mul(b), nil
	case expr.OpDiv:
		if b.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}
		return a.Div(b), nil
	case expr.OpMod:
		return functions.FloorModDecimal(a, b)
	}
	return decimal.Zero, fmt.Errorf("unknown arithmetic operator %s", op)
}

func arithFloat(op expr.Operator, a, b float64) float64 {
	switch op {
	case expr.OpAdd:
		return a + b
	case expr.OpSub:
		return a - b
	case expr.OpMul:
		return a * b
	case expr.OpDiv:
		return a / b
	default:
		return functions.FloorModFloat(a, b)
	}
}

// compare applies a comparison to operands that share type t
func compare(op expr.Operator, l, r any, t types.ScalarType) (bool, error) {
	var c int
	switch {
	case t.IsInteger():
		a, _ := types.IntValue(l)
		b, _ := types.IntValue(r)
		c = cmpOrdered(a, b)
	case t == types.Float64:
		a, _ := l.(float64)
		b, _ := r.(float64)
		if math.IsNaN(a) || math.IsNaN(b) {
			// NaN is unordered: only <> holds
			return op == expr.OpNE, nil
		}
		c = cmpOrdered(a, b)
	case t == types.Decimal:
		a, err := types.ToDecimal(l)
		if err != nil {
			return false, err
		}
		b, err := types.ToDecimal(r)
		if err != nil {
			return false, err
		}
		c = a.Cmp(b)
	case t == types.String:
		a, _ := l.(string)
		b, _ := r.(string)
		c = cmpOrdered(a, b)
	case t == types.Boolean:
		if AsBool(l) == AsBool(r) {
			c = 0
		} else {
			c = 1
		}
	default:
		return false, fmt.Errorf("cannot compare values of type %s", t)
	}

	switch op {
	case expr.OpEQ:
		return c == 0, nil
	case expr.OpNE:
		return c != 0, nil
	case expr.OpLT:
		return c < 0, nil
	case expr.OpLE:
		return c <= 0, nil
	case expr.OpGT:
		return c > 0, nil
	case expr.OpGE:
		return c >= 0, nil
	}
	return false, fmt.Errorf("unknown comparison operator %s", op)
}

func cmpOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func evalCall(node *planner.Call, row types.Row) (any, error) {
	args := make([]interface{}, len(node.Args))
	for i, a := range node.Args {
		v, err := Eval(a, row)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	result, err := node.Function.Execute(args)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", node.Name, err)
	}
	if result == nil {
		return nil, fmt.Errorf("function %s returned nil", node.Name)
	}
	return types.Coerce(result, node.ResultType)
}
