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

// Package exprvm compiles a CalcPlan to expr-lang bytecode. Integers are
// carried as int inside the VM and converted back to their declared widths
// on output, so a Program yields the same rows as operator.CalcOp.
package exprvm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	tcexpr "github.com/rulego/tablecalc/expr"
	"github.com/rulego/tablecalc/logger"
	"github.com/rulego/tablecalc/planner"
	"github.com/rulego/tablecalc/types"
)

// ErrUnsupported is returned by Compile for plans the VM cannot evaluate
// exactly, currently any plan touching DECIMAL values.
var ErrUnsupported = errors.New("plan not supported by the expr-lang backend")

// Program is a compiled CalcPlan, safe for concurrent use
type Program struct {
	plan        *planner.CalcPlan
	consts      []any
	filter      *vm.Program
	projections []*vm.Program
	outTypes    []types.ScalarType
	sources     []string
}

// Compile translates every projection and the filter of plan to expr-lang
// source and compiles it
func Compile(plan *planner.CalcPlan) (*Program, error) {
	if err := checkSupported(plan); err != nil {
		return nil, err
	}

	t := &translator{}
	opts := append([]expr.Option{expr.Env(env{})}, helperOptions()...)

	var filterSrc string
	projSrc := make([]string, 0, len(plan.Projections()))
	if plan.HasFilter() {
		// comparing with true gives the checker a static BOOLEAN result
		filterSrc = "(" + t.translate(plan.Filter()) + ") == true"
	}
	for _, proj := range plan.Projections() {
		projSrc = append(projSrc, t.translate(proj.Expr))
	}
	for i, call := range t.calls {
		opts = append(opts, expr.Function(callName(i), callHelper(call)))
	}

	p := &Program{plan: plan, consts: t.consts}
	if filterSrc != "" {
		program, err := expr.Compile(filterSrc, append(opts, expr.AsBool())...)
		if err != nil {
			return nil, fmt.Errorf("compile filter %q: %w", filterSrc, err)
		}
		p.filter = program
		p.sources = append(p.sources, "where "+filterSrc)
	}
	for i, src := range projSrc {
		program, err := expr.Compile(src, opts...)
		if err != nil {
			return nil, fmt.Errorf("compile projection %q: %w", src, err)
		}
		p.projections = append(p.projections, program)
		p.outTypes = append(p.outTypes, plan.OutputSchema().Field(i).Type)
		p.sources = append(p.sources, src)
	}
	logger.Debug("compiled %s to %d expr programs", plan.Explain(), len(p.sources))
	return p, nil
}

// Plan returns the plan the program was compiled from
func (p *Program) Plan() *planner.CalcPlan {
	return p.plan
}

// Sources returns the generated expr-lang sources, the filter first
func (p *Program) Sources() []string {
	out := make([]string, len(p.sources))
	copy(out, p.sources)
	return out
}

// Evaluate runs the filter and projections on one row
func (p *Program) Evaluate(row types.Row) (types.Row, bool, error) {
	if len(row) != p.plan.InputSchema().Len() {
		return nil, false, fmt.Errorf("row has %d values, input schema %s expects %d",
			len(row), p.plan.InputSchema(), p.plan.InputSchema().Len())
	}
	values := make([]any, len(row))
	for i, v := range row {
		values[i] = normalize(v)
	}
	e := env{Row: values, Consts: p.consts, State: &evalState{}}

	if p.filter != nil {
		v, err := expr.Run(p.filter, e)
		if err != nil {
			return nil, false, e.State.wrap(err)
		}
		if keep, _ := v.(bool); !keep {
			return nil, false, nil
		}
	}

	out := make(types.Row, len(p.projections))
	for i, program := range p.projections {
		v, err := expr.Run(program, e)
		if err != nil {
			return nil, false, fmt.Errorf("column %s: %w", p.plan.OutputSchema().Field(i).Name, e.State.wrap(err))
		}
		if out[i], err = types.Coerce(v, p.outTypes[i]); err != nil {
			return nil, false, err
		}
	}
	return out, true, nil
}

func (s *evalState) wrap(err error) error {
	if s.err != nil {
		return s.err
	}
	return err
}

func checkSupported(plan *planner.CalcPlan) error {
	var unsupported error
	check := func(n planner.Resolved) bool {
		if unsupported != nil {
			return false
		}
		if n.Type() == types.Decimal {
			unsupported = fmt.Errorf("%w: %s has type %s", ErrUnsupported, n, n.Type())
			return false
		}
		return true
	}
	for _, proj := range plan.Projections() {
		planner.Walk(proj.Expr, check)
	}
	planner.Walk(plan.Filter(), check)
	return unsupported
}

func callName(i int) string {
	return "calcFn" + strconv.Itoa(i)
}

// translator renders resolved trees as expr-lang source. Constants other than
// booleans and small integers are passed through Consts.
type translator struct {
	consts []any
	calls  []*planner.Call
}

func (t *translator) translate(n planner.Resolved) string {
	switch node := n.(type) {
	case *planner.Constant:
		return t.constant(node)
	case *planner.FieldAccess:
		return "Row[" + strconv.Itoa(node.Index) + "]"
	case *planner.Cast:
		inner := t.translate(node.Operand)
		if node.To == types.Float64 && node.Operand.Type().IsInteger() {
			return "calcFloat(" + inner + ")"
		}
		// integer widening keeps the int value unchanged
		return inner
	case *planner.Unary:
		inner := t.translate(node.Operand)
		if node.Op == tcexpr.OpNot {
			return "!(" + inner + ")"
		}
		return narrow("-("+inner+")", node.ResultType)
	case *planner.Binary:
		return t.binary(node)
	case *planner.Call:
		args := make([]string, 0, len(node.Args)+1)
		args = append(args, "State")
		for _, a := range node.Args {
			args = append(args, t.translate(a))
		}
		t.calls = append(t.calls, node)
		return callName(len(t.calls)-1) + "(" + strings.Join(args, ", ") + ")"
	}
	return "nil"
}

func (t *translator) constant(c *planner.Constant) string {
	if v, ok := c.Value.(bool); ok {
		return strconv.FormatBool(v)
	}
	if i, ok := types.IntValue(c.Value); ok && i >= 0 {
		return strconv.FormatInt(i, 10)
	}
	t.consts = append(t.consts, normalize(c.Value))
	return "Consts[" + strconv.Itoa(len(t.consts)-1) + "]"
}

func (t *translator) binary(b *planner.Binary) string {
	l, r := t.translate(b.Left), t.translate(b.Right)
	switch {
	case b.Op == tcexpr.OpAnd:
		return "calcAnd(" + l + ", " + r + ")"
	case b.Op == tcexpr.OpOr:
		return "calcOr(" + l + ", " + r + ")"
	case b.Op.IsComparison():
		op := string(b.Op)
		switch b.Op {
		case tcexpr.OpEQ:
			op = "=="
		case tcexpr.OpNE:
			op = "!="
		}
		return "(" + l + " " + op + " " + r + ")"
	case b.ResultType == types.String:
		return "calcConcat(" + l + ", " + r + ")"
	case b.ResultType == types.Float64:
		if b.Op == tcexpr.OpMod {
			return "calcFmod(" + l + ", " + r + ")"
		}
		return "(" + l + " " + string(b.Op) + " " + r + ")"
	}

	// integer arithmetic
	switch b.Op {
	case tcexpr.OpDiv:
		return narrow("calcIdiv(State, "+l+", "+r+")", b.ResultType)
	case tcexpr.OpMod:
		return narrow("calcImod(State, "+l+", "+r+")", b.ResultType)
	default:
		return narrow("("+l+" "+string(b.Op)+" "+r+")", b.ResultType)
	}
}

// narrow wraps integer results of widths below INT64
func narrow(src string, t types.ScalarType) string {
	switch t {
	case types.Int8:
		return "calcI8(" + src + ")"
	case types.Int16:
		return "calcI16(" + src + ")"
	case types.Int32:
		return "calcI32(" + src + ")"
	default:
		return src
	}
}
