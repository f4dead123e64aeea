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

package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rulego/tablecalc/expr"
	"github.com/rulego/tablecalc/functions"
	"github.com/rulego/tablecalc/logger"
	"github.com/rulego/tablecalc/types"
)

// Resolver binds parsed expressions to a schema and a function registry
type Resolver struct {
	schema   *types.Schema
	registry *functions.FunctionRegistry
	log      logger.Logger
}

// NewResolver 创建解析器; a nil log uses the process default logger
func NewResolver(schema *types.Schema, registry *functions.FunctionRegistry, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Resolver{schema: schema, registry: registry, log: log}
}

// Compile parses and resolves selectText and filterText against schema.
// An empty selectText keeps every input field; an empty filterText means no filter.
func Compile(schema *types.Schema, registry *functions.FunctionRegistry, selectText, filterText string) (*CalcPlan, error) {
	var items []expr.Expression
	if strings.TrimSpace(selectText) != "" {
		parsed, err := expr.ParseProjectionList(selectText)
		if err != nil {
			return nil, err
		}
		items = parsed
	}
	var filter expr.Expression
	if strings.TrimSpace(filterText) != "" {
		parsed, err := expr.ParsePredicate(filterText)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}
	return NewResolver(schema, registry, nil).Resolve(items, filter)
}

// Resolve builds a CalcPlan. Items are resolved in order, star items expand
// to every input field, then output names are checked for uniqueness and
// finally the filter is resolved and required to be BOOLEAN. A nil or empty
// item list produces identity projections.
func (r *Resolver) Resolve(items []expr.Expression, filter expr.Expression) (*CalcPlan, error) {
	if r.schema == nil {
		return nil, errors.New("resolver has no input schema")
	}
	if r.registry == nil {
		return nil, errors.New("resolver has no function registry")
	}

	var projections []Projection
	if len(items) == 0 {
		projections = r.identity()
	} else {
		for _, item := range items {
			resolved, err := r.resolveItem(item, len(projections))
			if err != nil {
				return nil, err
			}
			projections = append(projections, resolved...)
		}
	}

	seen := make(map[string]bool, len(projections))
	outFields := make([]types.Field, len(projections))
	for i, proj := range projections {
		if seen[proj.Name] {
			return nil, newValidationError(AmbiguousName, proj.Name, "ambiguous output name '%s'", proj.Name)
		}
		seen[proj.Name] = true
		outFields[i] = types.Field{Name: proj.Name, Type: proj.Expr.Type()}
	}
	output, err := types.NewSchema(outFields...)
	if err != nil {
		return nil, err
	}

	plan := &CalcPlan{input: r.schema, output: output, projections: projections}
	if filter != nil {
		if err := r.checkFields(filter); err != nil {
			return nil, err
		}
		pred, err := r.resolveExpr(filter)
		if err != nil {
			return nil, err
		}
		if pred.Type() != types.Boolean {
			return nil, newValidationError(NonBooleanFilter, "",
				"filter %s has type %s, expected BOOLEAN", filter, pred.Type())
		}
		plan.filter = pred
	}
	r.log.Debug("resolved %s", plan.Explain())
	return plan, nil
}

func (r *Resolver) identity() []Projection {
	out := make([]Projection, r.schema.Len())
	for i, f := range r.schema.Fields() {
		out[i] = Projection{Name: f.Name, Expr: &FieldAccess{Index: i, Name: f.Name, ResultType: f.Type}}
	}
	return out
}

// resolveItem resolves one projection item; position is the output column
// index of its first column and names unaliased computed columns.
func (r *Resolver) resolveItem(item expr.Expression, position int) ([]Projection, error) {
	if err := r.checkFields(item); err != nil {
		return nil, err
	}
	switch node := item.(type) {
	case *expr.Star:
		return r.identity(), nil
	case *expr.Alias:
		if _, ok := node.Expr.(*expr.Star); ok {
			return nil, newValidationError(InvalidExpression, node.Name, "cannot alias '*'")
		}
		resolved, err := r.resolveExpr(node.Expr)
		if err != nil {
			return nil, err
		}
		return []Projection{{Name: node.Name, Expr: resolved}}, nil
	default:
		resolved, err := r.resolveExpr(item)
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("_c%d", position)
		if fa, ok := resolved.(*FieldAccess); ok {
			name = fa.Name
		}
		return []Projection{{Name: name, Expr: resolved}}, nil
	}
}

// checkFields reports every field of e missing from the input schema in one
// error; Name is the first of them.
func (r *Resolver) checkFields(e expr.Expression) error {
	var missing []string
	for _, name := range expr.CollectFields(e) {
		if _, ok := r.schema.IndexOf(name); !ok {
			missing = append(missing, name)
		}
	}
	switch len(missing) {
	case 0:
		return nil
	case 1:
		return newValidationError(UnresolvedField, missing[0],
			"cannot resolve field '%s', input fields are %s", missing[0], r.schema)
	default:
		return newValidationError(UnresolvedField, missing[0],
			"cannot resolve fields '%s', input fields are %s", strings.Join(missing, "', '"), r.schema)
	}
}

func (r *Resolver) resolveExpr(e expr.Expression) (Resolved, error) {
	switch node := e.(type) {
	case *expr.Literal:
		return &Constant{Value: node.Value, ResultType: node.Type}, nil
	case *expr.FieldRef:
		idx, ok := r.schema.IndexOf(node.Name)
		if !ok {
			return nil, newValidationError(UnresolvedField, node.Name,
				"cannot resolve field '%s', input fields are %s", node.Name, r.schema)
		}
		return &FieldAccess{Index: idx, Name: node.Name, ResultType: r.schema.Field(idx).Type}, nil
	case *expr.UnaryOp:
		return r.resolveUnary(node)
	case *expr.BinaryOp:
		return r.resolveBinary(node)
	case *expr.FunctionCall:
		return r.resolveCall(node)
	case *expr.Star:
		return nil, newValidationError(InvalidExpression, "*", "'*' is only allowed as a projection item")
	case *expr.Alias:
		return nil, newValidationError(InvalidExpression, node.Name, "alias '%s' is only allowed on a projection item", node.Name)
	default:
		return nil, newValidationError(InvalidExpression, "", "unsupported expression %T", e)
	}
}

func (r *Resolver) resolveUnary(node *expr.UnaryOp) (Resolved, error) {
	operand, err := r.resolveExpr(node.Operand)
	if err != nil {
		return nil, err
	}
	t := operand.Type()
	if node.Op == expr.OpNot {
		if t != types.Boolean {
			return nil, newValidationError(TypeMismatch, "", "operator ! requires BOOLEAN, got %s in %s", t, node)
		}
		return &Unary{Op: expr.OpNot, Operand: operand, ResultType: types.Boolean}, nil
	}
	if !t.IsNumeric() {
		return nil, newValidationError(TypeMismatch, "", "unary - requires a numeric operand, got %s in %s", t, node)
	}
	t = operandType(operand)
	return &Unary{Op: expr.OpNeg, Operand: promote(operand, t), ResultType: t}, nil
}

func (r *Resolver) resolveBinary(node *expr.BinaryOp) (Resolved, error) {
	left, err := r.resolveExpr(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := r.resolveExpr(node.Right)
	if err != nil {
		return nil, err
	}
	lt, rt := left.Type(), right.Type()
	if node.Op.IsArithmetic() {
		lt, rt = operandType(left), operandType(right)
	}
	mismatch := func() error {
		return newValidationError(TypeMismatch, "",
			"operator %s cannot be applied to %s and %s in %s", node.Op, lt, rt, node)
	}

	switch {
	case node.Op.IsLogical():
		if lt != types.Boolean || rt != types.Boolean {
			return nil, mismatch()
		}
		return &Binary{Op: node.Op, Left: left, Right: right, ResultType: types.Boolean}, nil

	case node.Op == expr.OpAdd && (lt == types.String || rt == types.String):
		return &Binary{Op: node.Op, Left: left, Right: right, ResultType: types.String}, nil

	case node.Op.IsArithmetic():
		wide, ok := types.Wider(lt, rt)
		if !ok {
			return nil, mismatch()
		}
		return &Binary{Op: node.Op, Left: promote(left, wide), Right: promote(right, wide), ResultType: wide}, nil

	case node.Op == expr.OpEQ || node.Op == expr.OpNE:
		if wide, ok := types.Wider(lt, rt); ok {
			left, right = promote(left, wide), promote(right, wide)
		} else if lt != rt || (lt != types.String && lt != types.Boolean) {
			return nil, mismatch()
		}
		return &Binary{Op: node.Op, Left: left, Right: right, ResultType: types.Boolean}, nil

	case node.Op.IsComparison():
		wide, ok := types.Wider(lt, rt)
		if !ok {
			return nil, mismatch()
		}
		return &Binary{Op: node.Op, Left: promote(left, wide), Right: promote(right, wide), ResultType: types.Boolean}, nil
	}
	return nil, newValidationError(InvalidExpression, "", "unknown operator %s", node.Op)
}

func (r *Resolver) resolveCall(node *expr.FunctionCall) (Resolved, error) {
	fn, err := r.registry.Lookup(node.Name)
	if err != nil {
		return nil, newValidationError(UnresolvedFunction, node.Name, "undefined function '%s'", node.Name)
	}

	args := make([]Resolved, len(node.Args))
	argTypes := make([]types.ScalarType, len(node.Args))
	for i, a := range node.Args {
		resolved, err := r.resolveExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = resolved
		argTypes[i] = resolved.Type()
	}

	if err := fn.Validate(argTypes); err != nil {
		return nil, newValidationError(ArgumentMismatch, node.Name, "invalid call %s: %v", node, err)
	}
	ret := fn.ReturnType()
	if inferrer, ok := fn.(functions.ReturnTypeInferrer); ok {
		ret, err = inferrer.InferReturnType(argTypes)
		if err != nil {
			return nil, newValidationError(ArgumentMismatch, node.Name, "invalid call %s: %v", node, err)
		}
	}
	if ret == types.Any {
		return nil, newValidationError(TypeMismatch, node.Name, "function '%s' has no concrete return type", node.Name)
	}

	declared := fn.ArgTypes()
	for i, a := range args {
		if want := functions.ParamType(declared, i); want.IsNumeric() && a.Type().IsNumeric() {
			args[i] = promote(a, want)
		}
	}
	r.log.Debug("bound function %s to %T", node.Name, fn)
	return &Call{Name: strings.ToLower(node.Name), Function: fn, Args: args, ResultType: ret}, nil
}

// operandType is the width an arithmetic operand takes part in promotion
// with. Integer literals count as at least INT32 so that 100 + 100 does not
// wrap in INT8; comparisons need no such rule since they do not overflow.
func operandType(n Resolved) types.ScalarType {
	t := n.Type()
	if _, ok := n.(*Constant); ok && t.IsInteger() && t < types.Int32 {
		return types.Int32
	}
	return t
}

// promote widens n to t, folding constants in place of a Cast node
func promote(n Resolved, t types.ScalarType) Resolved {
	if n.Type() == t {
		return n
	}
	if c, ok := n.(*Constant); ok {
		if v, err := types.Coerce(c.Value, t); err == nil {
			return &Constant{Value: v, ResultType: t}
		}
	}
	return &Cast{Operand: n, To: t}
}
