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

package tablecalc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rulego/tablecalc/expr"
	"github.com/rulego/tablecalc/exprvm"
	"github.com/rulego/tablecalc/functions"
	"github.com/rulego/tablecalc/logger"
	"github.com/rulego/tablecalc/operator"
	"github.com/rulego/tablecalc/planner"
	"github.com/rulego/tablecalc/types"
	"github.com/rulego/tablecalc/utils/table"
)

// Backend names a row evaluation strategy
type Backend string

const (
	// BackendInterpreted walks resolved expression trees
	BackendInterpreted Backend = "interpreted"
	// BackendCompiled runs plans on the expr-lang VM
	BackendCompiled Backend = "compiled"
)

// ParseBackend resolves a backend name; the empty string selects the interpreter
func ParseBackend(name string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(name))) {
	case "", BackendInterpreted:
		return BackendInterpreted, nil
	case BackendCompiled:
		return BackendCompiled, nil
	default:
		return BackendInterpreted, fmt.Errorf("unknown backend: %s", name)
	}
}

// Environment owns the function registry and evaluation settings shared by
// the tables created from it.
type Environment struct {
	registry    *functions.FunctionRegistry
	log         logger.Logger
	backend     Backend
	parallelism int
}

// New 创建Environment, with the built-in functions registered
func New(opts ...Option) *Environment {
	e := &Environment{
		log:     logger.GetDefault(),
		backend: BackendInterpreted,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = functions.NewBuiltinRegistry()
	}
	return e
}

// Registry returns the function registry plans are resolved against
func (e *Environment) Registry() *functions.FunctionRegistry {
	return e.registry
}

// RegisterFunction binds fn under its name, replacing any previous binding.
// Plans resolved earlier keep the function they were bound to.
func (e *Environment) RegisterFunction(fn functions.Function) error {
	if err := e.registry.Register(fn); err != nil {
		return err
	}
	e.log.Debug("registered function %s", fn.GetName())
	return nil
}

// RegisterScalarFunction registers a Go closure with a fixed signature
func (e *Environment) RegisterScalarFunction(name string, argTypes []types.ScalarType, returnType types.ScalarType,
	impl func(args []interface{}) (interface{}, error)) error {
	if impl == nil {
		return fmt.Errorf("function %s has no implementation", name)
	}
	return e.RegisterFunction(functions.NewScalarFunction(name, argTypes, returnType, impl))
}

// FromRows creates a table of fieldTypes. fieldNames is a comma separated
// list renaming the fields; when empty they are named f0, f1, ...
// Values are converted to the field types up front.
func (e *Environment) FromRows(fieldTypes []types.ScalarType, fieldNames string, rows [][]any) (*Table, error) {
	schema, err := types.FromTypes(fieldTypes, fieldNames)
	if err != nil {
		return nil, err
	}
	conformed := make([]types.Row, len(rows))
	for i, values := range rows {
		if conformed[i], err = schema.Conform(values); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return e.FromSchema(schema, conformed), nil
}

// FromSchema creates a table over rows that already match schema
func (e *Environment) FromSchema(schema *types.Schema, rows []types.Row) *Table {
	return &Table{env: e, schema: schema, source: rows}
}

// evaluator builds the evaluator for plan according to the backend setting
func (e *Environment) evaluator(plan *planner.CalcPlan) (operator.Evaluator, error) {
	if e.backend != BackendCompiled {
		return operator.NewCalcOp(plan), nil
	}
	program, err := exprvm.Compile(plan)
	if errors.Is(err, exprvm.ErrUnsupported) {
		e.log.Info("falling back to the interpreter: %v", err)
		return operator.NewCalcOp(plan), nil
	}
	if err != nil {
		return nil, err
	}
	return program, nil
}

// Table is an immutable relation: either a source of rows or a CalcPlan
// applied to a parent table. Rows are computed by Collect.
type Table struct {
	env    *Environment
	schema *types.Schema

	source []types.Row

	parent    *Table
	plan      *planner.CalcPlan
	evaluator operator.Evaluator
}

// Schema returns the table's field names and types
func (t *Table) Schema() *types.Schema {
	return t.schema
}

// Plan returns the CalcPlan producing this table, nil for a source table
func (t *Table) Plan() *planner.CalcPlan {
	return t.plan
}

// Select projects the table, e.g. "a, b + 1 as c" or "*"
func (t *Table) Select(fields string) (*Table, error) {
	items, err := expr.ParseProjectionList(fields)
	if err != nil {
		return nil, err
	}
	return t.derive(items, nil)
}

// Filter keeps the rows for which predicate is true
func (t *Table) Filter(predicate string) (*Table, error) {
	pred, err := expr.ParsePredicate(predicate)
	if err != nil {
		return nil, err
	}
	return t.derive(nil, pred)
}

// Where is a synonym of Filter
func (t *Table) Where(predicate string) (*Table, error) {
	return t.Filter(predicate)
}

func (t *Table) derive(items []expr.Expression, filter expr.Expression) (*Table, error) {
	plan, err := planner.NewResolver(t.schema, t.env.registry, t.env.log).Resolve(items, filter)
	if err != nil {
		return nil, err
	}
	ev, err := t.env.evaluator(plan)
	if err != nil {
		return nil, err
	}
	return &Table{env: t.env, schema: plan.OutputSchema(), parent: t, plan: plan, evaluator: ev}, nil
}

// Collect evaluates the table and returns its rows in source order
func (t *Table) Collect() ([]types.Row, error) {
	return t.CollectContext(context.Background())
}

// CollectContext is Collect with cancellation of parallel evaluation
func (t *Table) CollectContext(ctx context.Context) ([]types.Row, error) {
	if t.parent == nil {
		out := make([]types.Row, len(t.source))
		copy(out, t.source)
		return out, nil
	}
	input, err := t.parent.CollectContext(ctx)
	if err != nil {
		return nil, err
	}
	if t.env.parallelism > 1 {
		return operator.RunParallel(ctx, t.evaluator, input, t.env.parallelism)
	}
	return operator.Run(t.evaluator, input)
}

// Explain lists the source and every plan from the source up, one per line
func (t *Table) Explain() string {
	if t.parent == nil {
		return "Source" + t.schema.String()
	}
	return t.parent.Explain() + "\n" + t.plan.Explain()
}

// Print collects the table and writes it to w as a text table
func (t *Table) Print(w io.Writer) error {
	rows, err := t.Collect()
	if err != nil {
		return err
	}
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			cells[i][j] = types.FormatValue(v)
		}
	}
	return table.PrintTable(w, t.schema.Names(), cells)
}
