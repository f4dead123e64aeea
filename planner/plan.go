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
	"strings"

	"github.com/rulego/tablecalc/types"
)

// Projection is one output column of a CalcPlan
type Projection struct {
	Name string
	Expr Resolved
}

// CalcPlan is a resolved projection list plus an optional BOOLEAN filter.
// It is immutable after construction and may be shared between goroutines.
type CalcPlan struct {
	input       *types.Schema
	output      *types.Schema
	projections []Projection
	filter      Resolved
}

// InputSchema 输入行结构
func (p *CalcPlan) InputSchema() *types.Schema {
	return p.input
}

// OutputSchema 输出行结构, one field per projection in order
func (p *CalcPlan) OutputSchema() *types.Schema {
	return p.output
}

// Projections returns a copy of the projection list
func (p *CalcPlan) Projections() []Projection {
	out := make([]Projection, len(p.projections))
	copy(out, p.projections)
	return out
}

// Filter returns the predicate, or nil when the plan has none
func (p *CalcPlan) Filter() Resolved {
	return p.filter
}

func (p *CalcPlan) HasFilter() bool {
	return p.filter != nil
}

// IsIdentity reports whether the projections reproduce the input row unchanged
func (p *CalcPlan) IsIdentity() bool {
	if len(p.projections) != p.input.Len() {
		return false
	}
	for i, proj := range p.projections {
		fa, ok := proj.Expr.(*FieldAccess)
		if !ok || fa.Index != i || proj.Name != p.input.Field(i).Name {
			return false
		}
	}
	return true
}

func (p *CalcPlan) Type() string {
	return "CalcPlan"
}

// Explain renders the plan on one line, e.g.
//
//	Calc(input=[a INT32, b INT64], select=[a, (b + 1) AS _c1], where=[(a > 2)])
func (p *CalcPlan) Explain() string {
	var sb strings.Builder
	sb.WriteString("Calc(input=[")
	for i, f := range p.input.Fields() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.String())
	}
	sb.WriteString("], select=[")
	for i, proj := range p.projections {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(proj.Expr.String())
		if fa, ok := proj.Expr.(*FieldAccess); !ok || fa.Name != proj.Name {
			sb.WriteString(" AS ")
			sb.WriteString(proj.Name)
		}
	}
	sb.WriteString("]")
	if p.filter != nil {
		sb.WriteString(", where=[")
		sb.WriteString(p.filter.String())
		sb.WriteString("]")
	}
	sb.WriteString(")")
	return sb.String()
}

func (p *CalcPlan) String() string {
	return p.Explain()
}
