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
	"strconv"
	"strings"

	"github.com/rulego/tablecalc/expr"
	"github.com/rulego/tablecalc/functions"
	"github.com/rulego/tablecalc/types"
)

// Resolved is a fully bound expression node. Field references carry an index
// into the input schema and calls carry the Function captured at resolution,
// so there is no unresolved node kind.
type Resolved interface {
	// Type 推断出的结果类型
	Type() types.ScalarType
	String() string
	resolvedNode()
}

// Constant 常量, Value already has the canonical Go type of ResultType
type Constant struct {
	Value      any
	ResultType types.ScalarType
}

// FieldAccess reads input field Index
type FieldAccess struct {
	Index      int
	Name       string
	ResultType types.ScalarType
}

// Unary applies expr.OpNot or expr.OpNeg
type Unary struct {
	Op         expr.Operator
	Operand    Resolved
	ResultType types.ScalarType
}

// Binary applies an arithmetic, comparison or logical operator. Operands of
// numeric operators already share one type.
type Binary struct {
	Op         expr.Operator
	Left       Resolved
	Right      Resolved
	ResultType types.ScalarType
}

// Call invokes the bound Function
type Call struct {
	Name       string
	Function   functions.Function
	Args       []Resolved
	ResultType types.ScalarType
}

// Cast widens a numeric operand
type Cast struct {
	Operand Resolved
	To      types.ScalarType
}

func (*Constant) resolvedNode()    {}
func (*FieldAccess) resolvedNode() {}
func (*Unary) resolvedNode()       {}
func (*Binary) resolvedNode()      {}
func (*Call) resolvedNode()        {}
func (*Cast) resolvedNode()        {}

func (c *Constant) Type() types.ScalarType    { return c.ResultType }
func (f *FieldAccess) Type() types.ScalarType { return f.ResultType }
func (u *Unary) Type() types.ScalarType       { return u.ResultType }
func (b *Binary) Type() types.ScalarType      { return b.ResultType }
func (c *Call) Type() types.ScalarType        { return c.ResultType }
func (c *Cast) Type() types.ScalarType        { return c.To }

func (c *Constant) String() string {
	if s, ok := c.Value.(string); ok {
		return strconv.Quote(s)
	}
	return types.FormatValue(c.Value)
}

func (f *FieldAccess) String() string {
	return f.Name
}

func (u *Unary) String() string {
	if u.Op == expr.OpNot {
		return "NOT(" + u.Operand.String() + ")"
	}
	return "-(" + u.Operand.String() + ")"
}

func (b *Binary) String() string {
	op := string(b.Op)
	switch b.Op {
	case expr.OpAnd:
		op = "AND"
	case expr.OpOr:
		op = "OR"
	}
	return "(" + b.Left.String() + " " + op + " " + b.Right.String() + ")"
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

func (c *Cast) String() string {
	return "CAST(" + c.Operand.String() + " AS " + c.To.String() + ")"
}

// Walk visits n and its children depth first; fn returning false prunes the subtree
func Walk(n Resolved, fn func(Resolved) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch node := n.(type) {
	case *Unary:
		Walk(node.Operand, fn)
	case *Binary:
		Walk(node.Left, fn)
		Walk(node.Right, fn)
	case *Call:
		for _, a := range node.Args {
			Walk(a, fn)
		}
	case *Cast:
		Walk(node.Operand, fn)
	}
}
