package expr

import (
	"strconv"
	"strings"

	"github.com/rulego/tablecalc/types"
)

// Operator is a unary or binary operator symbol
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpMod Operator = "%"
	OpEQ  Operator = "="
	OpNE  Operator = "<>"
	OpLT  Operator = "<"
	OpLE  Operator = "<="
	OpGT  Operator = ">"
	OpGE  Operator = ">="
	OpAnd Operator = "&&"
	OpOr  Operator = "||"
	OpNot Operator = "!"
	OpNeg Operator = "-"
)

// IsArithmetic reports whether op is + - * / %
func (op Operator) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return true
	}
	return false
}

// IsComparison reports whether op compares two values
func (op Operator) IsComparison() bool {
	switch op {
	case OpEQ, OpNE, OpLT, OpLE, OpGT, OpGE:
		return true
	}
	return false
}

// IsLogical reports whether op is a boolean connective
func (op Operator) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// Expression is a node of a parsed, unresolved expression tree
type Expression interface {
	String() string
	exprNode()
}

// Literal is a constant value typed at parse time
type Literal struct {
	Value any
	Type  types.ScalarType
}

// FieldRef references an input field by name
type FieldRef struct {
	Name string
}

// UnaryOp applies ! or unary minus
type UnaryOp struct {
	Op      Operator
	Operand Expression
}

// BinaryOp applies an arithmetic, comparison or logical operator
type BinaryOp struct {
	Op    Operator
	Left  Expression
	Right Expression
}

// FunctionCall invokes a scalar function. Method is set for the
// receiver.name(args) form, in which case the receiver is Args[0].
type FunctionCall struct {
	Name   string
	Args   []Expression
	Method bool
}

// Alias names the output of a projection item
type Alias struct {
	Expr Expression
	Name string
}

// Star selects every input field
type Star struct{}

func (*Literal) exprNode()      {}
func (*FieldRef) exprNode()     {}
func (*UnaryOp) exprNode()      {}
func (*BinaryOp) exprNode()     {}
func (*FunctionCall) exprNode() {}
func (*Alias) exprNode()        {}
func (*Star) exprNode()         {}

func (e *Literal) String() string {
	if s, ok := e.Value.(string); ok {
		return strconv.Quote(s)
	}
	return types.FormatValue(e.Value)
}

func (e *FieldRef) String() string {
	return e.Name
}

func (e *UnaryOp) String() string {
	if e.Op == OpNot {
		return "!(" + e.Operand.String() + ")"
	}
	return "-(" + e.Operand.String() + ")"
}

func (e *BinaryOp) String() string {
	return "(" + e.Left.String() + " " + string(e.Op) + " " + e.Right.String() + ")"
}

func (e *FunctionCall) String() string {
	if e.Method && len(e.Args) > 0 {
		rest := make([]string, len(e.Args)-1)
		for i, a := range e.Args[1:] {
			rest[i] = a.String()
		}
		return e.Args[0].String() + "." + e.Name + "(" + strings.Join(rest, ", ") + ")"
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Name + "(" + strings.Join(args, ", ") + ")"
}

func (e *Alias) String() string {
	return e.Expr.String() + " as " + e.Name
}

func (e *Star) String() string {
	return "*"
}

// CollectFields returns the field names referenced by e, in first-use order
func CollectFields(e Expression) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(Expression)
	walk = func(n Expression) {
		switch node := n.(type) {
		case *FieldRef:
			if !seen[node.Name] {
				seen[node.Name] = true
				out = append(out, node.Name)
			}
		case *UnaryOp:
			walk(node.Operand)
		case *BinaryOp:
			walk(node.Left)
			walk(node.Right)
		case *FunctionCall:
			for _, a := range node.Args {
				walk(a)
			}
		case *Alias:
			walk(node.Expr)
		}
	}
	walk(e)
	return out
}
