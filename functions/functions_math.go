package functions

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/rulego/tablecalc/types"
)

// ErrDivisionByZero is returned by integer and decimal division or modulo by zero
var ErrDivisionByZero = errors.New("division by zero")

// FloorMod returns a mod b with the sign of b
func FloorMod(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r, nil
}

// FloorModFloat is FloorMod for floating point operands
func FloorModFloat(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// FloorModDecimal is FloorMod for decimal operands
func FloorModDecimal(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	r := a.Mod(b)
	if !r.IsZero() && r.IsNegative() != b.IsNegative() {
		r = r.Add(b)
	}
	return r, nil
}

// AbsFunction 绝对值函数
type AbsFunction struct {
	*BaseFunction
}

func NewAbsFunction() *AbsFunction {
	return &AbsFunction{
		BaseFunction: NewBaseFunction("abs", TypeMath, "数学函数", "计算绝对值",
			[]types.ScalarType{types.Any}, types.Any, 1, 1),
	}
}

func (f *AbsFunction) Validate(argTypes []types.ScalarType) error {
	_, err := f.InferReturnType(argTypes)
	return err
}

func (f *AbsFunction) InferReturnType(argTypes []types.ScalarType) (types.ScalarType, error) {
	if err := f.ValidateArgCount(len(argTypes)); err != nil {
		return types.Any, err
	}
	if !argTypes[0].IsNumeric() {
		return types.Any, fmt.Errorf("function abs requires a numeric argument, got %s", argTypes[0])
	}
	return argTypes[0], nil
}

func (f *AbsFunction) Execute(args []interface{}) (interface{}, error) {
	switch v := args[0].(type) {
	case int8:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case int16:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case int32:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case int64:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		return math.Abs(v), nil
	case decimal.Decimal:
		return v.Abs(), nil
	default:
		return nil, fmt.Errorf("abs: unsupported value %T", args[0])
	}
}

// ModFunction 取模函数, the result has the sign of the divisor
type ModFunction struct {
	*BaseFunction
}

func NewModFunction() *ModFunction {
	return &ModFunction{
		BaseFunction: NewBaseFunction("mod", TypeMath, "数学函数", "取模运算",
			[]types.ScalarType{types.Int64, types.Int64}, types.Any, 2, 2),
	}
}

func (f *ModFunction) Validate(argTypes []types.ScalarType) error {
	_, err := f.InferReturnType(argTypes)
	return err
}

func (f *ModFunction) InferReturnType(argTypes []types.ScalarType) (types.ScalarType, error) {
	if err := f.BaseFunction.Validate(argTypes); err != nil {
		return types.Any, err
	}
	t, _ := types.Wider(argTypes[0], argTypes[1])
	return t, nil
}

func (f *ModFunction) Execute(args []interface{}) (interface{}, error) {
	a, err := cast.ToInt64E(args[0])
	if err != nil {
		return nil, err
	}
	b, err := cast.ToInt64E(args[1])
	if err != nil {
		return nil, err
	}
	return FloorMod(a, b)
}

// PowerFunction 幂运算函数
type PowerFunction struct {
	*BaseFunction
}

func NewPowerFunction() *PowerFunction {
	return &PowerFunction{
		BaseFunction: NewBaseFunction("power", TypeMath, "数学函数", "幂运算",
			[]types.ScalarType{types.Float64, types.Float64}, types.Float64, 2, 2),
	}
}

func (f *PowerFunction) Execute(args []interface{}) (interface{}, error) {
	base, err := cast.ToFloat64E(args[0])
	if err != nil {
		return nil, err
	}
	exp, err := cast.ToFloat64E(args[1])
	if err != nil {
		return nil, err
	}
	return math.Pow(base, exp), nil
}

// SqrtFunction 平方根函数
type SqrtFunction struct {
	*BaseFunction
}

func NewSqrtFunction() *SqrtFunction {
	return &SqrtFunction{
		BaseFunction: NewBaseFunction("sqrt", TypeMath, "数学函数", "计算平方根",
			[]types.ScalarType{types.Float64}, types.Float64, 1, 1),
	}
}

func (f *SqrtFunction) Execute(args []interface{}) (interface{}, error) {
	val, err := cast.ToFloat64E(args[0])
	if err != nil {
		return nil, err
	}
	return math.Sqrt(val), nil
}

// RoundFunction 四舍五入函数
type RoundFunction struct {
	*BaseFunction
}

func NewRoundFunction() *RoundFunction {
	return &RoundFunction{
		BaseFunction: NewBaseFunction("round", TypeMath, "数学函数", "四舍五入到指定小数位",
			[]types.ScalarType{types.Float64, types.Int32}, types.Float64, 1, 2),
	}
}

func (f *RoundFunction) Execute(args []interface{}) (interface{}, error) {
	val, err := cast.ToFloat64E(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return math.Round(val), nil
	}
	precision, err := cast.ToIntE(args[1])
	if err != nil {
		return nil, err
	}
	shift := math.Pow(10, float64(precision))
	return math.Round(val*shift) / shift, nil
}
