package functions

import (
	"github.com/rulego/tablecalc/types"
)

// ToStringFunction renders any value as text
type ToStringFunction struct {
	*BaseFunction
}

func NewToStringFunction() *ToStringFunction {
	return &ToStringFunction{
		BaseFunction: NewBaseFunction("tostring", TypeConversion, "转换函数", "转换为字符串",
			[]types.ScalarType{types.Any}, types.String, 1, 1),
	}
}

func (f *ToStringFunction) Execute(args []interface{}) (interface{}, error) {
	return types.FormatValue(args[0]), nil
}
