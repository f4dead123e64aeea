package functions

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/rulego/tablecalc/types"
)

// ConcatFunction 字符串连接函数
type ConcatFunction struct {
	*BaseFunction
}

func NewConcatFunction() *ConcatFunction {
	return &ConcatFunction{
		BaseFunction: NewBaseFunction("concat", TypeString, "字符串函数", "连接多个字符串",
			[]types.ScalarType{types.Any}, types.String, 1, -1),
	}
}

func (f *ConcatFunction) Execute(args []interface{}) (interface{}, error) {
	var result strings.Builder
	for _, arg := range args {
		result.WriteString(types.FormatValue(arg))
	}
	return result.String(), nil
}

// LengthFunction 字符串长度函数, counted in characters
type LengthFunction struct {
	*BaseFunction
}

func NewLengthFunction() *LengthFunction {
	return &LengthFunction{
		BaseFunction: NewBaseFunction("length", TypeString, "字符串函数", "获取字符串长度",
			[]types.ScalarType{types.String}, types.Int32, 1, 1),
	}
}

func (f *LengthFunction) Execute(args []interface{}) (interface{}, error) {
	str, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, err
	}
	return int32(utf8.RuneCountInString(str)), nil
}

// UpperFunction 转大写函数
type UpperFunction struct {
	*BaseFunction
}

func NewUpperFunction() *UpperFunction {
	return &UpperFunction{
		BaseFunction: NewBaseFunction("upper", TypeString, "字符串函数", "转换为大写",
			[]types.ScalarType{types.String}, types.String, 1, 1),
	}
}

func (f *UpperFunction) Execute(args []interface{}) (interface{}, error) {
	str, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, err
	}
	return strings.ToUpper(str), nil
}

// LowerFunction 转小写函数
type LowerFunction struct {
	*BaseFunction
}

func NewLowerFunction() *LowerFunction {
	return &LowerFunction{
		BaseFunction: NewBaseFunction("lower", TypeString, "字符串函数", "转换为小写",
			[]types.ScalarType{types.String}, types.String, 1, 1),
	}
}

func (f *LowerFunction) Execute(args []interface{}) (interface{}, error) {
	str, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, err
	}
	return strings.ToLower(str), nil
}

// TrimFunction 去除首尾空格函数
type TrimFunction struct {
	*BaseFunction
}

func NewTrimFunction() *TrimFunction {
	return &TrimFunction{
		BaseFunction: NewBaseFunction("trim", TypeString, "字符串函数", "去除首尾空格",
			[]types.ScalarType{types.String}, types.String, 1, 1),
	}
}

func (f *TrimFunction) Execute(args []interface{}) (interface{}, error) {
	str, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, err
	}
	return strings.TrimSpace(str), nil
}

// SubstringFunction 子字符串函数, start is 1-based and counted in characters
type SubstringFunction struct {
	*BaseFunction
}

func NewSubstringFunction() *SubstringFunction {
	return &SubstringFunction{
		BaseFunction: NewBaseFunction("substring", TypeString, "字符串函数", "提取子字符串",
			[]types.ScalarType{types.String, types.Int32, types.Int32}, types.String, 2, 3),
	}
}

func (f *SubstringFunction) Execute(args []interface{}) (interface{}, error) {
	str, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, err
	}
	start, err := cast.ToIntE(args[1])
	if err != nil {
		return nil, err
	}
	runes := []rune(str)
	if start < 1 {
		start = 1
	}
	if start > len(runes) {
		return "", nil
	}
	end := len(runes)
	if len(args) == 3 {
		length, err := cast.ToIntE(args[2])
		if err != nil {
			return nil, err
		}
		if length < 0 {
			return nil, fmt.Errorf("substring length cannot be negative: %d", length)
		}
		if start-1+length < end {
			end = start - 1 + length
		}
	}
	return string(runes[start-1 : end]), nil
}

// StartswithFunction 检查字符串是否以指定前缀开始
type StartswithFunction struct {
	*BaseFunction
}

func NewStartswithFunction() *StartswithFunction {
	return &StartswithFunction{
		BaseFunction: NewBaseFunction("startswith", TypeString, "字符串函数", "检查字符串是否以指定前缀开始",
			[]types.ScalarType{types.String, types.String}, types.Boolean, 2, 2),
	}
}

func (f *StartswithFunction) Execute(args []interface{}) (interface{}, error) {
	str, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, err
	}
	prefix, err := cast.ToStringE(args[1])
	if err != nil {
		return nil, err
	}
	return strings.HasPrefix(str, prefix), nil
}
