package functions

import (
	"fmt"

	"github.com/rulego/tablecalc/types"
)

// FunctionType 函数类型枚举
type FunctionType string

const (
	// TypeMath 数学函数
	TypeMath FunctionType = "math"
	// TypeString 字符串函数
	TypeString FunctionType = "string"
	// TypeConversion 转换函数
	TypeConversion FunctionType = "conversion"
	// TypeCustom 用户自定义函数
	TypeCustom FunctionType = "custom"
)

// Function is a pure scalar function: one result per invocation, no state
// carried between rows.
type Function interface {
	// GetName 获取函数名称
	GetName() string
	// GetType 获取函数类型
	GetType() FunctionType
	// GetCategory 获取函数分类
	GetCategory() string
	// GetDescription 获取函数描述
	GetDescription() string
	// ArgTypes declared parameter types; for variadic functions the last one repeats
	ArgTypes() []types.ScalarType
	// ReturnType declared result type
	ReturnType() types.ScalarType
	// Validate checks the argument types of a call site
	Validate(argTypes []types.ScalarType) error
	// Execute 执行函数
	Execute(args []interface{}) (interface{}, error)
}

// ReturnTypeInferrer is implemented by functions whose result type depends
// on the argument types, such as abs.
type ReturnTypeInferrer interface {
	InferReturnType(argTypes []types.ScalarType) (types.ScalarType, error)
}

// BaseFunction 基础函数实现，提供通用功能
type BaseFunction struct {
	name        string
	fnType      FunctionType
	category    string
	description string
	argTypes    []types.ScalarType
	returnType  types.ScalarType
	minArgs     int
	maxArgs     int // -1 表示无限制
}

// NewBaseFunction 创建基础函数
func NewBaseFunction(name string, fnType FunctionType, category, description string,
	argTypes []types.ScalarType, returnType types.ScalarType, minArgs, maxArgs int) *BaseFunction {
	return &BaseFunction{
		name:        name,
		fnType:      fnType,
		category:    category,
		description: description,
		argTypes:    argTypes,
		returnType:  returnType,
		minArgs:     minArgs,
		maxArgs:     maxArgs,
	}
}

func (bf *BaseFunction) GetName() string {
	return bf.name
}

func (bf *BaseFunction) GetType() FunctionType {
	return bf.fnType
}

func (bf *BaseFunction) GetCategory() string {
	return bf.category
}

func (bf *BaseFunction) GetDescription() string {
	return bf.description
}

func (bf *BaseFunction) ArgTypes() []types.ScalarType {
	return bf.argTypes
}

func (bf *BaseFunction) ReturnType() types.ScalarType {
	return bf.returnType
}

// ParamType returns the declared type of the i-th argument
func (bf *BaseFunction) ParamType(i int) types.ScalarType {
	return ParamType(bf.argTypes, i)
}

// ParamType returns the declared type of argument i, repeating the last
// declared type for variadic tails.
func ParamType(argTypes []types.ScalarType, i int) types.ScalarType {
	if len(argTypes) == 0 {
		return types.Any
	}
	if i >= len(argTypes) {
		return argTypes[len(argTypes)-1]
	}
	return argTypes[i]
}

// ValidateArgCount 验证参数数量
func (bf *BaseFunction) ValidateArgCount(argCount int) error {
	if argCount < bf.minArgs {
		return fmt.Errorf("function %s requires at least %d arguments, got %d", bf.name, bf.minArgs, argCount)
	}

	if bf.maxArgs != -1 && argCount > bf.maxArgs {
		return fmt.Errorf("function %s accepts at most %d arguments, got %d", bf.name, bf.maxArgs, argCount)
	}

	return nil
}

// ValidateArgTypes checks every argument against its declared parameter type
func (bf *BaseFunction) ValidateArgTypes(argTypes []types.ScalarType) error {
	for i, t := range argTypes {
		want := bf.ParamType(i)
		if !types.AssignableTo(t, want) {
			return fmt.Errorf("function %s argument %d: expected %s, got %s", bf.name, i+1, want, t)
		}
	}
	return nil
}

// Validate checks arity and argument types
func (bf *BaseFunction) Validate(argTypes []types.ScalarType) error {
	if err := bf.ValidateArgCount(len(argTypes)); err != nil {
		return err
	}
	return bf.ValidateArgTypes(argTypes)
}
