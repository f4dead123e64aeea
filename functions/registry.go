package functions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rulego/tablecalc/logger"
	"github.com/rulego/tablecalc/types"
)

// ErrFunctionNotFound is returned by Lookup for unknown names
var ErrFunctionNotFound = errors.New("function not found")

// FunctionRegistry maps lower-cased function names to implementations.
// Registering an existing name replaces the previous binding.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry 创建新的函数注册器
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// NewBuiltinRegistry returns a registry holding all built-in functions
func NewBuiltinRegistry() *FunctionRegistry {
	r := NewFunctionRegistry()
	RegisterBuiltins(r)
	return r
}

// Register 注册函数; the last registration of a name wins
func (r *FunctionRegistry) Register(fn Function) error {
	if fn == nil {
		return fmt.Errorf("cannot register nil function")
	}
	name := strings.ToLower(fn.GetName())
	if name == "" {
		return fmt.Errorf("function name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.functions[name]; exists {
		logger.Debug("function %s re-registered, previous binding replaced", name)
	}
	r.functions[name] = fn
	return nil
}

// Get 获取函数
func (r *FunctionRegistry) Get(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.functions[strings.ToLower(name)]
	return fn, exists
}

// Lookup returns the current binding of name or ErrFunctionNotFound
func (r *FunctionRegistry) Lookup(name string) (Function, error) {
	if fn, ok := r.Get(name); ok {
		return fn, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
}

// GetByType 按类型获取函数列表
func (r *FunctionRegistry) GetByType(fnType FunctionType) []Function {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Function
	for _, name := range r.sortedNames() {
		if fn := r.functions[name]; fn.GetType() == fnType {
			result = append(result, fn)
		}
	}
	return result
}

// ListAll 列出所有注册的函数
func (r *FunctionRegistry) ListAll() map[string]Function {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]Function, len(r.functions))
	for name, fn := range r.functions {
		result[name] = fn
	}
	return result
}

// Names returns the registered names in sorted order
func (r *FunctionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames()
}

func (r *FunctionRegistry) sortedNames() []string {
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister 注销函数
func (r *FunctionRegistry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(name)
	if _, exists := r.functions[name]; !exists {
		return false
	}
	delete(r.functions, name)
	return true
}

// RegisterCustomFunction 注册自定义函数
func (r *FunctionRegistry) RegisterCustomFunction(name string, fnType FunctionType, category, description string,
	argTypes []types.ScalarType, returnType types.ScalarType, minArgs, maxArgs int,
	executor func(args []interface{}) (interface{}, error)) error {
	if executor == nil {
		return fmt.Errorf("function %s has no executor", name)
	}
	return r.Register(&CustomFunction{
		BaseFunction: NewBaseFunction(name, fnType, category, description, argTypes, returnType, minArgs, maxArgs),
		executor:     executor,
	})
}

// CustomFunction 自定义函数实现
type CustomFunction struct {
	*BaseFunction
	executor func(args []interface{}) (interface{}, error)
}

// NewScalarFunction wraps a Go closure with a fixed signature
func NewScalarFunction(name string, argTypes []types.ScalarType, returnType types.ScalarType,
	executor func(args []interface{}) (interface{}, error)) *CustomFunction {
	return &CustomFunction{
		BaseFunction: NewBaseFunction(name, TypeCustom, "user", "", argTypes, returnType, len(argTypes), len(argTypes)),
		executor:     executor,
	}
}

func (f *CustomFunction) Execute(args []interface{}) (interface{}, error) {
	return f.executor(args)
}
