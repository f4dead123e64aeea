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

/*
Package tablecalc 是一个轻量级的表达式计算引擎: projections and filters written
as text are compiled against a typed row schema and evaluated row by row.

A compilation parses the expression text, binds field references to schema
positions and function calls to the functions registered at that moment,
infers a type for every node and checks output names. Any failure is
returned before a single row is evaluated.

# 核心特性

• 类型化的 schema - INT8 到 INT64、DECIMAL、FLOAT64、STRING、BOOLEAN
• 表达式 - 算术 (+ - * / %)、比较、&& || !、函数调用及 receiver.method() 形式
• 函数注册 - 最后一次注册生效, plans keep the binding they were resolved with
• 两种执行后端 - 解释执行 (operator) 与 expr-lang 字节码 (exprvm)
• 并行计算 - WithParallelism splits rows over goroutines, preserving order

# 入门示例

	env := tablecalc.New()
	t, err := env.FromRows(
		[]types.ScalarType{types.Int32, types.Int64, types.String},
		"a, b, c",
		[][]any{{1, 1, "Hi"}, {2, 2, "Hello"}, {3, 2, "Hello world"}},
	)
	if err != nil {
		return err
	}
	even, err := t.Filter("a % 2 = 0")
	if err != nil {
		return err
	}
	out, err := even.Select("a, c.upper() as shout")
	if err != nil {
		return err
	}
	rows, err := out.Collect() // [2,HELLO]

# 自定义函数

	env.RegisterScalarFunction("hashCode",
		[]types.ScalarType{types.String}, types.Int32,
		func(args []interface{}) (interface{}, error) {
			var h int32
			for _, r := range args[0].(string) {
				h = 31*h + int32(r)
			}
			return h, nil
		})

	t.Select("c.hashCode()")

# 错误

Parse failures are *expr.ParseError; binding failures are
*planner.ValidationError whose Kind is one of UnresolvedField,
UnresolvedFunction, ArgumentMismatch, TypeMismatch, AmbiguousName,
NonBooleanFilter or InvalidExpression. The only per-row error is integer or
decimal division by zero (operator.ErrDivisionByZero).
*/
package tablecalc
