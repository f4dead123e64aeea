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
Package functions provides the scalar function registry used when resolving
call expressions.

# Registry

Names are case-insensitive. Registering a name again replaces the previous
binding; plans resolved before the replacement keep the function they were
bound to.

	r := functions.NewBuiltinRegistry()
	_ = r.RegisterCustomFunction("square", functions.TypeMath, "数学函数", "计算平方",
		[]types.ScalarType{types.Float64}, types.Float64, 1, 1,
		func(args []interface{}) (interface{}, error) {
			v := args[0].(float64)
			return v * v, nil
		})

# Built-in Functions

	TypeMath        abs, mod, power, sqrt, round
	TypeString      upper, lower, trim, length, concat, substring, startswith, md5, sha1, sha256
	TypeConversion  tostring

Functions whose result type depends on the argument types, like abs and
mod, implement ReturnTypeInferrer.
*/
package functions
