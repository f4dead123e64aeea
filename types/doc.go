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
Package types defines the scalar type lattice, schemas and rows used by tablecalc.

# Scalar Types

	BOOLEAN
	INT8 < INT16 < INT32 < INT64 < DECIMAL < FLOAT64   // numeric widening order
	STRING
	ANY                                                // function parameters only

Wider returns the common type of two numeric types. Integer literals are
typed with the smallest width that holds them (IntegerTypeFor), so 1 is
INT8 and 300 is INT16.

# Values

Rows carry canonical Go values: bool, int8, int16, int32, int64,
decimal.Decimal, float64 and string. Coerce converts any value to the
canonical form of a type and NarrowInt wraps an int64 into a narrower width.

	schema, _ := types.FromTypes([]types.ScalarType{types.Int32, types.String}, "a, c")
	row, _ := schema.Conform([]any{"1", "Hi"}) // Row{int32(1), "Hi"}
*/
package types
