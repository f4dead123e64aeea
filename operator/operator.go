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

// Package operator evaluates resolved CalcPlans against rows.
package operator

import (
	"github.com/rulego/tablecalc/functions"
	"github.com/rulego/tablecalc/types"
)

// ErrDivisionByZero is the only error a well-typed plan can raise per row
var ErrDivisionByZero = functions.ErrDivisionByZero

// Evaluator executes a plan against one input row. ok is false when the
// filter rejected the row, in which case out is nil.
type Evaluator interface {
	Evaluate(row types.Row) (out types.Row, ok bool, err error)
}

// AsBool convert any to bool
func AsBool(input any) bool {
	if v, ok := input.(bool); ok {
		return v
	}
	return false
}
