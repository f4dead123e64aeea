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

package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Row holds one value per schema field, in schema order
type Row []any

// String renders the row as comma separated values, e.g. "1,1,Hi"
func (r Row) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, ",")
}

// Equal compares two rows value by value
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if a, ok := r[i].(decimal.Decimal); ok {
			b, ok := other[i].(decimal.Decimal)
			if !ok || !a.Equal(b) {
				return false
			}
			continue
		}
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// AsMap returns the row keyed by field name
func (r Row) AsMap(schema *Schema) map[string]interface{} {
	m := make(map[string]interface{}, len(r))
	for i, v := range r {
		m[schema.Field(i).Name] = v
	}
	return m
}
