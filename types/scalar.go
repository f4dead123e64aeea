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
	"fmt"
	"math"
	"strings"
)

// ScalarType is the type of a single field or expression result.
type ScalarType int

const (
	// Any is only valid as a function parameter type and accepts every value
	Any ScalarType = iota
	// Boolean true or false
	Boolean
	// Int8 8-bit signed integer
	Int8
	// Int16 16-bit signed integer
	Int16
	// Int32 32-bit signed integer
	Int32
	// Int64 64-bit signed integer
	Int64
	// Decimal arbitrary precision decimal
	Decimal
	// Float64 double precision floating point
	Float64
	// String character string
	String
)

// String returns the type name used in schema and plan rendering
func (t ScalarType) String() string {
	switch t {
	case Any:
		return "ANY"
	case Boolean:
		return "BOOLEAN"
	case Int8:
		return "INT8"
	case Int16:
		return "INT16"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Decimal:
		return "DECIMAL"
	case Float64:
		return "FLOAT64"
	case String:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

var scalarTypeNames = map[string]ScalarType{
	"any":      Any,
	"bool":     Boolean,
	"boolean":  Boolean,
	"tinyint":  Int8,
	"byte":     Int8,
	"int8":     Int8,
	"smallint": Int16,
	"short":    Int16,
	"int16":    Int16,
	"int":      Int32,
	"integer":  Int32,
	"int32":    Int32,
	"bigint":   Int64,
	"long":     Int64,
	"int64":    Int64,
	"decimal":  Decimal,
	"double":   Float64,
	"float":    Float64,
	"float64":  Float64,
	"string":   String,
	"varchar":  String,
}

// ParseScalarType resolves a type name such as "int", "bigint" or "string"
func ParseScalarType(name string) (ScalarType, error) {
	if t, ok := scalarTypeNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return Any, fmt.Errorf("unknown scalar type: %s", name)
}

// IsNumeric reports whether arithmetic and ordering apply to the type
func (t ScalarType) IsNumeric() bool {
	return t >= Int8 && t <= Float64
}

// IsInteger reports whether the type is a fixed width integer
func (t ScalarType) IsInteger() bool {
	return t >= Int8 && t <= Int64
}

// Wider returns the promoted type for a numeric binary operation.
// The lattice is Int8 < Int16 < Int32 < Int64 < Decimal < Float64.
func Wider(a, b ScalarType) (ScalarType, bool) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Any, false
	}
	if a > b {
		return a, true
	}
	return b, true
}

// AssignableTo reports whether a value of type from can be passed where to is expected
func AssignableTo(from, to ScalarType) bool {
	if to == Any || from == to {
		return true
	}
	if from.IsNumeric() && to.IsNumeric() {
		return from < to
	}
	return false
}

// IntegerTypeFor returns the smallest integer width able to hold v
func IntegerTypeFor(v int64) ScalarType {
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return Int8
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return Int16
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return Int32
	default:
		return Int64
	}
}
