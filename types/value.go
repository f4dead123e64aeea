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
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Coerce converts v into the canonical Go representation of t:
// bool, int8, int16, int32, int64, decimal.Decimal, float64 or string.
// Integer conversions are range checked.
func Coerce(v any, t ScalarType) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("cannot convert nil to %s", t)
	}
	switch t {
	case Any:
		return v, nil
	case Boolean:
		return cast.ToBoolE(v)
	case Int8, Int16, Int32, Int64:
		i, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		if IntegerTypeFor(i) > t {
			return nil, fmt.Errorf("value %d overflows %s", i, t)
		}
		return NarrowInt(i, t), nil
	case Decimal:
		return ToDecimal(v)
	case Float64:
		if d, ok := v.(decimal.Decimal); ok {
			return d.InexactFloat64(), nil
		}
		return cast.ToFloat64E(v)
	case String:
		return cast.ToStringE(v)
	default:
		return nil, fmt.Errorf("unsupported scalar type %d", int(t))
	}
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case string:
		// base 10 only, "010" is ten
		i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to an integer", x)
		}
		return i, nil
	case decimal.Decimal:
		if !x.IsInteger() {
			return 0, fmt.Errorf("decimal %s is not an integer", x)
		}
		return x.IntPart(), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("float %v is not an integer", x)
		}
	case float32:
		if float64(x) != math.Trunc(float64(x)) {
			return 0, fmt.Errorf("float %v is not an integer", x)
		}
	}
	return cast.ToInt64E(v)
}

// ToDecimal converts a numeric or textual value to a decimal
func ToDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case string:
		return decimal.NewFromString(x)
	case float64:
		return decimal.NewFromFloat(x), nil
	case float32:
		return decimal.NewFromFloat32(x), nil
	case bool:
		return decimal.Zero, fmt.Errorf("cannot convert bool to DECIMAL")
	}
	i, err := cast.ToInt64E(v)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(i), nil
}

// NarrowInt wraps v into the width of t using two's complement truncation
func NarrowInt(v int64, t ScalarType) any {
	switch t {
	case Int8:
		return int8(v)
	case Int16:
		return int16(v)
	case Int32:
		return int32(v)
	default:
		return v
	}
}

// IntValue returns the value of any fixed width integer as int64
func IntValue(v any) (int64, bool) {
	switch x := v.(type) {
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	default:
		return 0, false
	}
}

// FormatValue renders a value the way rows are printed
func FormatValue(v any) string {
	return cast.ToString(v)
}
