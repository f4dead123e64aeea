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
	"strings"
)

// Field is a named, typed column of a schema
type Field struct {
	Name string
	Type ScalarType
}

// String returns "name TYPE"
func (f Field) String() string {
	return f.Name + " " + f.Type.String()
}

// Schema is an ordered list of uniquely named fields.
// A Schema is never modified after construction.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema, rejecting empty and duplicate field names
func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has an empty name", i)
		}
		if f.Type == Any {
			return nil, fmt.Errorf("field %s cannot have type %s", f.Name, f.Type)
		}
		if _, exists := s.index[f.Name]; exists {
			return nil, fmt.Errorf("duplicate field name: %s", f.Name)
		}
		s.fields[i] = f
		s.index[f.Name] = i
	}
	return s, nil
}

// FromTypes builds a schema for a tuple of the given field types.
// names is a comma separated list renaming the positional fields; when it is
// empty the fields are named f0, f1, ...
func FromTypes(fieldTypes []ScalarType, names string) (*Schema, error) {
	fields := make([]Field, len(fieldTypes))
	if strings.TrimSpace(names) == "" {
		for i, t := range fieldTypes {
			fields[i] = Field{Name: fmt.Sprintf("f%d", i), Type: t}
		}
		return NewSchema(fields...)
	}

	parts := strings.Split(names, ",")
	if len(parts) != len(fieldTypes) {
		return nil, fmt.Errorf("expected %d field names, got %d", len(fieldTypes), len(parts))
	}
	for i, part := range parts {
		fields[i] = Field{Name: strings.TrimSpace(part), Type: fieldTypes[i]}
	}
	return NewSchema(fields...)
}

// Len returns the number of fields
func (s *Schema) Len() int {
	return len(s.fields)
}

// Field returns the field at position i
func (s *Schema) Field(i int) Field {
	return s.fields[i]
}

// Fields returns a copy of the field list
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the field names in order
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Types returns the field types in order
func (s *Schema) Types() []ScalarType {
	out := make([]ScalarType, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Type
	}
	return out
}

// IndexOf looks a field up by exact name
func (s *Schema) IndexOf(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// String renders the schema as "(a INT32, b INT64)"
func (s *Schema) String() string {
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Conform converts raw values into a row of this schema
func (s *Schema) Conform(values []any) (Row, error) {
	if len(values) != len(s.fields) {
		return nil, fmt.Errorf("row has %d values, schema %s expects %d", len(values), s, len(s.fields))
	}
	row := make(Row, len(values))
	for i, v := range values {
		converted, err := Coerce(v, s.fields[i].Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", s.fields[i].Name, err)
		}
		row[i] = converted
	}
	return row, nil
}
