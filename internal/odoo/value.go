// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package odoo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNonFinite reports a NaN or infinite float, which JSON cannot carry.
var ErrNonFinite = errors.New("float value must be finite")

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindIDs
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindIDs:
		return "ids"
	default:
		return "null"
	}
}

// Value is a field value accepted by create and write. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	ids  []int64
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value. NaN and infinities have no JSON form; a map
// holding one fails Validate and cannot be sent.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// IDs returns a list of record ids, used for relational fields.
func IDs(ids ...int64) Value {
	cp := make([]int64, len(ids))
	copy(cp, ids)
	return Value{kind: KindIDs, ids: cp}
}

// Null returns the null value.
func Null() Value { return Value{} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Interface returns v as a plain Go value.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindIDs:
		return append([]int64{}, v.ids...)
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindIDs:
		parts := make([]string, len(v.ids))
		for i, id := range v.ids {
			parts[i] = strconv.FormatInt(id, 10)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return "null"
	}
}

// Validate reports ErrNonFinite for NaN and infinite floats.
func (v Value) Validate() error {
	if v.kind == KindFloat && (math.IsNaN(v.f) || math.IsInf(v.f, 0)) {
		return fmt.Errorf("%w, got %v", ErrNonFinite, v.f)
	}
	return nil
}

// MarshalJSON encodes the held variant.
func (v Value) MarshalJSON() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if v.kind == KindIDs && v.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.Interface())
}

// ValueOf converts a decoded JSON scalar or id list into a Value.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float64:
		v := Float(t)
		return v, v.Validate()
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q", t.String())
		}
		return Float(f), nil
	case []int64:
		return IDs(t...), nil
	case []any:
		ids := make([]int64, 0, len(t))
		for _, e := range t {
			id, ok := asInt64(e)
			if !ok {
				return Value{}, fmt.Errorf("list values must be integer ids, got %v", e)
			}
			ids = append(ids, id)
		}
		return IDs(ids...), nil
	default:
		return Value{}, fmt.Errorf("unsupported field value of type %T", x)
	}
}

// FieldMap is an insertion-ordered mapping of field names to values.
// The zero FieldMap is empty and ready to use.
type FieldMap struct {
	keys   []string
	values map[string]Value
}

// NewFieldMap returns an empty field map.
func NewFieldMap() *FieldMap {
	return &FieldMap{}
}

// Set assigns key. A new key is appended; an existing key keeps its position.
func (m *FieldMap) Set(key string, v Value) *FieldMap {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

// Get returns the value for key.
func (m *FieldMap) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key.
func (m *FieldMap) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the field names in insertion order.
func (m *FieldMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Validate checks every value, naming the first field that cannot be encoded.
func (m *FieldMap) Validate() error {
	if m == nil {
		return nil
	}
	for _, k := range m.keys {
		if err := m.values[k].Validate(); err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
	}
	return nil
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
func (m *FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, k := range m.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := m.values[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("field map must be a JSON object")
	}

	*m = FieldMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		v, err := ValueOf(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		m.Set(key, v)
	}
	_, err = dec.Token()
	return err
}

func asInt64(x any) (int64, bool) {
	switch t := x.(type) {
	case json.Number:
		i, err := t.Int64()
		return i, err == nil
	case float64:
		if t != float64(int64(t)) {
			return 0, false
		}
		return int64(t), true
	case int64:
		return t, true
	case int:
		return int64(t), true
	default:
		return 0, false
	}
}
