// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package odoo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one row returned by search_read or read. Numbers are kept as
// json.Number so ids and monetary values round-trip exactly. Relational fields
// follow Odoo conventions: many2one is [id, label], empty values are false.
type Record map[string]any

// ID returns the record id.
func (r Record) ID() (int64, bool) {
	return asInt64(r["id"])
}

// String returns a textual field. Odoo's false for empty fields yields "".
func (r Record) String(field string) string {
	switch v := r[field].(type) {
	case nil, bool:
		if b, ok := v.(bool); ok && b {
			return "true"
		}
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case []any:
		if _, label, ok := r.Relation(field); ok {
			return label
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}

// Relation decodes a many2one value [id, label].
func (r Record) Relation(field string) (int64, string, bool) {
	pair, ok := r[field].([]any)
	if !ok || len(pair) != 2 {
		return 0, "", false
	}
	id, ok := asInt64(pair[0])
	if !ok {
		return 0, "", false
	}
	label, _ := pair[1].(string)
	return id, label, true
}

// MarshalYAML emits numbers as YAML numbers instead of the quoted strings
// json.Number would produce.
func (r Record) MarshalYAML() (any, error) {
	return PlainValue(map[string]any(r)), nil
}

// PlainValue returns v with every json.Number replaced by an int64, or a
// float64 when it is not integral, recursing into lists and objects.
func PlainValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = PlainValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = PlainValue(e)
		}
		return out
	case Record:
		return PlainValue(map[string]any(t))
	default:
		return v
	}
}

// FieldInfo is the metadata fields_get reports for one field.
type FieldInfo struct {
	Type     string `json:"type" yaml:"type"`
	String   string `json:"string,omitempty" yaml:"string,omitempty"`
	Help     string `json:"help,omitempty" yaml:"help,omitempty"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Readonly bool   `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Store    bool   `json:"store,omitempty" yaml:"store,omitempty"`
	Relation string `json:"relation,omitempty" yaml:"relation,omitempty"`
	// Selection lists [value, label] pairs for selection fields
	Selection [][]any `json:"selection,omitempty" yaml:"selection,omitempty"`
}

// UnmarshalJSON tolerates Odoo returning selection as a non-list (e.g. a method name).
func (f *FieldInfo) UnmarshalJSON(data []byte) error {
	type plain FieldInfo
	var aux struct {
		plain
		Selection json.RawMessage `json:"selection"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*f = FieldInfo(aux.plain)
	if bytes.HasPrefix(bytes.TrimSpace(aux.Selection), []byte("[")) {
		if err := json.Unmarshal(aux.Selection, &f.Selection); err != nil {
			return err
		}
	}
	return nil
}

func decode(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
