// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package odoo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Term is one element of a domain: a condition or a prefix operator.
type Term struct {
	// Op is "|", "&" or "!" for operators, empty for conditions
	Op       string
	Field    string
	Operator string
	Value    any
}

// Domain is an Odoo search domain in prefix notation. It is forwarded to the
// server verbatim. A nil Domain matches every record.
type Domain []Term

// Prefix operators.
var (
	Or  = Term{Op: "|"}
	And = Term{Op: "&"}
	Not = Term{Op: "!"}
)

// Cond returns the condition [field, operator, value].
func Cond(field, operator string, value any) Term {
	return Term{Field: field, Operator: operator, Value: value}
}

// IsOperator reports whether t is a prefix operator.
func (t Term) IsOperator() bool { return t.Op != "" }

// MarshalJSON encodes an operator as its symbol and a condition as a 3-element list.
func (t Term) MarshalJSON() ([]byte, error) {
	if t.IsOperator() {
		return json.Marshal(t.Op)
	}
	return json.Marshal([]any{t.Field, t.Operator, t.Value})
}

// MarshalJSON encodes a nil domain as an empty list.
func (d Domain) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal([]Term(d))
}

// UnmarshalJSON decodes an Odoo domain such as ["|", ["a","=",1], ["b","=",2]].
func (d *Domain) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return fmt.Errorf("domain must be a JSON list: %w", err)
	}

	out := make(Domain, 0, len(items))
	for i, item := range items {
		switch t := item.(type) {
		case string:
			switch t {
			case "|", "&", "!":
				out = append(out, Term{Op: t})
			default:
				return fmt.Errorf("domain term %d: unknown operator %q", i, t)
			}
		case []any:
			if len(t) != 3 {
				return fmt.Errorf("domain term %d: condition needs 3 elements, got %d", i, len(t))
			}
			field, ok1 := t[0].(string)
			op, ok2 := t[1].(string)
			if !ok1 || !ok2 {
				return fmt.Errorf("domain term %d: field and operator must be strings", i)
			}
			out = append(out, Cond(field, op, t[2]))
		default:
			return fmt.Errorf("domain term %d: unsupported element %v", i, item)
		}
	}
	*d = out
	return nil
}

// ParseDomain decodes the JSON form of a domain. Empty input yields a nil domain.
func ParseDomain(s string) (Domain, error) {
	if len(bytes.TrimSpace([]byte(s))) == 0 {
		return nil, nil
	}
	var d Domain
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		return nil, err
	}
	return d, nil
}

// AnyOf joins conditions into a disjunction using the "|" prefix operator:
// n conditions need n-1 leading operators.
func AnyOf(terms ...Term) Domain {
	if len(terms) == 0 {
		return nil
	}
	out := make(Domain, 0, 2*len(terms)-1)
	for i := 1; i < len(terms); i++ {
		out = append(out, Or)
	}
	return append(out, terms...)
}

// Join combines domains with an implicit AND, which Odoo applies to juxtaposed
// terms. Empty domains are skipped.
func Join(domains ...Domain) Domain {
	var out Domain
	nonEmpty := 0
	for _, d := range domains {
		if len(d) > 0 {
			nonEmpty++
		}
	}
	for i := 1; i < nonEmpty; i++ {
		out = append(out, And)
	}
	for _, d := range domains {
		out = append(out, d...)
	}
	return out
}

// ByIDs returns the domain [["id", "in", ids]].
func ByIDs(ids []int64) Domain {
	if ids == nil {
		ids = []int64{}
	}
	return Domain{Cond("id", "in", ids)}
}
