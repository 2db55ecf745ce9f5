// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package odoo

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestFieldMap_MarshalKeepsInsertionOrder(t *testing.T) {
	m := NewFieldMap().
		Set("name", String("Azure Interior")).
		Set("active", Bool(true)).
		Set("credit_limit", Float(2500.5)).
		Set("company_id", Int(1)).
		Set("category_id", IDs(3, 4)).
		Set("comment", Null())
	m.Set("name", String("Azure"))

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"name":"Azure","active":true,"credit_limit":2500.5,"company_id":1,"category_id":[3,4],"comment":null}`
	if string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}

func TestFieldMap_UnmarshalKeepsOrder(t *testing.T) {
	var m FieldMap
	in := `{"zeta":1,"alpha":"x","mid":[1,2],"price":9.5,"flag":false,"none":null}`
	if err := json.Unmarshal([]byte(in), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got, want := m.Keys(), []string{"zeta", "alpha", "mid", "price", "flag", "none"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	kinds := map[string]Kind{"zeta": KindInt, "alpha": KindString, "mid": KindIDs, "price": KindFloat, "flag": KindBool, "none": KindNull}
	for k, want := range kinds {
		v, _ := m.Get(k)
		if v.Kind() != want {
			t.Errorf("%s kind = %v, want %v", k, v.Kind(), want)
		}
	}
}

func TestFieldMap_UnmarshalRejectsNested(t *testing.T) {
	var m FieldMap
	if err := json.Unmarshal([]byte(`{"x":{"y":1}}`), &m); err == nil {
		t.Error("Unmarshal() should reject nested objects")
	}
	if err := json.Unmarshal([]byte(`{"x":["a"]}`), &m); err == nil {
		t.Error("Unmarshal() should reject non-id lists")
	}
}

func TestFieldMap_Delete(t *testing.T) {
	m := NewFieldMap().Set("a", Int(1)).Set("b", Int(2)).Set("c", Int(3))
	m.Delete("b")
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Keys() = %v", got)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{String("x"), "x"},
		{Int(-3), "-3"},
		{Float(1.25), "1.25"},
		{Bool(true), "true"},
		{IDs(1, 2), "[1,2]"},
		{Null(), "null"},
		{Value{}, "null"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestValue_EmptyIDsMarshalAsList(t *testing.T) {
	b, _ := json.Marshal(IDs())
	if string(b) != "[]" {
		t.Errorf("Marshal(IDs()) = %s, want []", b)
	}
}

func TestValue_RejectsNonFiniteFloats(t *testing.T) {
	tests := []struct {
		name string
		f    float64
	}{
		{name: "NaN", f: math.NaN()},
		{name: "+Inf", f: math.Inf(1)},
		{name: "-Inf", f: math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Float(tt.f).Validate(); !errors.Is(err, ErrNonFinite) {
				t.Errorf("Validate() = %v, want ErrNonFinite", err)
			}
			if _, err := json.Marshal(Float(tt.f)); !errors.Is(err, ErrNonFinite) {
				t.Errorf("Marshal() error = %v, want ErrNonFinite", err)
			}
			if _, err := ValueOf(tt.f); !errors.Is(err, ErrNonFinite) {
				t.Errorf("ValueOf() error = %v, want ErrNonFinite", err)
			}
			m := NewFieldMap().Set("name", String("a")).Set("price", Float(tt.f))
			if err := m.Validate(); !errors.Is(err, ErrNonFinite) {
				t.Errorf("FieldMap.Validate() = %v, want ErrNonFinite", err)
			}
		})
	}

	if err := NewFieldMap().Set("price", Float(12.5)).Validate(); err != nil {
		t.Errorf("finite float rejected: %v", err)
	}
}

func TestDomain_Marshal(t *testing.T) {
	tests := []struct {
		name string
		d    Domain
		want string
	}{
		{name: "nil", d: nil, want: `[]`},
		{name: "condition", d: Domain{Cond("id", "=", 7)}, want: `[["id","=",7]]`},
		{
			name: "prefix operators",
			d:    Domain{Or, Cond("name", "ilike", "az"), Not, Cond("active", "=", false)},
			want: `["|",["name","ilike","az"],"!",["active","=",false]]`,
		},
		{name: "ids", d: ByIDs([]int64{1, 2}), want: `[["id","in",[1,2]]]`},
		{name: "empty ids", d: ByIDs(nil), want: `[["id","in",[]]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.d)
			if err != nil {
				t.Fatal(err)
			}
			if string(b) != tt.want {
				t.Errorf("Marshal() = %s, want %s", b, tt.want)
			}
		})
	}
}

func TestParseDomain(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: ``, want: `[]`},
		{in: `[]`, want: `[]`},
		{in: `[["state","in",["draft","sent"]]]`, want: `[["state","in",["draft","sent"]]]`},
		{in: `["&",["a","=",1],["b","!=",false]]`, want: `["&",["a","=",1],["b","!=",false]]`},
		{in: `["?"]`, wantErr: true},
		{in: `[["a","="]]`, wantErr: true},
		{in: `{"a":1}`, wantErr: true},
	}
	for _, tt := range tests {
		d, err := ParseDomain(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDomain(%q) error = nil, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDomain(%q) error = %v", tt.in, err)
			continue
		}
		b, _ := json.Marshal(d)
		if string(b) != tt.want {
			t.Errorf("ParseDomain(%q) = %s, want %s", tt.in, b, tt.want)
		}
	}
}

func TestAnyOfAndJoin(t *testing.T) {
	d := AnyOf(Cond("name", "ilike", "x"), Cond("email", "ilike", "x"), Cond("ref", "ilike", "x"))
	b, _ := json.Marshal(d)
	want := `["|","|",["name","ilike","x"],["email","ilike","x"],["ref","ilike","x"]]`
	if string(b) != want {
		t.Errorf("AnyOf() = %s, want %s", b, want)
	}

	j := Join(Domain{Cond("active", "=", true)}, nil, AnyOf(Cond("a", "=", 1), Cond("b", "=", 2)))
	b, _ = json.Marshal(j)
	want = `["&",["active","=",true],"|",["a","=",1],["b","=",2]]`
	if string(b) != want {
		t.Errorf("Join() = %s, want %s", b, want)
	}

	if AnyOf() != nil {
		t.Error("AnyOf() with no terms should be nil")
	}
}

func TestPlainValue(t *testing.T) {
	in := map[string]any{
		"id":         json.Number("7"),
		"list_price": json.Number("12.5"),
		"partner_id": []any{json.Number("3"), "Acme"},
		"lines":      []any{map[string]any{"qty": json.Number("2")}},
		"active":     true,
	}
	want := map[string]any{
		"id":         int64(7),
		"list_price": 12.5,
		"partner_id": []any{int64(3), "Acme"},
		"lines":      []any{map[string]any{"qty": int64(2)}},
		"active":     true,
	}
	if got := PlainValue(in); !reflect.DeepEqual(got, want) {
		t.Errorf("PlainValue() = %#v, want %#v", got, want)
	}
	if _, ok := in["id"].(json.Number); !ok {
		t.Error("PlainValue must not modify its input")
	}
}

func TestRecord_Helpers(t *testing.T) {
	var r Record
	if err := decode([]byte(`{"id":12,"name":"Azure","email":false,"partner_id":[3,"Deco Addict"],"amount":10.50}`), &r); err != nil {
		t.Fatal(err)
	}
	if id, ok := r.ID(); !ok || id != 12 {
		t.Errorf("ID() = %d, %v", id, ok)
	}
	if r.String("email") != "" {
		t.Errorf("String(email) = %q, want empty for false", r.String("email"))
	}
	if r.String("partner_id") != "Deco Addict" {
		t.Errorf("String(partner_id) = %q", r.String("partner_id"))
	}
	if r.String("amount") != "10.50" {
		t.Errorf("String(amount) = %q, want exact number", r.String("amount"))
	}
	id, label, ok := r.Relation("partner_id")
	if !ok || id != 3 || label != "Deco Addict" {
		t.Errorf("Relation() = %d, %q, %v", id, label, ok)
	}
	if _, _, ok := r.Relation("email"); ok {
		t.Error("Relation() on false should report not set")
	}
}

func TestOptions_Page(t *testing.T) {
	o := Page(3, 25)
	if *o.Limit != 25 || *o.Offset != 50 {
		t.Errorf("Page(3, 25) = limit %d offset %d", *o.Limit, *o.Offset)
	}
	o = Page(0, 10)
	if *o.Offset != 0 {
		t.Errorf("Page(0, 10) offset = %d, want 0", *o.Offset)
	}
}
