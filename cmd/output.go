// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"odoogate/cli/internal/odoo"
)

// emit writes v as JSON or YAML, or renders table for the table format.
func (a *app) emit(v any, table func() pterm.TableData) error {
	return render(a.out, a.cfg.Output, v, table)
}

func render(w io.Writer, format string, v any, table func() pterm.TableData) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		data := table()
		if len(data) <= 1 {
			_, err := fmt.Fprintln(w, "No records.")
			return err
		}
		s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	}
}

// columns picks the table columns for records: the requested fields, or every
// field present with id first.
func columns(records []odoo.Record, fields []string) []string {
	if len(fields) > 0 {
		cols := []string{"id"}
		for _, f := range fields {
			if f != "id" {
				cols = append(cols, f)
			}
		}
		return cols
	}
	seen := map[string]bool{}
	var rest []string
	for _, r := range records {
		for k := range r {
			if k != "id" && !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	return append([]string{"id"}, rest...)
}

// recordTable lays records out one per row.
func recordTable(records []odoo.Record, fields []string) pterm.TableData {
	cols := columns(records, fields)
	data := pterm.TableData{cols}
	for _, r := range records {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = truncate(r.String(c), 60)
		}
		data = append(data, row)
	}
	return data
}

// idTable lists ids in a single column.
func idTable(ids []int64) pterm.TableData {
	data := pterm.TableData{{"id"}}
	for _, id := range ids {
		data = append(data, []string{strconv.FormatInt(id, 10)})
	}
	return data
}

// fieldTable describes a model's fields sorted by name.
func fieldTable(fields map[string]odoo.FieldInfo) pterm.TableData {
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)
	data := pterm.TableData{{"field", "type", "label", "required", "readonly", "relation"}}
	for _, n := range names {
		f := fields[n]
		data = append(data, []string{n, f.Type, f.String, yesNo(f.Required), yesNo(f.Readonly), f.Relation})
	}
	return data
}

// keyValueTable renders a two-column summary.
func keyValueTable(pairs ...string) pterm.TableData {
	data := pterm.TableData{{"key", "value"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		data = append(data, []string{pairs[i], pairs[i+1]})
	}
	return data
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
