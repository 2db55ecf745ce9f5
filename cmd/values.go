// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"odoogate/cli/internal/odoo"
)

// parseValue interprets a command-line value: true/false, integers, decimals,
// null, [1,2] id lists and quoted strings; anything else is a string.
func parseValue(s string) odoo.Value {
	switch s {
	case "true":
		return odoo.Bool(true)
	case "false":
		return odoo.Bool(false)
	case "null":
		return odoo.Null()
	}
	if n := len(s); n >= 2 && (s[0] == '"' && s[n-1] == '"' || s[0] == '\'' && s[n-1] == '\'') {
		return odoo.String(s[1 : n-1])
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return odoo.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strings.ContainsAny(s, ".eE") {
		return odoo.Float(f)
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		var ids []int64
		if err := json.Unmarshal([]byte(s), &ids); err == nil {
			return odoo.IDs(ids...)
		}
	}
	return odoo.String(s)
}

// parseAssignments turns field=value arguments into an ordered field map.
func parseAssignments(args []string) (*odoo.FieldMap, error) {
	values := odoo.NewFieldMap()
	for _, a := range args {
		key, raw, ok := strings.Cut(a, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (want field=value)", a)
		}
		values.Set(key, parseValue(raw))
	}
	return values, nil
}

// parseIDs parses record ids given as separate arguments or comma lists.
func parseIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid record id %q", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no record ids given")
	}
	return ids, nil
}

// parseID parses exactly one record id; use read for several.
func parseID(arg string) (int64, error) {
	ids, err := parseIDs([]string{arg})
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("expected exactly one record id, got %d (use read for several)", len(ids))
	}
	return ids[0], nil
}

// splitList parses a comma-separated flag into a list; empty input is nil.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readRecords loads records to create from a JSON file ("-" for stdin): one
// object, or a list of objects.
func readRecords(path string, stdin io.Reader) ([]*odoo.FieldMap, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return decodeRecords(data)
}

func decodeRecords(data []byte) ([]*odoo.FieldMap, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("no records in input")
	}
	if data[0] == '[' {
		var list []*odoo.FieldMap
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parse records: %w", err)
		}
		return list, nil
	}
	one := odoo.NewFieldMap()
	if err := json.Unmarshal(data, one); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	return []*odoo.FieldMap{one}, nil
}

// decodeJSONArgs parses --args and --kwargs of the call command.
func decodeJSONArgs(args, kwargs string) ([]any, map[string]any, error) {
	var list []any
	if strings.TrimSpace(args) != "" {
		dec := json.NewDecoder(strings.NewReader(args))
		dec.UseNumber()
		if err := dec.Decode(&list); err != nil {
			return nil, nil, fmt.Errorf("--args must be a JSON array: %w", err)
		}
	}
	if list == nil {
		list = []any{}
	}
	var kw map[string]any
	if strings.TrimSpace(kwargs) != "" {
		dec := json.NewDecoder(strings.NewReader(kwargs))
		dec.UseNumber()
		if err := dec.Decode(&kw); err != nil {
			return nil, nil, fmt.Errorf("--kwargs must be a JSON object: %w", err)
		}
	}
	return list, kw, nil
}
