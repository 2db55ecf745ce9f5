// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package odoo

import (
	"context"
	"encoding/json"
	"fmt"

	"odoogate/cli/internal/rpc"
)

// execute calls object.execute_kw for model.method. kwargs is appended only when
// it has keys.
func (s *Session) execute(ctx context.Context, model, method string, args []any, kwargs map[string]any) (json.RawMessage, error) {
	uid, err := s.UID(ctx)
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = []any{}
	}
	cfg := s.c.cfg
	full := []any{cfg.Database, uid, cfg.Password, model, method, args}
	if len(kwargs) > 0 {
		full = append(full, kwargs)
	}

	s.c.logger.Debug("odoo execute_kw", s.c.logger.Args("model", model, "method", method, "scope", s.scope))
	return s.c.caller.Call(ctx, "object", "execute_kw", full)
}

// SearchRead returns the records of model matching domain. A nil fields slice
// asks the server for its default fields. Failures yield an empty slice unless
// the client was built WithStrictReads.
func (s *Session) SearchRead(ctx context.Context, model string, domain Domain, fields []string, opts Options) ([]Record, error) {
	records, err := s.searchRead(ctx, model, domain, fields, opts)
	if err = s.settle(opSearchRead, model, err); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (s *Session) searchRead(ctx context.Context, model string, domain Domain, fields []string, opts Options) ([]Record, error) {
	raw, err := s.execute(ctx, model, "search_read", []any{domain}, opts.kwargs(fields))
	if err != nil {
		return nil, err
	}
	return decodeRecords(model, "search_read", raw)
}

// Get returns the record of model with the given id.
func (s *Session) Get(ctx context.Context, model string, id int64, fields []string) (Record, bool, error) {
	return s.GetBy(ctx, model, "id", id, fields)
}

// GetBy returns the first record of model whose field equals value. An empty
// result, or a swallowed failure, reports not found.
func (s *Session) GetBy(ctx context.Context, model, field string, value any, fields []string) (Record, bool, error) {
	records, err := s.searchRead(ctx, model, Domain{Cond(field, "=", value)}, fields, Options{})
	if err = s.settle(opGet, model, err); err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records[0], true, nil
}

// Count returns the number of records of model matching domain.
func (s *Session) Count(ctx context.Context, model string, domain Domain) (int64, error) {
	raw, err := s.execute(ctx, model, "search_count", []any{domain}, nil)
	if err != nil {
		return 0, s.settle(opCount, model, err)
	}
	if rpc.IsNull(raw) {
		return 0, nil
	}
	n, err := decodeInt(model, "search_count", raw)
	if err != nil {
		return 0, s.settle(opCount, model, err)
	}
	return n, nil
}

// Search returns the ids of model matching domain. Failures yield an empty slice
// unless the client was built WithStrictReads.
func (s *Session) Search(ctx context.Context, model string, domain Domain, opts Options) ([]int64, error) {
	ids, err := s.search(ctx, model, domain, opts)
	if err = s.settle(opSearch, model, err); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (s *Session) search(ctx context.Context, model string, domain Domain, opts Options) ([]int64, error) {
	raw, err := s.execute(ctx, model, "search", []any{domain}, opts.kwargs(nil))
	if err != nil {
		return nil, err
	}
	if rpc.IsNull(raw) {
		return nil, nil
	}
	return decodeIntList(model, "search", raw)
}

// Read returns the records of model with the given ids. No call is made when ids
// is empty.
func (s *Session) Read(ctx context.Context, model string, ids []int64, fields []string) ([]Record, error) {
	if len(ids) == 0 {
		return []Record{}, nil
	}
	var kwargs map[string]any
	if fields != nil {
		kwargs = map[string]any{"fields": fields}
	}
	raw, err := s.execute(ctx, model, "read", []any{ids}, kwargs)
	if err != nil {
		return nil, s.settle(opRead, model, err)
	}
	records, err := decodeRecords(model, "read", raw)
	if err != nil {
		return nil, s.settle(opRead, model, err)
	}
	return records, nil
}

// Fields returns the field metadata of model. attributes restricts the reported
// metadata keys (e.g., "type", "string", "required").
func (s *Session) Fields(ctx context.Context, model string, attributes ...string) (map[string]FieldInfo, error) {
	var kwargs map[string]any
	if len(attributes) > 0 {
		kwargs = map[string]any{"attributes": attributes}
	}
	raw, err := s.execute(ctx, model, "fields_get", nil, kwargs)
	if err != nil {
		return nil, s.settle(opFields, model, err)
	}
	out := map[string]FieldInfo{}
	if rpc.IsNull(raw) {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, s.settle(opFields, model, shapeError(model, "fields_get", "field metadata object", raw))
	}
	return out, nil
}

// Create creates one record and returns its id.
func (s *Session) Create(ctx context.Context, model string, values *FieldMap) (int64, error) {
	id, err := s.createOne(ctx, model, values)
	return id, s.settle(opCreate, model, err)
}

func (s *Session) createOne(ctx context.Context, model string, values *FieldMap) (int64, error) {
	if values == nil {
		values = NewFieldMap()
	}
	if err := values.Validate(); err != nil {
		return 0, err
	}
	raw, err := s.execute(ctx, model, "create", []any{values}, nil)
	if err != nil {
		return 0, err
	}
	return decodeInt(model, "create", raw)
}

// CreateBatch creates records. With multiple=false exactly one record is sent as
// a single create and the reply must be an integer id; with multiple=true the
// records are sent as one list and the reply must be a list of ids.
func (s *Session) CreateBatch(ctx context.Context, model string, records []*FieldMap, multiple bool) ([]int64, error) {
	ids, err := s.createBatch(ctx, model, records, multiple)
	if err = s.settle(opCreateBatch, model, err); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Session) createBatch(ctx context.Context, model string, records []*FieldMap, multiple bool) ([]int64, error) {
	if !multiple {
		if len(records) != 1 {
			return nil, fmt.Errorf("single create needs exactly one record, got %d", len(records))
		}
		id, err := s.createOne(ctx, model, records[0])
		if err != nil {
			return nil, err
		}
		return []int64{id}, nil
	}

	if len(records) == 0 {
		return []int64{}, nil
	}
	list := make([]*FieldMap, len(records))
	for i, r := range records {
		if r == nil {
			r = NewFieldMap()
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		list[i] = r
	}
	raw, err := s.execute(ctx, model, "create", []any{list}, nil)
	if err != nil {
		return nil, err
	}
	return decodeIntList(model, "create", raw)
}

// Update writes values to the record with the given id.
func (s *Session) Update(ctx context.Context, model string, id int64, values *FieldMap) (bool, error) {
	if values == nil {
		values = NewFieldMap()
	}
	if err := values.Validate(); err != nil {
		return false, s.settle(opUpdate, model, err)
	}
	raw, err := s.execute(ctx, model, "write", []any{[]int64{id}, values}, nil)
	if err != nil {
		return false, s.settle(opUpdate, model, err)
	}
	ok, err := decodeBool(model, "write", raw)
	return ok, s.settle(opUpdate, model, err)
}

// Delete removes the record with the given id.
func (s *Session) Delete(ctx context.Context, model string, id int64) (bool, error) {
	raw, err := s.execute(ctx, model, "unlink", []any{[]int64{id}}, nil)
	if err != nil {
		return false, s.settle(opDelete, model, err)
	}
	ok, err := decodeBool(model, "unlink", raw)
	return ok, s.settle(opDelete, model, err)
}

// DeleteBatch removes the records with the given ids that still exist. It
// searches first and reports true without calling unlink when none match.
func (s *Session) DeleteBatch(ctx context.Context, model string, ids []int64) (bool, error) {
	ok, err := s.deleteBatch(ctx, model, ids)
	if err = s.settle(opDeleteBatch, model, err); err != nil {
		return false, err
	}
	return ok, nil
}

func (s *Session) deleteBatch(ctx context.Context, model string, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	found, err := s.search(ctx, model, ByIDs(ids), Options{})
	if err != nil {
		return false, err
	}
	if len(found) == 0 {
		return true, nil
	}
	raw, err := s.execute(ctx, model, "unlink", []any{found}, nil)
	if err != nil {
		return false, err
	}
	return decodeBool(model, "unlink", raw)
}

// Execute calls any model method with verbatim positional and keyword arguments
// and returns the raw result.
func (s *Session) Execute(ctx context.Context, model, method string, args []any, kwargs map[string]any) (json.RawMessage, error) {
	raw, err := s.execute(ctx, model, method, args, kwargs)
	if err != nil {
		return nil, s.settle(opExecute, model, err)
	}
	return raw, nil
}

func decodeRecords(model, method string, raw json.RawMessage) ([]Record, error) {
	if rpc.IsNull(raw) {
		return []Record{}, nil
	}
	var records []Record
	if err := decode(raw, &records); err != nil {
		return nil, shapeError(model, method, "list of records", raw)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func decodeInt(model, method string, raw json.RawMessage) (int64, error) {
	var v any
	if err := decode(raw, &v); err != nil {
		return 0, shapeError(model, method, "integer", raw)
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, shapeError(model, method, "integer", raw)
	}
	i, err := n.Int64()
	if err != nil {
		return 0, shapeError(model, method, "integer", raw)
	}
	return i, nil
}

func decodeIntList(model, method string, raw json.RawMessage) ([]int64, error) {
	var v any
	if err := decode(raw, &v); err != nil {
		return nil, shapeError(model, method, "list of integer ids", raw)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, shapeError(model, method, "list of integer ids", raw)
	}
	ids := make([]int64, 0, len(list))
	for _, e := range list {
		n, ok := e.(json.Number)
		if !ok {
			return nil, shapeError(model, method, "list of integer ids", raw)
		}
		id, err := n.Int64()
		if err != nil {
			return nil, shapeError(model, method, "list of integer ids", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// decodeBool reads a boolean reply; null counts as false.
func decodeBool(model, method string, raw json.RawMessage) (bool, error) {
	if rpc.IsNull(raw) {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, shapeError(model, method, "boolean", raw)
	}
	return b, nil
}
