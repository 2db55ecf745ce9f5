// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package export copies the records of an Odoo model into a PostgreSQL table.
// Records are paged through search_read in id order and upserted page by page
// as JSONB documents keyed by the Odoo id, so a rerun refreshes the table
// instead of duplicating rows.
package export

import (
	"context"
	"errors"
	"fmt"

	"odoogate/cli/internal/odoo"
)

// DefaultBatchSize is the page size used when Spec.BatchSize is zero.
const DefaultBatchSize = 500

// MaxBatchSize bounds a page so one upsert stays under PostgreSQL's bind parameter limit.
const MaxBatchSize = 5000

// Source pages records out of Odoo. *odoo.Session implements it.
type Source interface {
	SearchRead(ctx context.Context, model string, domain odoo.Domain, fields []string, opts odoo.Options) ([]odoo.Record, error)
}

// Counter is implemented by sources that can report the total up front.
type Counter interface {
	Count(ctx context.Context, model string, domain odoo.Domain) (int64, error)
}

// Sink stores pages of records.
type Sink interface {
	// Prepare creates the target table if needed.
	Prepare(ctx context.Context, table string) error
	// Upsert writes records and returns how many rows were written.
	Upsert(ctx context.Context, table, model string, records []odoo.Record) (int64, error)
}

// Spec describes one export.
type Spec struct {
	Model     string
	Table     string
	Domain    odoo.Domain
	Fields    []string
	BatchSize int
}

// Progress is called after every page with the records written so far and the
// expected total (0 when unknown).
type Progress func(done, total int64)

// Result summarizes a finished export.
type Result struct {
	Pages   int
	Records int64
	Total   int64
}

// Validate checks the spec and returns it with defaults applied.
func (s Spec) Validate() (Spec, error) {
	if s.Model == "" {
		return s, errors.New("export: model is required")
	}
	if s.Table == "" {
		s.Table = DefaultTable(s.Model)
	}
	if err := ValidateTable(s.Table); err != nil {
		return s, err
	}
	if s.BatchSize <= 0 {
		s.BatchSize = DefaultBatchSize
	}
	if s.BatchSize > MaxBatchSize {
		s.BatchSize = MaxBatchSize
	}
	return s, nil
}

// Run pages spec.Model from src into sink until a short page.
func Run(ctx context.Context, src Source, sink Sink, spec Spec, progress Progress) (Result, error) {
	var res Result
	spec, err := spec.Validate()
	if err != nil {
		return res, err
	}

	if c, ok := src.(Counter); ok {
		if n, err := c.Count(ctx, spec.Model, spec.Domain); err == nil {
			res.Total = n
		}
	}

	if err := sink.Prepare(ctx, spec.Table); err != nil {
		return res, fmt.Errorf("prepare %s: %w", spec.Table, err)
	}

	fields := spec.Fields
	if fields != nil && !contains(fields, "id") {
		fields = append([]string{"id"}, fields...)
	}

	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		opts := odoo.Options{Order: "id ASC"}.WithLimit(spec.BatchSize).WithOffset(offset)
		page, err := src.SearchRead(ctx, spec.Model, spec.Domain, fields, opts)
		if err != nil {
			return res, fmt.Errorf("read %s at offset %d: %w", spec.Model, offset, err)
		}
		if len(page) == 0 {
			break
		}

		n, err := sink.Upsert(ctx, spec.Table, spec.Model, page)
		if err != nil {
			return res, fmt.Errorf("write %s page %d: %w", spec.Table, res.Pages+1, err)
		}
		res.Pages++
		res.Records += n
		offset += len(page)
		if progress != nil {
			progress(res.Records, res.Total)
		}

		if len(page) < spec.BatchSize {
			break
		}
	}
	return res, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
