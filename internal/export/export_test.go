// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"odoogate/cli/internal/odoo"
)

// pagedSource serves n records with ids 1..n and records every page request.
type pagedSource struct {
	n      int
	total  int64
	failAt int
	calls  []odoo.Options
	fields [][]string
}

func (s *pagedSource) SearchRead(_ context.Context, _ string, _ odoo.Domain, fields []string, opts odoo.Options) ([]odoo.Record, error) {
	s.calls = append(s.calls, opts)
	s.fields = append(s.fields, fields)
	off, lim := *opts.Offset, *opts.Limit
	if s.failAt > 0 && off >= s.failAt {
		return nil, errors.New("boom")
	}
	var out []odoo.Record
	for i := off; i < s.n && i < off+lim; i++ {
		out = append(out, odoo.Record{"id": int64(i + 1), "name": fmt.Sprintf("r%d", i+1)})
	}
	return out, nil
}

func (s *pagedSource) Count(context.Context, string, odoo.Domain) (int64, error) {
	return s.total, nil
}

type memorySink struct {
	prepared string
	rows     map[int64]odoo.Record
	pages    int
}

func (m *memorySink) Prepare(_ context.Context, table string) error {
	m.prepared = table
	m.rows = map[int64]odoo.Record{}
	return nil
}

func (m *memorySink) Upsert(_ context.Context, _ string, _ string, records []odoo.Record) (int64, error) {
	m.pages++
	for _, r := range records {
		id, _ := r.ID()
		m.rows[id] = r
	}
	return int64(len(records)), nil
}

func TestRun_PagesUntilShortPage(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		batch     int
		wantPages int
		wantCalls int
	}{
		{name: "exact multiple needs a trailing empty read", n: 6, batch: 3, wantPages: 2, wantCalls: 3},
		{name: "short last page", n: 7, batch: 3, wantPages: 3, wantCalls: 3},
		{name: "empty model", n: 0, batch: 3, wantPages: 0, wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &pagedSource{n: tt.n, total: int64(tt.n)}
			sink := &memorySink{}
			var last int64
			res, err := Run(context.Background(), src, sink, Spec{Model: "res.partner", BatchSize: tt.batch}, func(done, total int64) {
				last = done
				if total != int64(tt.n) {
					t.Errorf("progress total = %d, want %d", total, tt.n)
				}
			})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.Pages != tt.wantPages || res.Records != int64(tt.n) || len(src.calls) != tt.wantCalls {
				t.Errorf("Run() = %+v after %d calls, want %d pages %d calls", res, len(src.calls), tt.wantPages, tt.wantCalls)
			}
			if len(sink.rows) != tt.n {
				t.Errorf("sink rows = %d, want %d", len(sink.rows), tt.n)
			}
			if tt.n > 0 && last != int64(tt.n) {
				t.Errorf("last progress = %d, want %d", last, tt.n)
			}
			if sink.prepared != "odoo_res_partner" {
				t.Errorf("prepared table = %q", sink.prepared)
			}
			for i, o := range src.calls {
				if o.Order != "id ASC" || *o.Offset != i*tt.batch {
					t.Errorf("call %d options = order %q offset %d", i, o.Order, *o.Offset)
				}
			}
		})
	}
}

func TestRun_AddsIDToExplicitFields(t *testing.T) {
	src := &pagedSource{n: 1}
	if _, err := Run(context.Background(), src, &memorySink{}, Spec{Model: "res.partner", Fields: []string{"name"}}, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(src.fields[0], ","); got != "id,name" {
		t.Errorf("fields = %q, want id,name", got)
	}
}

func TestRun_ReadErrorStops(t *testing.T) {
	src := &pagedSource{n: 10, failAt: 4}
	sink := &memorySink{}
	res, err := Run(context.Background(), src, sink, Spec{Model: "res.partner", BatchSize: 2}, nil)
	if err == nil || !strings.Contains(err.Error(), "offset 4") {
		t.Fatalf("Run() error = %v, want failure at offset 4", err)
	}
	if res.Records != 4 {
		t.Errorf("records before failure = %d, want 4", res.Records)
	}
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		want    Spec
		wantErr bool
	}{
		{name: "defaults", spec: Spec{Model: "sale.order"}, want: Spec{Model: "sale.order", Table: "odoo_sale_order", BatchSize: DefaultBatchSize}},
		{name: "clamped", spec: Spec{Model: "m", Table: "t", BatchSize: 1 << 20}, want: Spec{Model: "m", Table: "t", BatchSize: MaxBatchSize}},
		{name: "schema table", spec: Spec{Model: "m", Table: "staging.partners", BatchSize: 10}, want: Spec{Model: "m", Table: "staging.partners", BatchSize: 10}},
		{name: "no model", spec: Spec{}, wantErr: true},
		{name: "injection", spec: Spec{Model: "m", Table: `x"; DROP TABLE y; --`}, wantErr: true},
		{name: "three parts", spec: Spec{Model: "m", Table: "a.b.c"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (got.Table != tt.want.Table || got.BatchSize != tt.want.BatchSize) {
				t.Errorf("Validate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

type recordingExec struct {
	sql  []string
	args [][]any
}

func (r *recordingExec) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql = append(r.sql, sql)
	r.args = append(r.args, args)
	return pgconn.NewCommandTag(fmt.Sprintf("INSERT 0 %d", (len(args)-2)/2)), nil
}

func TestPostgres_PrepareQuotesIdentifier(t *testing.T) {
	db := &recordingExec{}
	if err := NewPostgres(db).Prepare(context.Background(), "staging.odoo_partner"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(db.sql[0], `CREATE TABLE IF NOT EXISTS "staging"."odoo_partner"`) {
		t.Errorf("Prepare() sql = %s", db.sql[0])
	}
}

func TestPostgres_UpsertStatement(t *testing.T) {
	db := &recordingExec{}
	p := NewPostgres(db)
	stamp := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	p.now = func() time.Time { return stamp }

	n, err := p.Upsert(context.Background(), "odoo_partner", "res.partner", []odoo.Record{
		{"id": int64(7), "name": "Azure"},
		{"id": int64(9), "name": "Deco"},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Upsert() rows = %d, want 2", n)
	}

	sql, args := db.sql[0], db.args[0]
	for _, want := range []string{`INSERT INTO "odoo_partner"`, "($3, $1, $4::jsonb, $2), ($5, $1, $6::jsonb, $2)", "ON CONFLICT (id) DO UPDATE"} {
		if !strings.Contains(sql, want) {
			t.Errorf("sql missing %q:\n%s", want, sql)
		}
	}
	if args[0] != "res.partner" || args[1] != stamp || args[2] != int64(7) || args[3] != `{"id":7,"name":"Azure"}` {
		t.Errorf("args = %v", args)
	}
}

func TestPostgres_UpsertRejectsRecordWithoutID(t *testing.T) {
	db := &recordingExec{}
	_, err := NewPostgres(db).Upsert(context.Background(), "t", "m", []odoo.Record{{"name": "x"}})
	if err == nil {
		t.Fatal("Upsert() should fail for a record without id")
	}
	if len(db.sql) != 0 {
		t.Error("nothing should be executed")
	}
}

func TestPostgres_UpsertEmptyIsNoop(t *testing.T) {
	db := &recordingExec{}
	n, err := NewPostgres(db).Upsert(context.Background(), "t", "m", nil)
	if err != nil || n != 0 || len(db.sql) != 0 {
		t.Errorf("Upsert(nil) = %d, %v with %d statements", n, err, len(db.sql))
	}
}
