// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package export

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"odoogate/cli/internal/odoo"
)

var reTable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}(\.[A-Za-z_][A-Za-z0-9_]{0,62})?$`)

// ValidateTable accepts "table" or "schema.table" made of identifier characters.
func ValidateTable(name string) error {
	if !reTable.MatchString(name) {
		return fmt.Errorf("export: invalid table name %q (use letters, digits and underscores, optionally schema.table)", name)
	}
	return nil
}

// DefaultTable derives a table name from a model name (res.partner -> odoo_res_partner).
func DefaultTable(model string) string {
	return "odoo_" + strings.NewReplacer(".", "_", "-", "_").Replace(model)
}

// identifier quotes a validated table name.
func identifier(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

// Execer is the subset of *pgxpool.Pool the sink uses.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Postgres is a Sink writing JSONB documents into PostgreSQL.
type Postgres struct {
	db  Execer
	now func() time.Time
}

// NewPostgres creates a sink over db.
func NewPostgres(db Execer) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

// Open parses dsn, connects a pool and pings it.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL DSN: %w", err)
	}
	cfg.MaxConns = 4
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Prepare creates the table when missing.
func (p *Postgres) Prepare(ctx context.Context, table string) error {
	if err := ValidateTable(table); err != nil {
		return err
	}
	_, err := p.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+identifier(table)+` (
	id bigint PRIMARY KEY,
	model text NOT NULL,
	data jsonb NOT NULL,
	exported_at timestamptz NOT NULL
)`)
	return err
}

// Upsert writes records in one statement, replacing rows that share an id.
func (p *Postgres) Upsert(ctx context.Context, table, model string, records []odoo.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if err := ValidateTable(table); err != nil {
		return 0, err
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO ` + identifier(table) + ` (id, model, data, exported_at) VALUES `)
	args := make([]any, 0, len(records)*2+2)
	args = append(args, model, p.now().UTC())
	for i, r := range records {
		id, ok := r.ID()
		if !ok {
			return 0, fmt.Errorf("record %d of %s has no integer id", i, model)
		}
		data, err := json.Marshal(r)
		if err != nil {
			return 0, fmt.Errorf("encode %s record %d: %w", model, id, err)
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		n := len(args)
		fmt.Fprintf(&sb, "($%d, $1, $%d::jsonb, $2)", n+1, n+2)
		args = append(args, id, string(data))
	}
	sb.WriteString(` ON CONFLICT (id) DO UPDATE SET model = EXCLUDED.model, data = EXCLUDED.data, exported_at = EXCLUDED.exported_at`)

	tag, err := p.db.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
