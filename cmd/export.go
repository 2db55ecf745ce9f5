// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"odoogate/cli/internal/export"
	"odoogate/cli/internal/httperrors"
	"odoogate/cli/internal/odoo"
)

var (
	exportTable  string
	exportDomain string
	exportFields string
	exportBatch  int
	exportDSN    string
)

// exportCmd copies the records of a model into PostgreSQL.
var exportCmd = &cobra.Command{
	Use:   "export <model>",
	Short: "Copy records of a model into a PostgreSQL table",
	Long: `The export command pages through a model in id order and upserts every record
into a PostgreSQL table as a JSONB document keyed by the Odoo id. Running it
again refreshes existing rows.

The table defaults to odoo_<model> with dots replaced by underscores and is
created when missing. The target database comes from --dsn, ODOOGATE_EXPORT_DSN
or the DSN saved by 'odoogate connect'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		domain, err := odoo.ParseDomain(exportDomain)
		if err != nil {
			return fmt.Errorf("--domain: %w", err)
		}
		spec, err := export.Spec{
			Model:     args[0],
			Table:     exportTable,
			Domain:    domain,
			Fields:    splitList(exportFields),
			BatchSize: exportBatch,
		}.Validate()
		if err != nil {
			return err
		}

		dsn, _, err := resolveDSN(a, exportDSN)
		if err != nil {
			return err
		}
		// Listing failures must stop an export rather than look like the end of data.
		s, err := a.session(odoo.WithStrictReads())
		if err != nil {
			return err
		}

		pool, err := export.Open(ctx, dsn)
		if err != nil {
			return httperrors.FormatNetworkError(err, hostOfDSN(dsn), "connecting to PostgreSQL")
		}
		defer pool.Close()

		var bar *pterm.ProgressbarPrinter
		var shown int64
		progress := func(done, total int64) {
			if total <= 0 || a.cfg.Output != "table" {
				return
			}
			if bar == nil {
				bar, _ = pterm.DefaultProgressbar.WithTotal(int(total)).WithTitle("Exporting " + spec.Model).Start()
			}
			if bar != nil {
				bar.Add(int(done - shown))
				shown = done
			}
		}

		res, err := export.Run(ctx, s, export.NewPostgres(pool), spec, progress)
		if bar != nil {
			_, _ = bar.Stop()
		}
		if err != nil {
			return err
		}
		if a.cfg.Output != "table" {
			return a.emit(map[string]any{"model": spec.Model, "table": spec.Table, "records": res.Records, "pages": res.Pages}, nil)
		}
		pterm.Success.Printf("Exported %d %s records into %s\n", res.Records, spec.Model, spec.Table)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	f := exportCmd.Flags()
	f.StringVar(&exportTable, "table", "", "Target table, optionally schema.table (default odoo_<model>)")
	f.StringVar(&exportDomain, "domain", "", "Odoo domain as JSON")
	f.StringVar(&exportFields, "fields", "", "Comma-separated fields to export (default all)")
	f.IntVar(&exportBatch, "batch-size", export.DefaultBatchSize, "Records per page")
	f.StringVar(&exportDSN, "dsn", "", "PostgreSQL DSN (default from ODOOGATE_EXPORT_DSN or the keychain)")
}
