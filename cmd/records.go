// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"odoogate/cli/internal/odoo"
)

var (
	recordFields string
	recordDomain string
	searchLimit  int
	searchOrder  string
)

// getCmd prints one record by id.
var getCmd = &cobra.Command{
	Use:   "get <model> <id>",
	Short: "Show one record",
	Args:  cobra.ExactArgs(2),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, s *odoo.Session, args []string) error {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		fields := splitList(recordFields)
		rec, ok, err := s.Get(cmd.Context(), args[0], id, fields)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s %d not found", args[0], id)
		}
		return a.emit(rec, func() pterm.TableData {
			cols := columns([]odoo.Record{rec}, fields)
			pairs := make([]string, 0, 2*len(cols))
			for _, c := range cols {
				pairs = append(pairs, c, rec.String(c))
			}
			return keyValueTable(pairs...)
		})
	}),
}

// countCmd prints the number of records matching a domain.
var countCmd = &cobra.Command{
	Use:   "count <model>",
	Short: "Count records matching a domain",
	Args:  cobra.ExactArgs(1),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, s *odoo.Session, args []string) error {
		domain, err := odoo.ParseDomain(recordDomain)
		if err != nil {
			return fmt.Errorf("--domain: %w", err)
		}
		n, err := s.Count(cmd.Context(), args[0], domain)
		if err != nil {
			return err
		}
		return a.emit(map[string]any{"model": args[0], "count": n}, func() pterm.TableData {
			return keyValueTable("model", args[0], "count", strconv.FormatInt(n, 10))
		})
	}),
}

// searchCmd prints the ids matching a domain.
var searchCmd = &cobra.Command{
	Use:   "search <model>",
	Short: "List the ids of records matching a domain",
	Args:  cobra.ExactArgs(1),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, s *odoo.Session, args []string) error {
		domain, err := odoo.ParseDomain(recordDomain)
		if err != nil {
			return fmt.Errorf("--domain: %w", err)
		}
		var opts odoo.Options
		if searchLimit > 0 {
			opts = opts.WithLimit(searchLimit)
		}
		if searchOrder != "" {
			opts = opts.WithOrder(searchOrder)
		}
		ids, err := s.Search(cmd.Context(), args[0], domain, opts)
		if err != nil {
			return err
		}
		return a.emit(ids, func() pterm.TableData { return idTable(ids) })
	}),
}

// readCmd prints records by id.
var readCmd = &cobra.Command{
	Use:   "read <model> <id>...",
	Short: "Read records by id",
	Args:  cobra.MinimumNArgs(2),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, s *odoo.Session, args []string) error {
		ids, err := parseIDs(args[1:])
		if err != nil {
			return err
		}
		fields := splitList(recordFields)
		records, err := s.Read(cmd.Context(), args[0], ids, fields)
		if err != nil {
			return err
		}
		return a.emit(records, func() pterm.TableData { return recordTable(records, fields) })
	}),
}

func init() {
	rootCmd.AddCommand(getCmd, countCmd, searchCmd, readCmd)
	for _, c := range []*cobra.Command{getCmd, readCmd} {
		c.Flags().StringVar(&recordFields, "fields", "", "Comma-separated fields to return")
	}
	for _, c := range []*cobra.Command{countCmd, searchCmd} {
		c.Flags().StringVar(&recordDomain, "domain", "", "Odoo domain as JSON")
	}
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of ids")
	searchCmd.Flags().StringVar(&searchOrder, "order", "", "Order clause")
}
