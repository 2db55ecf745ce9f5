// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"odoogate/cli/internal/odoo"
)

var (
	createFile     string
	createMultiple bool
)

// createCmd creates records from assignments or a JSON file.
var createCmd = &cobra.Command{
	Use:   "create <model> [field=value...]",
	Short: "Create one or more records",
	Long: `The create command creates a record from field=value arguments, or records
read from a JSON file with --file (use - for stdin).

Values are typed: true and false are booleans, null clears a field, numbers are
integers or decimals, [1,2] is a list of ids and quoted values stay strings.

With --multiple, every record in the file is sent in a single call and the new
ids are printed in order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, s *odoo.Session, args []string) error {
		model := args[0]
		var records []*odoo.FieldMap
		switch {
		case createFile != "" && len(args) > 1:
			return errors.New("use either field=value arguments or --file")
		case createFile != "":
			var err error
			if records, err = readRecords(createFile, cmd.InOrStdin()); err != nil {
				return err
			}
		default:
			values, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			if values.Len() == 0 {
				return errors.New("nothing to create: pass field=value arguments or --file")
			}
			records = []*odoo.FieldMap{values}
		}

		var ids []int64
		if createMultiple {
			var err error
			if ids, err = s.CreateBatch(cmd.Context(), model, records, true); err != nil {
				return err
			}
		} else {
			for _, r := range records {
				id, err := s.Create(cmd.Context(), model, r)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
		}
		if a.cfg.Output == "table" {
			pterm.Success.Printf("Created %s %s\n", model, joinIDs(ids))
			return nil
		}
		return a.emit(map[string]any{"model": model, "ids": ids}, nil)
	}),
}

// updateCmd writes values to one record.
var updateCmd = &cobra.Command{
	Use:   "update <model> <id> field=value...",
	Short: "Update fields of a record",
	Args:  cobra.MinimumNArgs(3),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, s *odoo.Session, args []string) error {
		ids, err := parseIDs(args[1:2])
		if err != nil {
			return err
		}
		values, err := parseAssignments(args[2:])
		if err != nil {
			return err
		}
		ok, err := s.Update(cmd.Context(), args[0], ids[0], values)
		if err != nil {
			return err
		}
		return reportBool(a, ok, fmt.Sprintf("Updated %s %d", args[0], ids[0]))
	}),
}

// deleteCmd removes records; several ids go through the batch delete.
var deleteCmd = &cobra.Command{
	Use:     "delete <model> <id>...",
	Aliases: []string{"unlink"},
	Short:   "Delete records",
	Args:    cobra.MinimumNArgs(2),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, s *odoo.Session, args []string) error {
		model := args[0]
		ids, err := parseIDs(args[1:])
		if err != nil {
			return err
		}
		var ok bool
		if len(ids) == 1 {
			ok, err = s.Delete(cmd.Context(), model, ids[0])
		} else {
			ok, err = s.DeleteBatch(cmd.Context(), model, ids)
		}
		if err != nil {
			return err
		}
		return reportBool(a, ok, fmt.Sprintf("Deleted %s %s", model, joinIDs(ids)))
	}),
}

func reportBool(a *app, ok bool, msg string) error {
	if a.cfg.Output != "table" {
		return a.emit(map[string]bool{"ok": ok}, nil)
	}
	if !ok {
		return errors.New("the server reported that nothing was changed")
	}
	pterm.Success.Println(msg)
	return nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(createCmd, updateCmd, deleteCmd)
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "JSON file with a record or a list of records (- for stdin)")
	createCmd.Flags().BoolVar(&createMultiple, "multiple", false, "Create all records of --file in one call")
}
