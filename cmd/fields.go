// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"odoogate/cli/internal/logging"
	"odoogate/cli/internal/odoo"
)

// fieldAttributes are requested from fields_get for the fields table.
var fieldAttributes = []string{"type", "string", "help", "required", "readonly", "store", "relation", "selection"}

// fieldsCmd prints the field metadata of a model.
var fieldsCmd = &cobra.Command{
	Use:   "fields <model>",
	Short: "Describe the fields of a model",
	Args:  cobra.ExactArgs(1),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, s *odoo.Session, args []string) error {
		fields, err := s.Fields(cmd.Context(), args[0], fieldAttributes...)
		if err != nil {
			return err
		}
		return a.emit(fields, func() pterm.TableData { return fieldTable(fields) })
	}),
}

// probeResult is the outcome of probing one model.
type probeResult struct {
	Model  string `json:"model" yaml:"model"`
	OK     bool   `json:"ok" yaml:"ok"`
	Fields int    `json:"fields" yaml:"fields"`
	Sample int    `json:"sample" yaml:"sample"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// probe checks that model exists and is readable: fields_get, then a one-record search_read.
func probe(ctx context.Context, s *odoo.Session, model string) probeResult {
	res := probeResult{Model: model}
	fields, err := s.Fields(ctx, model, "type")
	if err != nil {
		res.Error = logging.Describe(err)
		return res
	}
	res.Fields = len(fields)
	records, err := s.SearchRead(ctx, model, nil, []string{"id"}, odoo.Options{}.WithLimit(1))
	if err != nil {
		res.Error = logging.Describe(err)
		return res
	}
	res.Sample = len(records)
	res.OK = true
	return res
}

// probeCmd reports per model whether it can be introspected and read.
var probeCmd = &cobra.Command{
	Use:   "probe <model>...",
	Short: "Check that models exist and are readable",
	Long: `The probe command runs fields_get and a one-record search_read on each model
and reports which ones work with the current credentials. Errors are reported
per model instead of being hidden as empty results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.session(odoo.WithStrictReads())
		if err != nil {
			return err
		}
		results := make([]probeResult, 0, len(args))
		for _, model := range args {
			results = append(results, probe(cmd.Context(), s, model))
		}
		return a.emit(results, func() pterm.TableData {
			data := pterm.TableData{{"model", "status", "fields", "sample"}}
			for _, r := range results {
				status := pterm.FgGreen.Sprint("ok")
				if !r.OK {
					status = pterm.FgRed.Sprint(truncate(r.Error, 60))
				}
				data = append(data, []string{r.Model, status, strconv.Itoa(r.Fields), strconv.Itoa(r.Sample)})
			}
			return data
		})
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd, probeCmd)
}
