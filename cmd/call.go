// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"odoogate/cli/internal/odoo"
	"odoogate/cli/internal/rpc"
)

var (
	callArgs   string
	callKwargs string
)

// callCmd invokes any model method through execute_kw.
var callCmd = &cobra.Command{
	Use:   "call <model> <method>",
	Short: "Call a model method with raw arguments",
	Long: `The call command sends execute_kw for any model method and prints the raw
result. Positional arguments are a JSON array (--args) and keyword arguments a
JSON object (--kwargs), for example:

  odoogate call sale.order action_confirm --args '[[42]]'`,
	Args: cobra.ExactArgs(2),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, s *odoo.Session, args []string) error {
		positional, kwargs, err := decodeJSONArgs(callArgs, callKwargs)
		if err != nil {
			return err
		}
		raw, err := s.Execute(cmd.Context(), args[0], args[1], positional, kwargs)
		if err != nil {
			return err
		}
		if a.cfg.Output == "yaml" {
			v, err := decodeResult(raw)
			if err != nil {
				return err
			}
			return a.emit(v, nil)
		}
		if rpc.IsNull(raw) {
			raw = json.RawMessage("null")
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			buf.Reset()
			buf.Write(raw)
		}
		_, err = fmt.Fprintln(a.out, buf.String())
		return err
	}),
}

// decodeResult decodes a raw method result for YAML output. Methods returning
// None yield a null or empty result, which decodes to nil.
func decodeResult(raw json.RawMessage) (any, error) {
	if rpc.IsNull(raw) {
		return nil, nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return odoo.PlainValue(v), nil
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVar(&callArgs, "args", "", "Positional arguments as a JSON array")
	callCmd.Flags().StringVar(&callKwargs, "kwargs", "", "Keyword arguments as a JSON object")
}
