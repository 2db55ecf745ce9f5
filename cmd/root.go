// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for odoogate.
// It implements subcommands for authenticating against an Odoo server, reading and
// writing records through the model gateway, introspecting models and exporting
// records to PostgreSQL, using the Cobra CLI framework with pterm output.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"odoogate/cli/internal/httperrors"
	"odoogate/cli/internal/logging"
	"odoogate/cli/internal/rpc"
)

// Persistent flags shared by every command.
var (
	flagURL     string
	flagDB      string
	flagUser    string
	flagOutput  string
	flagProfile string
	flagVerbose bool
	flagStrict  bool
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "odoogate",
	Short:         "Work with Odoo records from the command line",
	Long:          `odoogate talks to an Odoo server over JSON-RPC: it lists, reads, creates, updates and deletes records, inspects models and exports records to PostgreSQL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			return printVersion(cmd)
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application and exits with status 1 on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagURL, "url", "", "Odoo server URL (overrides ODOO_URL and the config file)")
	pf.StringVar(&flagDB, "db", "", "Odoo database name")
	pf.StringVar(&flagUser, "user", "", "Odoo login")
	pf.StringVarP(&flagOutput, "output", "o", "", "Output format: table, json or yaml")
	pf.StringVar(&flagProfile, "profile", "", "Credential profile name")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log RPC activity at debug level")
	pf.BoolVar(&flagStrict, "strict", false, "Fail listing commands on server errors instead of printing empty results")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and Odoo server version information")
}

// reportError prints err in the most helpful form available.
func reportError(err error) {
	var remote *rpc.RemoteProcedureError
	var transport *rpc.TransportError
	switch {
	case errors.As(err, &remote):
		fmt.Fprintln(os.Stderr, logging.FormatRemoteError(remote))
	case errors.As(err, &transport) && transport.StatusCode == 0:
		_ = httperrors.FormatNetworkError(transport.Err, httperrors.ExtractHostFromURL(transport.URL), "reaching Odoo")
	default:
		fmt.Fprintln(os.Stderr, pterm.Error.Sprint(logging.Describe(err)))
	}
}
