// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"odoogate/cli/internal/rpc"
)

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

// printVersion prints the CLI version and, when a server is configured, the
// version Odoo reports through common.version.
func printVersion(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "odoogate %s\n", Version)

	a, err := loadApp(cmd)
	if err != nil || a.cfg.URL == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	v, err := rpc.FetchVersion(ctx, rpc.NewHTTP(rpc.Endpoint(a.cfg.URL), a.transportOptions()...))
	if err != nil {
		fmt.Fprintln(out, "server unknown")
		return nil
	}
	fmt.Fprintf(out, "server %s\n", v.ServerVersion)
	return nil
}
