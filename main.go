// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the odoogate CLI application.
// It provides command-line access to Odoo models over JSON-RPC.
package main

import (
	"odoogate/cli/cmd"
)

// main is the entry point for the odoogate CLI application.
func main() {
	cmd.Execute()
}
