// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package odoo is the model gateway for a remote Odoo server. A Client holds the
// connection parameters and a session store; a Session binds the client to one
// session scope, authenticates lazily on first need and exposes the generic model
// operations (search_read, read, create, write, unlink, search, search_count,
// fields_get) over the rpc transport.
//
// Each operation follows a fixed error policy. Read-style listings swallow failures
// and return empty results, single writes propagate errors unchanged, and batch
// writes wrap failures with the model name. The policy table lives in policy.go.
package odoo

import (
	"errors"
	"strings"

	"odoogate/cli/internal/rpc"
)

// Config holds the Odoo connection parameters. It is supplied once to New and is
// never modified afterwards.
type Config struct {
	// URL is the Odoo base URL (e.g., "https://erp.example.com")
	URL string
	// Database is the Odoo database name
	Database string
	// Username is the login used for common.authenticate
	Username string
	// Password is the user's password or API key
	Password string
}

// Validate reports missing connection parameters.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.URL) == "" {
		missing = append(missing, "url")
	}
	if strings.TrimSpace(c.Database) == "" {
		missing = append(missing, "database")
	}
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "username")
	}
	if len(missing) > 0 {
		return errors.New("odoo config: missing " + strings.Join(missing, ", "))
	}
	return nil
}

// Endpoint returns the JSON-RPC endpoint derived from URL.
func (c Config) Endpoint() string {
	return rpc.Endpoint(c.URL)
}

// String describes the connection without the password.
func (c Config) String() string {
	return c.Username + "@" + c.Database + " (" + c.URL + ")"
}
