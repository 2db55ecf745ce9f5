// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ServerVersion is the payload of common.version.
type ServerVersion struct {
	ServerVersion   string `json:"server_version"`
	ServerSerie     string `json:"server_serie"`
	ProtocolVersion int    `json:"protocol_version"`
}

// FetchVersion calls common.version, which needs no authentication.
// It can be used to check connectivity to the Odoo server.
func FetchVersion(ctx context.Context, c Caller) (ServerVersion, error) {
	var v ServerVersion
	raw, err := c.Call(ctx, "common", "version", nil)
	if err != nil {
		return v, err
	}
	if IsNull(raw) {
		return v, errors.New("odoo common.version: empty result")
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("odoo common.version: %w", err)
	}
	return v, nil
}
