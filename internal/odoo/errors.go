// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package odoo

import (
	"fmt"
)

// AuthenticationError reports that common.authenticate did not yield a usable uid.
// Err is set when the call itself failed; it is nil when the server rejected the
// credentials by answering false.
type AuthenticationError struct {
	Scope    string
	Database string
	Username string
	Err      error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("odoo: authentication failed for %q on database %q: %v", e.Username, e.Database, e.Err)
	}
	return fmt.Sprintf("odoo: authentication failed for %q on database %q: invalid credentials", e.Username, e.Database)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// UnexpectedResultShape reports a result that does not match what the Odoo method
// contractually returns. It usually means a server version or schema mismatch.
type UnexpectedResultShape struct {
	Model  string
	Method string
	// Want describes the expected shape (e.g., "integer id")
	Want string
	// Got is the raw result, truncated for display
	Got string
}

func (e *UnexpectedResultShape) Error() string {
	return fmt.Sprintf("odoo %s.%s: unexpected result: want %s, got %s", e.Model, e.Method, e.Want, e.Got)
}

// BatchCreateError wraps any failure of a batch create.
type BatchCreateError struct {
	Model string
	Err   error
}

func (e *BatchCreateError) Error() string {
	return fmt.Sprintf("odoo %s: batch create failed: %v", e.Model, e.Err)
}

func (e *BatchCreateError) Unwrap() error { return e.Err }

// BatchDeleteError wraps any failure of the two-step batch delete.
type BatchDeleteError struct {
	Model string
	Err   error
}

func (e *BatchDeleteError) Error() string {
	return fmt.Sprintf("odoo %s: batch delete failed: %v", e.Model, e.Err)
}

func (e *BatchDeleteError) Unwrap() error { return e.Err }

// shapeError builds an UnexpectedResultShape with a bounded excerpt of raw.
func shapeError(model, method, want string, raw []byte) *UnexpectedResultShape {
	got := string(raw)
	if got == "" {
		got = "null"
	}
	if len(got) > 120 {
		got = got[:120] + "..."
	}
	return &UnexpectedResultShape{Model: model, Method: method, Want: want, Got: got}
}
