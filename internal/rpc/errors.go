// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rpc

import (
	"fmt"
)

// TransportError reports a failure below the JSON-RPC layer: the request could not be
// sent, the server answered with a non-2xx status, or the body was not a JSON envelope.
type TransportError struct {
	Service    string
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("odoo %s.%s: HTTP %d: %v", e.Service, e.Method, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("odoo %s.%s: %v", e.Service, e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteProcedureError is a structured error returned by the Odoo server.
// Message is the remote error.message, unmodified.
type RemoteProcedureError struct {
	Service string
	Method  string
	Code    int
	Message string
	Data    *ErrorData
}

func (e *RemoteProcedureError) Error() string {
	return e.Message
}

// Detail returns the server exception message when Odoo attached one,
// falling back to the top-level message.
func (e *RemoteProcedureError) Detail() string {
	if e.Data != nil && e.Data.Message != "" {
		return e.Data.Message
	}
	return e.Message
}

// ExceptionName returns the Python exception class reported by the server, if any.
func (e *RemoteProcedureError) ExceptionName() string {
	if e.Data == nil {
		return ""
	}
	return e.Data.Name
}
