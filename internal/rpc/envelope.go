// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package rpc implements the JSON-RPC 2.0 transport used to talk to an Odoo server.
// Every call is a single HTTP POST carrying a "call" envelope addressed to an Odoo
// service (common, object, db) and method. The package unwraps the response into the
// raw result payload or a structured remote error; it does not authenticate, retry,
// cache or log.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
)

// Version is the JSON-RPC protocol version sent in every envelope.
const Version = "2.0"

// CallMethod is the JSON-RPC method Odoo dispatches service calls through.
const CallMethod = "call"

// Caller sends one service call to an Odoo server and returns the raw result.
// A nil result with a nil error means the server answered without data.
type Caller interface {
	Call(ctx context.Context, service, method string, args []any) (json.RawMessage, error)
}

// Request is the outbound JSON-RPC envelope.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
	ID      int64  `json:"id"`
}

// Params addresses a method on an Odoo service with positional arguments.
type Params struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

// NewRequest builds a call envelope. A nil args slice is sent as an empty list.
func NewRequest(service, method string, args []any, id int64) Request {
	if args == nil {
		args = []any{}
	}
	return Request{
		JSONRPC: Version,
		Method:  CallMethod,
		Params: Params{
			Service: service,
			Method:  method,
			Args:    args,
		},
		ID: id,
	}
}

// Response is the inbound JSON-RPC envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject is the structured error Odoo returns instead of a result.
type ErrorObject struct {
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    *ErrorData `json:"data,omitempty"`
}

// ErrorData carries the server-side exception details Odoo attaches to errors.
type ErrorData struct {
	Name      string `json:"name,omitempty"`
	Message   string `json:"message,omitempty"`
	Debug     string `json:"debug,omitempty"`
	Arguments []any  `json:"arguments,omitempty"`
}

// unwrap returns the result payload, or the remote error when the result is absent.
func (r *Response) unwrap(service, method string) (json.RawMessage, error) {
	if !IsNull(r.Result) {
		return r.Result, nil
	}
	if r.Error != nil {
		return nil, &RemoteProcedureError{
			Service: service,
			Method:  method,
			Code:    r.Error.Code,
			Message: r.Error.Message,
			Data:    r.Error.Data,
		}
	}
	return nil, nil
}

// IsNull reports whether raw is empty or the JSON literal null.
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Endpoint derives the JSON-RPC endpoint from an Odoo base URL.
// URLs already pointing at /jsonrpc are returned unchanged.
func Endpoint(baseURL string) string {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if strings.HasSuffix(u, "/jsonrpc") {
		return u
	}
	return u + "/jsonrpc"
}
