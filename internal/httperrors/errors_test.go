// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"odoogate/cli/internal/rpc"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), KindTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "erp.invalid"}, KindDNS},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, KindConnectionRefused},
		{"tls", errors.New("tls: failed to verify certificate"), KindTLS},
		{"server status", &rpc.TransportError{Service: "object", Method: "execute_kw", StatusCode: 503, Err: errors.New("unexpected response")}, KindServer},
		{"client status", &rpc.TransportError{Service: "object", Method: "execute_kw", StatusCode: 404, Err: errors.New("unexpected response")}, KindGeneric},
		{"other", errors.New("boom"), KindGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractHostFromURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://erp.example.com/jsonrpc", "erp.example.com"},
		{"http://localhost:8069", "localhost:8069"},
		{"not a url", "server"},
	}
	for _, tt := range tests {
		if got := ExtractHostFromURL(tt.in); got != tt.want {
			t.Errorf("ExtractHostFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
