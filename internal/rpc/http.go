// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTP implements Caller over HTTP POST.
type HTTP struct {
	// endpoint is the full JSON-RPC URL (e.g., "https://erp.example.com/jsonrpc")
	endpoint string
	// client is the underlying HTTP client; its timeout is the only one applied
	client *http.Client
	// userAgent is sent on every request when set
	userAgent string
	// now supplies the envelope id
	now func() time.Time
}

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithTimeout bounds each request. Zero keeps the client's own behavior.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		if d > 0 {
			c := *h.client
			c.Timeout = d
			h.client = &c
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(h *HTTP) {
		h.userAgent = ua
	}
}

// NewHTTP creates a transport posting to endpoint.
// Without options it uses a fresh http.Client with no timeout.
func NewHTTP(endpoint string, opts ...Option) *HTTP {
	h := &HTTP{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Endpoint returns the URL this transport posts to.
func (h *HTTP) Endpoint() string {
	return h.endpoint
}

// Call posts one envelope and unwraps the response.
func (h *HTTP) Call(ctx context.Context, service, method string, args []any) (json.RawMessage, error) {
	fail := func(status int, err error) error {
		return &TransportError{Service: service, Method: method, URL: h.endpoint, StatusCode: status, Err: err}
	}

	body, err := json.Marshal(NewRequest(service, method, args, h.now().Unix()))
	if err != nil {
		return nil, fail(0, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fail(0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fail(resp.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(b))))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return out.unwrap(service, method)
}
