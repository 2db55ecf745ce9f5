// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package odoo

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
)

// call is one request seen by fakeOdoo, with args re-decoded from their JSON form.
type call struct {
	Service string
	Method  string
	Args    []any
}

// odooMethod returns the model method of an execute_kw call.
func (c call) odooMethod() string {
	if c.Service != "object" || len(c.Args) < 5 {
		return c.Method
	}
	m, _ := c.Args[4].(string)
	return m
}

// kwargs returns the keyword arguments of an execute_kw call, or nil when absent.
func (c call) kwargs() map[string]any {
	if len(c.Args) < 7 {
		return nil
	}
	kw, _ := c.Args[6].(map[string]any)
	return kw
}

// fakeOdoo is an rpc.Caller that answers authenticate with uid and every model
// method from replies, recording each call.
type fakeOdoo struct {
	mu      sync.Mutex
	uid     string
	replies map[string]reply
	calls   []call
}

type reply struct {
	result string
	err    error
}

func newFakeOdoo() *fakeOdoo {
	return &fakeOdoo{uid: "2", replies: map[string]reply{}}
}

func (f *fakeOdoo) on(method, result string) *fakeOdoo {
	f.replies[method] = reply{result: result}
	return f
}

func (f *fakeOdoo) fail(method string, err error) *fakeOdoo {
	f.replies[method] = reply{err: err}
	return f
}

func (f *fakeOdoo) Call(_ context.Context, service, method string, args []any) (json.RawMessage, error) {
	b, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	var decoded []any
	if err := json.Unmarshal(b, &decoded); err != nil {
		return nil, err
	}
	c := call{Service: service, Method: method, Args: decoded}

	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	key := c.odooMethod()
	if service == "common" && method == "authenticate" {
		if r, ok := f.replies["authenticate"]; ok {
			return toRaw(r)
		}
		return json.RawMessage(f.uid), nil
	}
	r, ok := f.replies[key]
	if !ok {
		return nil, nil
	}
	return toRaw(r)
}

func toRaw(r reply) (json.RawMessage, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.result == "" {
		return nil, nil
	}
	return json.RawMessage(r.result), nil
}

func (f *fakeOdoo) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.odooMethod() == method {
			n++
		}
	}
	return n
}

func (f *fakeOdoo) last(method string) (call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].odooMethod() == method {
			return f.calls[i], true
		}
	}
	return call{}, false
}

func testConfig() Config {
	return Config{URL: "http://odoo.test", Database: "prod", Username: "admin", Password: "secret"}
}

func newTestSession(t *testing.T, f *fakeOdoo, opts ...Option) *Session {
	t.Helper()
	c, err := New(testConfig(), append([]Option{WithCaller(f)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c.Session("test")
}
