// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package odoo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pterm/pterm"
	"golang.org/x/sync/singleflight"

	"odoogate/cli/internal/rpc"
)

// SessionStore caches the authenticated uid per session scope.
// Implementations must be safe for concurrent use.
type SessionStore interface {
	// Token returns the cached uid for scope. A missing token is (0, false, nil).
	Token(ctx context.Context, scope string) (int64, bool, error)
	// SetToken caches uid for scope.
	SetToken(ctx context.Context, scope string, uid int64) error
	// Forget drops the cached uid for scope.
	Forget(ctx context.Context, scope string) error
}

// MemoryStore is an in-process SessionStore.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]int64
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]int64)}
}

func (s *MemoryStore) Token(_ context.Context, scope string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uid, ok := s.tokens[scope]
	return uid, ok, nil
}

func (s *MemoryStore) SetToken(_ context.Context, scope string, uid int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[scope] = uid
	return nil
}

func (s *MemoryStore) Forget(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, scope)
	return nil
}

// Client is the model gateway for one Odoo connection.
type Client struct {
	cfg    Config
	caller rpc.Caller
	store  SessionStore
	logger *pterm.Logger
	strict bool
	group  singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithCaller sets the transport. The default is an rpc.HTTP posting to the
// endpoint derived from Config.URL.
func WithCaller(c rpc.Caller) Option {
	return func(cl *Client) {
		if c != nil {
			cl.caller = c
		}
	}
}

// WithStore sets the session store. The default is a MemoryStore.
func WithStore(s SessionStore) Option {
	return func(cl *Client) {
		if s != nil {
			cl.store = s
		}
	}
}

// WithLogger sets the operational logger. The default logs nothing.
func WithLogger(l *pterm.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// WithStrictReads makes the listing operations propagate failures instead of
// returning empty results.
func WithStrictReads() Option {
	return func(cl *Client) {
		cl.strict = true
	}
}

// New validates cfg and returns a gateway.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:    cfg,
		store:  NewMemoryStore(),
		logger: pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.caller == nil {
		c.caller = rpc.NewHTTP(cfg.Endpoint())
	}
	return c, nil
}

// Config returns the connection parameters.
func (c *Client) Config() Config { return c.cfg }

// Caller returns the transport in use.
func (c *Client) Caller() rpc.Caller { return c.caller }

// Session binds the client to a session scope. Sessions are cheap; two sessions
// with the same scope share the cached uid.
func (c *Client) Session(scope string) *Session {
	return &Session{c: c, scope: scope}
}

// Session runs model operations within one session scope.
type Session struct {
	c     *Client
	scope string
}

// Scope returns the session scope.
func (s *Session) Scope() string { return s.scope }

// UID returns the cached uid for the scope, authenticating on first need.
func (s *Session) UID(ctx context.Context) (int64, error) {
	uid, ok, err := s.c.store.Token(ctx, s.scope)
	if err != nil {
		return 0, fmt.Errorf("read session token: %w", err)
	}
	if ok && uid > 0 {
		return uid, nil
	}

	return s.shared(ctx, func(ctx context.Context) (int64, error) {
		if uid, ok, err := s.c.store.Token(ctx, s.scope); err == nil && ok && uid > 0 {
			return uid, nil
		}
		return s.authenticate(ctx)
	})
}

// Authenticate always calls common.authenticate and caches the resulting uid,
// replacing any cached one.
func (s *Session) Authenticate(ctx context.Context) (int64, error) {
	return s.shared(ctx, s.authenticate)
}

// shared runs fn once for all concurrent callers of the scope. fn runs detached
// from the cancellation of whichever caller started it; every caller stops
// waiting when its own ctx is done.
func (s *Session) shared(ctx context.Context, fn func(context.Context) (int64, error)) (int64, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.c.group.DoChan(s.scope, func() (any, error) {
		return fn(detached)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int64), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Forget drops the cached uid so the next operation authenticates again.
func (s *Session) Forget(ctx context.Context) error {
	return s.c.store.Forget(ctx, s.scope)
}

func (s *Session) authenticate(ctx context.Context) (int64, error) {
	cfg := s.c.cfg
	fail := func(err error) error {
		return &AuthenticationError{Scope: s.scope, Database: cfg.Database, Username: cfg.Username, Err: err}
	}

	s.c.logger.Debug("odoo authenticate", s.c.logger.Args("scope", s.scope, "database", cfg.Database, "user", cfg.Username))

	raw, err := s.c.caller.Call(ctx, "common", "authenticate", []any{cfg.Database, cfg.Username, cfg.Password, map[string]any{}})
	if err != nil {
		return 0, fail(err)
	}

	var result any
	if !rpc.IsNull(raw) {
		if err := decode(raw, &result); err != nil {
			return 0, fail(fmt.Errorf("decode uid: %w", err))
		}
	}
	uid, ok := asInt64(result)
	if !ok || uid <= 0 {
		if _, isBool := result.(bool); isBool || result == nil {
			return 0, fail(nil)
		}
		return 0, fail(shapeError("common", "authenticate", "integer uid", raw))
	}

	if err := s.c.store.SetToken(ctx, s.scope, uid); err != nil {
		s.c.logger.Warn("could not cache session token", s.c.logger.Args("scope", s.scope, "error", err))
	}
	return uid, nil
}
