// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"odoogate/cli/internal/odoo"
	"odoogate/cli/internal/rpc"
)

// Service centralizes login-related operations against Odoo and local secure storage.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs an auth Service over store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Identity describes the logged-in user as reported by the server.
type Identity struct {
	State
	Name          string `json:"name"`
	Login         string `json:"login"`
	ServerVersion string `json:"server_version"`
}

// Login verifies the client's credentials with a fresh common.authenticate, then
// saves the password, the uid for the profile's scope and the login state.
func (s *Service) Login(ctx context.Context, client *odoo.Client, profile string) (State, error) {
	cfg := client.Config()
	scope := ScopeFor(profile, cfg)

	uid, err := client.Session(scope).Authenticate(ctx)
	if err != nil {
		return State{}, err
	}
	if err := s.store.SavePassword(profile, cfg.Password); err != nil {
		return State{}, fmt.Errorf("save password: %w", err)
	}

	st := State{
		LoggedIn:   true,
		Profile:    profile,
		URL:        cfg.URL,
		Database:   cfg.Database,
		Username:   cfg.Username,
		UID:        uid,
		LoggedInAt: s.now().UTC(),
	}
	if err := Save(s.store, st); err != nil {
		return State{}, fmt.Errorf("save auth state: %w", err)
	}
	return st, nil
}

// Logout forgets the cached uid, the password and the login state of profile.
// It makes no remote call; Odoo's JSON-RPC API has no server-side session to end.
func (s *Service) Logout(ctx context.Context, profile string) error {
	st, err := Load(s.store, profile)
	if err != nil {
		return err
	}
	var errs []error
	if st.LoggedIn {
		if err := s.store.Forget(ctx, st.Scope()); err != nil {
			errs = append(errs, fmt.Errorf("forget session: %w", err))
		}
	}
	if err := s.store.ClearPassword(profile); err != nil {
		errs = append(errs, fmt.Errorf("clear password: %w", err))
	}
	if err := Clear(s.store, profile); err != nil {
		errs = append(errs, fmt.Errorf("clear auth state: %w", err))
	}
	return errors.Join(errs...)
}

// Password returns the saved password of profile.
func (s *Service) Password(profile string) (string, error) {
	return s.store.LoadPassword(profile)
}

// State returns the persisted login state of profile.
func (s *Service) State(profile string) (State, error) {
	return Load(s.store, profile)
}

// WhoAmI resolves the uid through the session cache and reads the user's name
// and the server version.
func (s *Service) WhoAmI(ctx context.Context, client *odoo.Client, profile string) (Identity, error) {
	cfg := client.Config()
	st, err := Load(s.store, profile)
	if err != nil {
		return Identity{}, err
	}
	if !st.Matches(cfg) {
		st = State{Profile: profile, URL: cfg.URL, Database: cfg.Database, Username: cfg.Username}
	}

	sess := client.Session(ScopeFor(profile, cfg))
	uid, err := sess.UID(ctx)
	if err != nil {
		return Identity{}, err
	}
	st.UID = uid

	id := Identity{State: st}
	users, err := sess.Read(ctx, "res.users", []int64{uid}, []string{"name", "login"})
	if err != nil {
		return Identity{}, err
	}
	if len(users) > 0 {
		id.Name = users[0].String("name")
		id.Login = users[0].String("login")
	}

	if v, err := rpc.FetchVersion(ctx, client.Caller()); err == nil {
		id.ServerVersion = v.ServerVersion
	}
	return id, nil
}
