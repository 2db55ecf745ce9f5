// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/99designs/keyring"

	"odoogate/cli/internal/keychain"
	"odoogate/cli/internal/odoo"
)

// stubOdoo answers authenticate, version and res.users reads.
type stubOdoo struct {
	uid   string
	auths int
}

func (s *stubOdoo) Call(_ context.Context, service, method string, args []any) (json.RawMessage, error) {
	switch {
	case service == "common" && method == "authenticate":
		s.auths++
		return json.RawMessage(s.uid), nil
	case service == "common" && method == "version":
		return json.RawMessage(`{"server_version":"17.0","server_serie":"17.0","protocol_version":1}`), nil
	case service == "object" && len(args) > 4 && args[4] == "read":
		return json.RawMessage(`[{"id":6,"name":"Mitchell Admin","login":"admin"}]`), nil
	}
	return nil, errors.New("unexpected call " + service + "." + method)
}

func newFixture(t *testing.T, uid string) (*Service, *keychain.Manager, *odoo.Client, *stubOdoo) {
	t.Helper()
	km := keychain.NewWithKeyring(keyring.NewArrayKeyring(nil))
	stub := &stubOdoo{uid: uid}
	client, err := odoo.New(
		odoo.Config{URL: "https://erp.example.com", Database: "prod", Username: "admin", Password: "pw"},
		odoo.WithCaller(stub),
		odoo.WithStore(km),
	)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(km)
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, km, client, stub
}

func TestLogin_PersistsSecretsAndState(t *testing.T) {
	svc, km, client, _ := newFixture(t, "6")
	ctx := context.Background()

	st, err := svc.Login(ctx, client, "default")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !st.LoggedIn || st.UID != 6 || st.Database != "prod" {
		t.Errorf("Login() state = %+v", st)
	}

	if pw, _ := km.LoadPassword("default"); pw != "pw" {
		t.Errorf("saved password = %q, want pw", pw)
	}
	uid, ok, _ := km.Token(ctx, st.Scope())
	if !ok || uid != 6 {
		t.Errorf("cached uid = %d, %v; want 6", uid, ok)
	}

	loaded, err := svc.State("default")
	if err != nil || loaded.Scope() != st.Scope() || loaded.UID != st.UID || !loaded.LoggedInAt.Equal(st.LoggedInAt) {
		t.Errorf("State() = %+v, %v; want %+v", loaded, err, st)
	}
}

func TestLogin_RejectedCredentials(t *testing.T) {
	svc, km, client, _ := newFixture(t, "false")

	_, err := svc.Login(context.Background(), client, "default")
	var authErr *odoo.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Login() error = %v, want AuthenticationError", err)
	}
	if _, err := km.LoadPassword("default"); err == nil {
		t.Error("password must not be saved after a rejected login")
	}
	if st, _ := svc.State("default"); st.LoggedIn {
		t.Error("state must not be logged in after a rejected login")
	}
}

func TestWhoAmI_ReusesCachedUID(t *testing.T) {
	svc, _, client, stub := newFixture(t, "6")
	ctx := context.Background()

	if _, err := svc.Login(ctx, client, "default"); err != nil {
		t.Fatal(err)
	}
	id, err := svc.WhoAmI(ctx, client, "default")
	if err != nil {
		t.Fatalf("WhoAmI() error = %v", err)
	}
	if id.Name != "Mitchell Admin" || id.Login != "admin" || id.ServerVersion != "17.0" || id.UID != 6 {
		t.Errorf("WhoAmI() = %+v", id)
	}
	if stub.auths != 1 {
		t.Errorf("authenticate calls = %d, want 1", stub.auths)
	}
}

func TestLogout_ClearsEverything(t *testing.T) {
	svc, km, client, _ := newFixture(t, "6")
	ctx := context.Background()

	st, err := svc.Login(ctx, client, "default")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx, "default"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, ok, _ := km.Token(ctx, st.Scope()); ok {
		t.Error("session token should be forgotten")
	}
	if _, err := km.LoadPassword("default"); err == nil {
		t.Error("password should be cleared")
	}
	if got, _ := svc.State("default"); got.LoggedIn {
		t.Error("state should be cleared")
	}
}

func TestLogout_LeavesOtherProfilesAlone(t *testing.T) {
	svc, km, client, _ := newFixture(t, "6")
	ctx := context.Background()

	a, err := svc.Login(ctx, client, "a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Login(ctx, client, "b")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx, "a"); err != nil {
		t.Fatalf("Logout(a) error = %v", err)
	}

	if _, ok, _ := km.Token(ctx, a.Scope()); ok {
		t.Error("session of profile a should be forgotten")
	}
	if st, _ := svc.State("a"); st.LoggedIn {
		t.Error("profile a should be logged out")
	}

	if uid, ok, _ := km.Token(ctx, b.Scope()); !ok || uid != 6 {
		t.Errorf("session of profile b = %d, %v; want 6, true", uid, ok)
	}
	if st, _ := svc.State("b"); !st.LoggedIn || st.Profile != "b" {
		t.Errorf("state of profile b = %+v, want logged in", st)
	}
	if pw, err := km.LoadPassword("b"); err != nil || pw != "pw" {
		t.Errorf("password of profile b = %q, %v", pw, err)
	}
}

func TestScopeFor_SeparatesConnections(t *testing.T) {
	a := ScopeFor("default", odoo.Config{URL: "https://a", Database: "prod", Username: "admin"})
	b := ScopeFor("default", odoo.Config{URL: "https://a", Database: "test", Username: "admin"})
	if a == b {
		t.Errorf("scopes for different databases collide: %q", a)
	}
}
