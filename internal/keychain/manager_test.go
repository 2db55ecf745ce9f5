// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"context"
	"errors"
	"testing"

	"github.com/99designs/keyring"

	"odoogate/cli/internal/odoo"
)

var _ odoo.SessionStore = (*Manager)(nil)

func newTestManager() *Manager {
	return NewWithKeyring(keyring.NewArrayKeyring(nil))
}

func TestManager_SessionTokens(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	if _, ok, err := m.Token(ctx, "default"); ok || err != nil {
		t.Fatalf("Token() on empty store = %v, %v; want absent", ok, err)
	}
	if err := m.SetToken(ctx, "default", 7); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	if err := m.SetToken(ctx, "other", 9); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	uid, ok, err := m.Token(ctx, "default")
	if err != nil || !ok || uid != 7 {
		t.Errorf("Token(default) = %d, %v, %v; want 7", uid, ok, err)
	}
	uid, _, _ = m.Token(ctx, "other")
	if uid != 9 {
		t.Errorf("Token(other) = %d, want 9", uid)
	}

	if err := m.Forget(ctx, "default"); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}
	if _, ok, _ := m.Token(ctx, "default"); ok {
		t.Error("Token() after Forget should be absent")
	}
	if err := m.Forget(ctx, "missing"); err != nil {
		t.Errorf("Forget() of a missing scope = %v, want nil", err)
	}
}

func TestManager_CorruptTokenIsAbsent(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: "session:default", Data: []byte("not-a-number")}})
	m := NewWithKeyring(ring)

	if _, ok, err := m.Token(context.Background(), "default"); ok || err != nil {
		t.Errorf("Token() = %v, %v; want absent without error", ok, err)
	}
}

func TestManager_Password(t *testing.T) {
	m := newTestManager()

	if _, err := m.LoadPassword("default"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadPassword() error = %v, want ErrNotFound", err)
	}
	if err := m.SavePassword("default", "s3cret"); err != nil {
		t.Fatal(err)
	}
	got, err := m.LoadPassword("default")
	if err != nil || got != "s3cret" {
		t.Errorf("LoadPassword() = %q, %v", got, err)
	}
	if err := m.ClearPassword("default"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.LoadPassword("default"); err == nil {
		t.Error("LoadPassword() after ClearPassword should fail")
	}
}

func TestManager_AuthStateAndDSN(t *testing.T) {
	m := newTestManager()

	data, err := m.LoadAuthState("default")
	if err != nil || data != nil {
		t.Errorf("LoadAuthState() on empty store = %q, %v", data, err)
	}
	if err := m.SaveAuthState("default", []byte(`{"logged_in":true}`)); err != nil {
		t.Fatal(err)
	}
	if data, _ := m.LoadAuthState("default"); string(data) != `{"logged_in":true}` {
		t.Errorf("LoadAuthState() = %q", data)
	}
	if data, _ := m.LoadAuthState("staging"); data != nil {
		t.Errorf("LoadAuthState(staging) = %q, want nil", data)
	}

	if err := m.SaveExportDSN("postgres://u:p@localhost/db"); err != nil {
		t.Fatal(err)
	}
	if dsn, _ := m.LoadExportDSN(); dsn != "postgres://u:p@localhost/db" {
		t.Errorf("LoadExportDSN() = %q", dsn)
	}
}

func TestManager_ClearAll(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()
	_ = m.SavePassword("default", "pw")
	_ = m.SetToken(ctx, "default", 3)
	_ = m.SaveAuthState("default", []byte("{}"))
	_ = m.SaveExportDSN("postgres://localhost/db")

	if err := m.ClearAll(); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	keys, _ := m.ring.Keys()
	if len(keys) != 0 {
		t.Errorf("keys after ClearAll = %v, want none", keys)
	}
}
