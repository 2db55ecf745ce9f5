// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"encoding/json"
	"fmt"

	"odoogate/cli/internal/odoo"
)

// Store is the secret storage auth needs. keychain.Manager implements it.
type Store interface {
	odoo.SessionStore
	SavePassword(profile, password string) error
	LoadPassword(profile string) (string, error)
	ClearPassword(profile string) error
	SaveAuthState(profile string, data []byte) error
	LoadAuthState(profile string) ([]byte, error)
	ClearAuthState(profile string) error
}

// Load reads the auth state of profile. Missing state yields zero value.
func Load(store Store, profile string) (State, error) {
	var s State
	data, err := store.LoadAuthState(profile)
	if err != nil {
		return s, fmt.Errorf("load auth state: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode auth state: %w", err)
	}
	return s, nil
}

// Save writes the auth state under its profile.
func Save(store Store, s State) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return store.SaveAuthState(s.Profile, b)
}

// Clear removes the auth state of profile.
func Clear(store Store, profile string) error {
	return store.ClearAuthState(profile)
}
