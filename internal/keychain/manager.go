// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for odoogate.
// This module manages all interactions with the OS keychain/credential store,
// storing the Odoo password per profile, the authenticated uid per session scope,
// the persisted login state and the PostgreSQL export DSN.
//
// The package supports macOS Keychain, Windows Credential Manager, Secret Service,
// KWallet and pass. When ODOOGATE_KEYRING_PASSWORD is set, an encrypted file store
// in the XDG state directory is used as a fallback for headless hosts.
//
// Manager implements odoo.SessionStore so session tokens survive across CLI
// invocations.
package keychain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/99designs/keyring"

	"odoogate/cli/internal/xdg"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "odoogate"

// FilePasswordEnv enables the encrypted file fallback when set.
const FilePasswordEnv = "ODOOGATE_KEYRING_PASSWORD"

// Keys used for storing secrets in the OS keychain.
const (
	KeyExportDSN    = "export_dsn"
	authStatePrefix = "auth_state:"
	passwordPrefix  = "password:"
	sessionPrefix   = "session:"
)

// ErrNotFound is returned when a key is absent.
var ErrNotFound = keyring.ErrKeyNotFound

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" && os.Getenv(FilePasswordEnv) == "" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}

	return &Manager{
		ring: ring,
	}, nil
}

// NewWithKeyring wraps an already opened keyring. Tests use keyring.NewArrayKeyring.
func NewWithKeyring(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}

	return globalManager, nil
}

// openRing opens the OS keyring with the native backends of the current platform,
// adding the encrypted file backend when FilePasswordEnv is set.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// Pass requires 'pass' utility installed: brew install pass
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowedBackends = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	}

	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowedBackends,
		PassPrefix:              ServiceName,
		WinCredPrefix:           ServiceName,
		LibSecretCollectionName: ServiceName,
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
	}

	if pw := os.Getenv(FilePasswordEnv); pw != "" {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		// File backend goes first so headless hosts never block on a desktop prompt
		cfg.AllowedBackends = append([]keyring.BackendType{keyring.FileBackend}, cfg.AllowedBackends...)
		cfg.FileDir = filepath.Join(dir, "keyring")
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(pw)
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass' (brew install pass gnupg && pass init <gpg-key-id>) or set " + FilePasswordEnv)
		}
		return nil, fmt.Errorf("secure storage unavailable (set %s to use an encrypted file store): %w", FilePasswordEnv, err)
	}

	return ring, nil
}

func (m *Manager) set(key string, data []byte) error {
	if m.backend != nil {
		return m.backend.Set(key, string(data))
	}
	return m.ring.Set(keyring.Item{Key: key, Data: data, Label: ServiceName + " " + key})
}

func (m *Manager) get(key string) ([]byte, error) {
	if m.backend != nil {
		v, err := m.backend.Get(key)
		if err != nil {
			return nil, err
		}
		return []byte(v), nil
	}
	it, err := m.ring.Get(key)
	if err != nil {
		return nil, err
	}
	return it.Data, nil
}

func (m *Manager) remove(key string) error {
	var err error
	if m.backend != nil {
		err = m.backend.Delete(key)
	} else {
		err = m.ring.Remove(key)
	}
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}

// SavePassword stores the Odoo password for a profile.
// This method is thread-safe.
func (m *Manager) SavePassword(profile, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(passwordPrefix+profile, []byte(password))
}

// LoadPassword retrieves the Odoo password for a profile.
// This method is thread-safe.
func (m *Manager) LoadPassword(profile string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := m.get(passwordPrefix + profile)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty password")
	}
	return string(data), nil
}

// ClearPassword removes the stored password for a profile.
func (m *Manager) ClearPassword(profile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(passwordPrefix + profile)
}

// Token returns the cached uid for a session scope.
func (m *Manager) Token(_ context.Context, scope string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := m.get(sessionPrefix + scope)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	uid, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || uid <= 0 {
		// A corrupt entry is treated as absent so the next call re-authenticates
		return 0, false, nil
	}
	return uid, true, nil
}

// SetToken caches the uid for a session scope.
func (m *Manager) SetToken(_ context.Context, scope string, uid int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(sessionPrefix+scope, []byte(strconv.FormatInt(uid, 10)))
}

// Forget drops the cached uid for a session scope.
func (m *Manager) Forget(_ context.Context, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(sessionPrefix + scope)
}

// SaveAuthState stores the serialized auth state of profile in the keychain.
// This method is thread-safe.
func (m *Manager) SaveAuthState(profile string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(authStatePrefix+profile, data)
}

// LoadAuthState retrieves the serialized auth state of profile.
// Missing state yields nil data and no error.
func (m *Manager) LoadAuthState(profile string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := m.get(authStatePrefix + profile)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, nil
	}
	return data, err
}

// ClearAuthState removes the stored auth state of profile.
func (m *Manager) ClearAuthState(profile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(authStatePrefix + profile)
}

// SaveExportDSN stores the PostgreSQL DSN used by export.
// This method is thread-safe.
func (m *Manager) SaveExportDSN(dsn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(KeyExportDSN, []byte(dsn))
}

// LoadExportDSN retrieves the PostgreSQL DSN used by export.
func (m *Manager) LoadExportDSN() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := m.get(KeyExportDSN)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearExportDSN removes the export DSN.
func (m *Manager) ClearExportDSN() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(KeyExportDSN)
}

// ClearAll removes every odoogate secret the backend can enumerate, plus the
// well-known keys. It should be used with caution.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := []string{KeyExportDSN}
	if m.ring != nil {
		if all, err := m.ring.Keys(); err == nil {
			for _, k := range all {
				if strings.HasPrefix(k, passwordPrefix) || strings.HasPrefix(k, sessionPrefix) || strings.HasPrefix(k, authStatePrefix) {
					keys = append(keys, k)
				}
			}
		}
	}
	var errs []error
	for _, k := range keys {
		if err := m.remove(k); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}
