// Package auth provides login state management for the CLI.
// It verifies credentials against Odoo through the model gateway, keeps the
// password and the session uid in the OS keychain, and persists a small login
// state record describing which server, database and user the profile is bound to.
package auth

import (
	"time"

	"odoogate/cli/internal/odoo"
)

// State represents persisted authentication state for one profile.
type State struct {
	LoggedIn   bool      `json:"logged_in"`
	Profile    string    `json:"profile"`
	URL        string    `json:"url"`
	Database   string    `json:"database"`
	Username   string    `json:"username"`
	UID        int64     `json:"uid"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

// Scope returns the session scope this state's uid is cached under.
func (s State) Scope() string {
	return ScopeFor(s.Profile, odoo.Config{URL: s.URL, Database: s.Database, Username: s.Username})
}

// Matches reports whether the state belongs to the given connection.
func (s State) Matches(cfg odoo.Config) bool {
	return s.LoggedIn && s.URL == cfg.URL && s.Database == cfg.Database && s.Username == cfg.Username
}

// ScopeFor derives the session scope of a profile and connection, so a uid is
// never reused against another server, database or user.
func ScopeFor(profile string, cfg odoo.Config) string {
	return profile + "|" + cfg.Username + "@" + cfg.Database + "|" + cfg.URL
}
