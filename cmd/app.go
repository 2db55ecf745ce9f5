// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"odoogate/cli/internal/auth"
	"odoogate/cli/internal/config"
	"odoogate/cli/internal/keychain"
	"odoogate/cli/internal/logging"
	"odoogate/cli/internal/odoo"
	"odoogate/cli/internal/rpc"
)

// app is the resolved runtime of one command invocation: settings from the
// config file, the environment and the flags, plus the secret store and logger.
type app struct {
	cfg    config.Config
	env    config.Env
	km     *keychain.Manager
	logger *pterm.Logger
	out    io.Writer
}

// loadApp resolves settings with the precedence flags > environment > file.
func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	e, err := config.ParseEnv()
	if err != nil {
		return nil, err
	}
	cfg = applyFlags(cmd, cfg.Apply(e))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	a := &app{
		cfg:    cfg,
		env:    e,
		logger: logging.New(level, e.LogFormat, os.Stderr),
		out:    cmd.OutOrStdout(),
	}
	// The keychain is optional for read commands when ODOO_PASSWORD is set.
	if km, err := keychain.GetManager(); err == nil {
		a.km = km
	} else {
		a.logger.Debug("keychain unavailable", a.logger.Args("error", err.Error()))
	}
	return a, nil
}

// applyFlags overlays explicitly set persistent flags.
func applyFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("url") {
		cfg.URL = flagURL
	}
	if changed("db") {
		cfg.Database = flagDB
	}
	if changed("user") {
		cfg.Username = flagUser
	}
	if changed("output") {
		cfg.Output = strings.ToLower(flagOutput)
	}
	if changed("profile") && flagProfile != "" {
		cfg.Profile = flagProfile
	}
	return cfg
}

// transportOptions configures the HTTP transport from the settings.
func (a *app) transportOptions() []rpc.Option {
	opts := []rpc.Option{rpc.WithUserAgent("odoogate/" + Version)}
	if t := a.cfg.Timeout(); t > 0 {
		opts = append(opts, rpc.WithTimeout(t))
	}
	return opts
}

// store returns the session store: the keychain when available, memory otherwise.
func (a *app) store() odoo.SessionStore {
	if a.km != nil {
		return a.km
	}
	return odoo.NewMemoryStore()
}

// password resolves the Odoo password: ODOO_PASSWORD first, then the keychain.
func (a *app) password() (string, error) {
	if a.env.Password != "" {
		return a.env.Password, nil
	}
	if a.km == nil {
		return "", errors.New("no password available: set ODOO_PASSWORD or enable a keychain backend")
	}
	pw, err := a.km.LoadPassword(a.cfg.Profile)
	if err != nil {
		if errors.Is(err, keychain.ErrNotFound) {
			return "", fmt.Errorf("not logged in for profile %q; run 'odoogate login'", a.cfg.Profile)
		}
		return "", err
	}
	return pw, nil
}

// odooConfig is the connection of the resolved settings with password pw.
func (a *app) odooConfig(pw string) odoo.Config {
	return odoo.Config{URL: a.cfg.URL, Database: a.cfg.Database, Username: a.cfg.Username, Password: pw}
}

// client builds the model gateway with the saved or environment password.
func (a *app) client(extra ...odoo.Option) (*odoo.Client, error) {
	pw, err := a.password()
	if err != nil {
		return nil, err
	}
	return a.clientWith(pw, extra...)
}

func (a *app) clientWith(pw string, extra ...odoo.Option) (*odoo.Client, error) {
	cfg := a.odooConfig(pw)
	opts := []odoo.Option{
		odoo.WithCaller(rpc.NewHTTP(cfg.Endpoint(), a.transportOptions()...)),
		odoo.WithStore(a.store()),
		odoo.WithLogger(a.logger),
	}
	if flagStrict {
		opts = append(opts, odoo.WithStrictReads())
	}
	return odoo.New(cfg, append(opts, extra...)...)
}

// session opens the profile's session scope on a fresh client.
func (a *app) session(extra ...odoo.Option) (*odoo.Session, error) {
	c, err := a.client(extra...)
	if err != nil {
		return nil, err
	}
	return c.Session(auth.ScopeFor(a.cfg.Profile, c.Config())), nil
}

// authService requires the keychain, which holds passwords and login state.
func (a *app) authService() (*auth.Service, error) {
	if a.km == nil {
		_, err := keychain.GetManager()
		return nil, fmt.Errorf("secure storage is not available on this system (set %s to use an encrypted file): %w", keychain.FilePasswordEnv, err)
	}
	return auth.NewService(a.km), nil
}

// sessionCommand wraps a RunE body that needs a gateway session.
func sessionCommand(run func(cmd *cobra.Command, a *app, s *odoo.Session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.session()
		if err != nil {
			return err
		}
		return run(cmd, a, s, args)
	}
}
