// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"odoogate/cli/internal/config"
	"odoogate/cli/internal/terminal"
)

var saveConfig bool

// loginCmd authenticates against Odoo and stores the credentials.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against an Odoo database and save the credentials",
	Long: `The login command verifies your Odoo credentials with common.authenticate and
stores the password in the OS keychain together with the returned user id, so
later commands reuse the session without authenticating again.

The server, database and user come from --url, --db and --user, the ODOO_URL,
ODOO_DB and ODOO_USER environment variables, or the config file. The password is
read from ODOO_PASSWORD or prompted for without echo. API keys work in place of
passwords.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		svc, err := a.authService()
		if err != nil {
			return err
		}
		if err := a.odooConfig("-").Validate(); err != nil {
			return fmt.Errorf("%w (use --url, --db and --user)", err)
		}

		pw := a.env.Password
		if pw == "" {
			prompt := fmt.Sprintf("Password for %s@%s: ", a.cfg.Username, a.cfg.Database)
			pw, err = terminal.ReadSecret(prompt)
			if err != nil {
				return err
			}
		}
		if pw == "" {
			return errors.New("password is required")
		}

		client, err := a.clientWith(pw)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		stop := startSpinner("Authenticating")
		st, err := svc.Login(ctx, client, a.cfg.Profile)
		if err != nil {
			stop(false, "Authentication failed")
			return err
		}
		stop(true, fmt.Sprintf("Logged in as %s on %s (uid %d)", st.Username, st.Database, st.UID))

		if saveConfig {
			file, err := config.Load()
			if err != nil {
				return err
			}
			file.URL, file.Database, file.Username = a.cfg.URL, a.cfg.Database, a.cfg.Username
			if err := config.Save(file); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			pterm.Println("   Connection saved as default in the config file")
		}
		return nil
	},
}

// logoutCmd clears the stored credentials of the profile.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved password, session and login state",
	Long: `The logout command removes the profile's password, the cached user id and the
login state from the OS keychain. Odoo's JSON-RPC API keeps no server-side
session, so nothing is sent to the server.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		svc, err := a.authService()
		if err != nil {
			return err
		}
		if err := svc.Logout(cmd.Context(), a.cfg.Profile); err != nil {
			return err
		}
		pterm.Success.Println("Credentials and session removed")
		return nil
	},
}

// whoamiCmd shows who the saved session belongs to.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current Odoo user, database and server version",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		svc, err := a.authService()
		if err != nil {
			return err
		}
		if st, _ := svc.State(a.cfg.Profile); !st.LoggedIn && a.env.Password == "" {
			pterm.Println("You're not logged in yet!")
			pterm.Println("   Run 'odoogate login' to get started.")
			return nil
		}
		client, err := a.client()
		if err != nil {
			return err
		}
		id, err := svc.WhoAmI(cmd.Context(), client, a.cfg.Profile)
		if err != nil {
			return err
		}
		return a.emit(id, func() pterm.TableData {
			return keyValueTable(
				"name", id.Name,
				"login", id.Login,
				"uid", strconv.FormatInt(id.UID, 10),
				"database", id.Database,
				"server", id.URL,
				"server version", id.ServerVersion,
			)
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	loginCmd.Flags().BoolVar(&saveConfig, "save", false, "Save url, database and user as defaults in the config file")
}
