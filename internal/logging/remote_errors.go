// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"strings"

	"github.com/pterm/pterm"

	"odoogate/cli/internal/rpc"
)

// RemoteErrorType represents the category of an Odoo server error
type RemoteErrorType int

const (
	RemoteErrorUnknown RemoteErrorType = iota
	RemoteErrorAccessDenied
	RemoteErrorAccess
	RemoteErrorValidation
	RemoteErrorUser
	RemoteErrorMissing
	RemoteErrorUnknownModel
	RemoteErrorSessionExpired
)

// ClassifyRemoteError categorizes an Odoo error by exception class, falling back
// to the message text for servers that omit data.name.
func ClassifyRemoteError(e *rpc.RemoteProcedureError) RemoteErrorType {
	if e == nil {
		return RemoteErrorUnknown
	}
	name := e.ExceptionName()
	switch {
	case strings.HasSuffix(name, "AccessDenied"):
		return RemoteErrorAccessDenied
	case strings.HasSuffix(name, "AccessError"):
		return RemoteErrorAccess
	case strings.HasSuffix(name, "ValidationError"):
		return RemoteErrorValidation
	case strings.HasSuffix(name, "UserError"):
		return RemoteErrorUser
	case strings.HasSuffix(name, "MissingError"):
		return RemoteErrorMissing
	case strings.HasSuffix(name, "SessionExpiredException"):
		return RemoteErrorSessionExpired
	}

	lower := strings.ToLower(e.Message + " " + e.Detail())
	switch {
	case strings.Contains(lower, "access denied"):
		return RemoteErrorAccessDenied
	case strings.Contains(lower, "object") && strings.Contains(lower, "doesn't exist"),
		strings.Contains(name, "KeyError"):
		return RemoteErrorUnknownModel
	case strings.Contains(lower, "session expired"):
		return RemoteErrorSessionExpired
	}
	return RemoteErrorUnknown
}

// FormatRemoteError formats an Odoo server error in a user-friendly way
func FormatRemoteError(e *rpc.RemoteProcedureError) string {
	errType := ClassifyRemoteError(e)

	var builder strings.Builder

	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Odoo rejected the request"))
	builder.WriteString("\n\n")

	switch errType {
	case RemoteErrorAccessDenied:
		builder.WriteString("The server refused the credentials.\n")
		builder.WriteString("  • Check the username, database and password\n")
		builder.WriteString("  • API keys replace the password when two-factor login is enabled\n")
	case RemoteErrorAccess:
		builder.WriteString("Your user lacks the access rights for this operation.\n")
		builder.WriteString("Ask an Odoo administrator to grant the matching access group.\n")
	case RemoteErrorValidation, RemoteErrorUser:
		builder.WriteString("The server refused the values you sent:\n")
		builder.WriteString("  " + Mask(e.Detail()) + "\n")
	case RemoteErrorMissing:
		builder.WriteString("The record does not exist or was deleted.\n")
	case RemoteErrorUnknownModel:
		builder.WriteString("The model is not installed on this database.\n")
		builder.WriteString("Check the technical model name (e.g., res.partner).\n")
	case RemoteErrorSessionExpired:
		builder.WriteString("The server session expired.\n")
	default:
		builder.WriteString(Mask(e.Detail()) + "\n")
	}

	builder.WriteString("\n")
	if errType == RemoteErrorAccessDenied || errType == RemoteErrorSessionExpired {
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please run 'odoogate login' and try again"))
		builder.WriteString("\n")
	}

	if name := e.ExceptionName(); name != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + name + ": " + Mask(e.Message)))
	}

	return builder.String()
}
