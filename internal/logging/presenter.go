// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"fmt"

	"odoogate/cli/internal/odoo"
	"odoogate/cli/internal/rpc"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// Describe returns a short masked explanation of err suited for one-line output,
// recognising the gateway's error types.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var authErr *odoo.AuthenticationError
	var remote *rpc.RemoteProcedureError
	var shape *odoo.UnexpectedResultShape
	var batchCreate *odoo.BatchCreateError
	var batchDelete *odoo.BatchDeleteError

	switch {
	case errors.As(err, &authErr):
		if authErr.Err == nil {
			return fmt.Sprintf("login rejected for %s on %s; run 'odoogate login' to update your credentials", authErr.Username, authErr.Database)
		}
		return Mask(authErr.Error())
	case errors.As(err, &batchCreate):
		return fmt.Sprintf("creating %s records failed: %s", batchCreate.Model, Describe(batchCreate.Err))
	case errors.As(err, &batchDelete):
		return fmt.Sprintf("deleting %s records failed: %s", batchDelete.Model, Describe(batchDelete.Err))
	case errors.As(err, &remote):
		return Mask(remote.Detail())
	case errors.As(err, &shape):
		return fmt.Sprintf("%s.%s returned %s where %s was expected (server version mismatch?)", shape.Model, shape.Method, shape.Got, shape.Want)
	default:
		return Mask(err.Error())
	}
}
