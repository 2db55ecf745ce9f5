// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package odoo

// policy decides what an operation does with a failure.
type policy int

const (
	// propagate returns the error to the caller unchanged.
	propagate policy = iota
	// swallow logs the error and returns an empty result.
	swallow
	// wrap returns the error wrapped with the model name.
	wrap
)

func (p policy) String() string {
	switch p {
	case swallow:
		return "swallow"
	case wrap:
		return "wrap"
	default:
		return "propagate"
	}
}

// operation names a gateway operation in the policy table and in log lines.
type operation string

const (
	opSearchRead  operation = "search_read"
	opGet         operation = "get"
	opSearch      operation = "search"
	opCount       operation = "search_count"
	opRead        operation = "read"
	opFields      operation = "fields_get"
	opCreate      operation = "create"
	opCreateBatch operation = "create_batch"
	opUpdate      operation = "write"
	opDelete      operation = "unlink"
	opDeleteBatch operation = "unlink_batch"
	opExecute     operation = "execute_kw"
)

// policies is the per-operation error policy. Listings degrade to empty results,
// single writes and counts propagate, batch writes wrap.
var policies = map[operation]policy{
	opSearchRead:  swallow,
	opGet:         swallow,
	opSearch:      swallow,
	opCount:       propagate,
	opRead:        propagate,
	opFields:      propagate,
	opCreate:      propagate,
	opCreateBatch: wrap,
	opUpdate:      propagate,
	opDelete:      propagate,
	opDeleteBatch: wrap,
	opExecute:     propagate,
}

// policyFor returns the effective policy of op for this client.
func (c *Client) policyFor(op operation) policy {
	p := policies[op]
	if p == swallow && c.strict {
		return propagate
	}
	return p
}

// settle applies the policy of op to err. A nil return tells the caller to
// substitute its empty result.
func (s *Session) settle(op operation, model string, err error) error {
	if err == nil {
		return nil
	}
	switch s.c.policyFor(op) {
	case swallow:
		s.c.logger.Warn("odoo operation failed, returning empty result",
			s.c.logger.Args("operation", string(op), "model", model, "scope", s.scope, "error", err.Error()))
		return nil
	case wrap:
		if op == opCreateBatch {
			return &BatchCreateError{Model: model, Err: err}
		}
		return &BatchDeleteError{Model: model, Err: err}
	default:
		return err
	}
}
