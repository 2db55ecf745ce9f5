// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package odoo

// Options are the paging and ordering keywords of search and search_read.
// Only set fields are forwarded to the server.
type Options struct {
	Limit  *int
	Offset *int
	// Order is an Odoo order clause (e.g., "name ASC, id DESC")
	Order string
}

// Page returns options for a 1-based page of the given size.
func Page(page, size int) Options {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * size
	return Options{Limit: &size, Offset: &offset}
}

// WithLimit returns a copy of o with Limit set.
func (o Options) WithLimit(n int) Options {
	o.Limit = &n
	return o
}

// WithOffset returns a copy of o with Offset set.
func (o Options) WithOffset(n int) Options {
	o.Offset = &n
	return o
}

// WithOrder returns a copy of o with Order set.
func (o Options) WithOrder(order string) Options {
	o.Order = order
	return o
}

// kwargs builds the keyword arguments. A nil fields slice omits the key; an empty
// non-nil slice is sent as an explicit empty list.
func (o Options) kwargs(fields []string) map[string]any {
	kw := make(map[string]any, 4)
	if fields != nil {
		kw["fields"] = fields
	}
	if o.Limit != nil {
		kw["limit"] = *o.Limit
	}
	if o.Offset != nil {
		kw["offset"] = *o.Offset
	}
	if o.Order != "" {
		kw["order"] = o.Order
	}
	return kw
}
