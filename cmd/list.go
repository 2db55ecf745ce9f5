// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"odoogate/cli/internal/odoo"
)

// maxPages bounds how deep list pagination may go.
const maxPages = 1000

// lookupLimit is the number of typeahead suggestions returned by lookup.
const lookupLimit = 20

type listOptions struct {
	domain       string
	search       string
	searchFields []string
	fields       string
	page         int
	limit        int
	order        string
}

var listOpts listOptions

// listPage is the structured output of list.
type listPage struct {
	Model   string        `json:"model" yaml:"model"`
	Page    int           `json:"page" yaml:"page"`
	Pages   int           `json:"pages" yaml:"pages"`
	Limit   int           `json:"limit" yaml:"limit"`
	Total   int64         `json:"total" yaml:"total"`
	Records []odoo.Record `json:"records" yaml:"records"`
}

// buildDomain combines --domain with the --search disjunction.
func (o listOptions) buildDomain() (odoo.Domain, error) {
	base, err := odoo.ParseDomain(o.domain)
	if err != nil {
		return nil, fmt.Errorf("--domain: %w", err)
	}
	if o.search == "" {
		return base, nil
	}
	fields := o.searchFields
	if len(fields) == 0 {
		fields = []string{"name"}
	}
	terms := make([]odoo.Term, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, odoo.Cond(f, "ilike", o.search))
	}
	return odoo.Join(base, odoo.AnyOf(terms...)), nil
}

// pages returns the number of pages for total records, capped at maxPages.
func pages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	n := int((total + int64(limit) - 1) / int64(limit))
	if n > maxPages {
		n = maxPages
	}
	return n
}

// listCmd prints one page of records of a model.
var listCmd = &cobra.Command{
	Use:   "list <model>",
	Short: "List records of a model page by page",
	Long: `The list command runs search_read on a model and prints one page of records
together with the total number of matching records.

Filter with an Odoo domain (--domain '[["is_company","=",true]]') and/or a free
text search over one or more fields (--search acme --search-field name
--search-field email), which matches any of the fields case-insensitively.`,
	Args: cobra.ExactArgs(1),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, s *odoo.Session, args []string) error {
		model := args[0]
		o := listOpts
		if o.limit <= 0 {
			o.limit = a.cfg.PageSize
		}
		if o.page < 1 {
			o.page = 1
		}
		if o.page > maxPages {
			return fmt.Errorf("--page must be at most %d", maxPages)
		}
		domain, err := o.buildDomain()
		if err != nil {
			return err
		}
		fields := splitList(o.fields)

		opts := odoo.Page(o.page, o.limit)
		if o.order != "" {
			opts = opts.WithOrder(o.order)
		}
		records, err := s.SearchRead(cmd.Context(), model, domain, fields, opts)
		if err != nil {
			return err
		}
		total, err := s.Count(cmd.Context(), model, domain)
		if err != nil {
			return err
		}

		out := listPage{Model: model, Page: o.page, Pages: pages(total, o.limit), Limit: o.limit, Total: total, Records: records}
		if err := a.emit(out, func() pterm.TableData { return recordTable(records, fields) }); err != nil {
			return err
		}
		if a.cfg.Output == "table" {
			pterm.Printf("Page %d of %d, %d records in total\n", out.Page, out.Pages, out.Total)
		}
		return nil
	}),
}

var lookupField string

// lookupCmd suggests records whose display field contains a term.
var lookupCmd = &cobra.Command{
	Use:   "lookup <model> <term>",
	Short: "Suggest records whose name contains a term",
	Args:  cobra.ExactArgs(2),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, s *odoo.Session, args []string) error {
		model, term := args[0], args[1]
		if len([]rune(term)) < 2 {
			return errors.New("lookup term must be at least 2 characters")
		}
		fields := []string{"id", lookupField}
		domain := odoo.Domain{odoo.Cond(lookupField, "ilike", term)}
		records, err := s.SearchRead(cmd.Context(), model, domain, fields, odoo.Options{}.WithLimit(lookupLimit))
		if err != nil {
			return err
		}
		return a.emit(records, func() pterm.TableData { return recordTable(records, fields) })
	}),
}

func init() {
	rootCmd.AddCommand(listCmd, lookupCmd)
	f := listCmd.Flags()
	f.StringVar(&listOpts.domain, "domain", "", "Odoo domain as JSON")
	f.StringVar(&listOpts.search, "search", "", "Free text matched with ilike")
	f.StringArrayVar(&listOpts.searchFields, "search-field", nil, "Field searched by --search (repeatable, default name)")
	f.StringVar(&listOpts.fields, "fields", "", "Comma-separated fields to return")
	f.IntVar(&listOpts.page, "page", 1, "Page number starting at 1")
	f.IntVar(&listOpts.limit, "limit", 0, "Records per page (default from config)")
	f.StringVar(&listOpts.order, "order", "", `Order clause, e.g. "name ASC, id DESC"`)

	lookupCmd.Flags().StringVar(&lookupField, "field", "name", "Field matched against the term")
}
