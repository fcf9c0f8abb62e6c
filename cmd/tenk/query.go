package main

import (
	"fmt"

	"github.com/fwojciec/tenk"
)

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	query, err := tenk.ResolveQuery(c.Query, tenk.QueryType(c.Type))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tenk.ErrorMessage(err))
		return err
	}

	year := tenk.Year(c.Year)
	out := newPrinter(deps.Stdout)

	if c.Answer {
		answer, err := deps.Queries.AnswerYear(deps.Ctx, deps.Credential, deps.Config.DataDir, year, query, c.TopK)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tenk.ErrorMessage(err))
			return err
		}
		out.Answer(answer)
		return nil
	}

	results, err := deps.Queries.QueryYear(deps.Ctx, deps.Credential, deps.Config.DataDir, year, query, c.TopK)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tenk.ErrorMessage(err))
		return err
	}
	out.Results(year, results)
	return nil
}

// Run executes the global command. Years are printed newest first.
func (c *GlobalCmd) Run(deps *Dependencies) error {
	query, err := tenk.ResolveQuery(c.Query, tenk.QueryType(c.Type))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tenk.ErrorMessage(err))
		return err
	}

	byYear, err := deps.Queries.QueryAllYears(deps.Ctx, deps.Credential, deps.Config.DataDir, query, c.TopK)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tenk.ErrorMessage(err))
		return err
	}

	out := newPrinter(deps.Stdout)
	for _, y := range tenk.FiscalYearsDescending() {
		out.Results(y, byYear[y])
	}
	return nil
}
