package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/tenk"
)

// Run executes the graph command.
func (c *GraphCmd) Run(deps *Dependencies) error {
	query := strings.TrimSpace(c.Query)
	if query == "" {
		query = tenk.RiskSummaryQuestion
	}

	answer, err := deps.Queries.QueryGraph(deps.Ctx, deps.Credential, deps.Config.DataDir, query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tenk.ErrorMessage(err))
		return err
	}

	newPrinter(deps.Stdout).Answer(answer)
	return nil
}
