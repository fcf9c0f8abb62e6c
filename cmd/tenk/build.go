package main

import (
	"fmt"

	"github.com/fwojciec/tenk"
)

// Run executes the build command. Indexes and the graph are persisted by the
// configured store, so later commands reuse them.
func (c *BuildCmd) Run(deps *Dependencies) error {
	set, err := deps.Indexes.BuildIndexSet(deps.Ctx, deps.Credential, deps.Config.DataDir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tenk.ErrorMessage(err))
		return err
	}

	for _, y := range set.Years() {
		idx, err := set.Index(y)
		if err != nil {
			return err
		}
		fmt.Fprintf(deps.Stdout, "%d  %d records\n", int(y), idx.Len())
	}

	if c.SkipGraph {
		return nil
	}

	g, err := deps.Graphs.Graph(deps.Ctx, deps.Credential, set)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tenk.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "graph  %d years\n", len(g.Years))
	return nil
}
