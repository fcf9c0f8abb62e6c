package main

import (
	"fmt"

	"github.com/fwojciec/tenk"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if deps.Watcher != nil {
		go deps.Watcher.Run(deps.Ctx)
	}

	fmt.Fprintf(deps.Stderr, "Serving %s on %s\n", deps.Config.DataDir, deps.Config.Addr)
	if err := deps.Server.ListenAndServe(deps.Ctx, deps.Config.Addr); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tenk.ErrorMessage(err))
		return err
	}
	return nil
}
