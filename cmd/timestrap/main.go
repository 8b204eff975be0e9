package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"timestrap/internal/cli"
)

func main() {
	// Interrupts cancel the command context so that long runs (record, submit --wait)
	// stop cleanly; serve handles its own shutdown signals.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(os.Stdout)
	if err := root.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cli.NewErrorHandler().HandleSimple(err))
		stop()
		os.Exit(1)
	}
}
