// Package main contains the entrypoint for the Bitcoin Calendar channel bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "time/tzdata" // TIMEZONE must resolve on hosts without a zoneinfo database
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:])
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(code)
}

// execute runs the command line and returns the process exit code: 0 on
// normal completion (including a day without events), 1 on any failure.
func execute(ctx context.Context, args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	return exitCode(cmd.ExecuteContext(ctx))
}

func exitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}
