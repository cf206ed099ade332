// Command neuro administers clusters, cluster users, quotas and resource presets
// on the platform.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/neuromation/neuro-admin/cmd/neuro/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, cmd.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}, os.Args[1:])
	stop()
	os.Exit(code)
}
