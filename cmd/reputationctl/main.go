// Package main runs the reputation admin CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	reputationctl "github.com/louisbranch/faction-reputation/internal/cmd/reputationctl"
	"github.com/louisbranch/faction-reputation/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := reputationctl.NewCommand(os.Stdout, nil).Run(ctx, os.Args); err != nil {
		config.Exitf("Error: %v", err)
	}
}
