package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mamercad/community.healthchecksio/cli/api"
	"github.com/mamercad/community.healthchecksio/cli/cmd"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	api.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
