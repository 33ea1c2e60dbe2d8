package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/skilltree-service/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := commands.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
