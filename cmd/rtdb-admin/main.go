// Package main is the rtdb-admin command line.
//
// Import Path: github.com/sungjintrb/rtdb-admin/cmd/rtdb-admin
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sungjintrb/rtdb-admin/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr, cli.Deps{})
}
