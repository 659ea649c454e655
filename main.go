// ABOUTME: Entry point for the amil CRM command line
// ABOUTME: Cancels the command context on SIGINT/SIGTERM so servers shut down cleanly
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/amil/cli"
)

var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := cli.Execute(ctx, version, os.Args[1:], os.Stdout, os.Stderr)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
