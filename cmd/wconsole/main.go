package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdin, os.Exit, os.Args[1:]...); err != nil {
		fmt.Fprintln(os.Stderr, "wconsole:", err)
		os.Exit(1)
	}
}
