package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"inkline/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cli.Execute(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "inkline: %v\n", err)
		os.Exit(1)
	}
}
