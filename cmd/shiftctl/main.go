package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "shiftctl:", err)
		stop()
		os.Exit(1)
	}
}
