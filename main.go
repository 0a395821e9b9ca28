package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/ud-extract/cmd/ids"
	"fjacquet/ud-extract/cmd/root"
	"fjacquet/ud-extract/internal/config"
)

func main() {
	// .env is applied before viper reads the environment.
	config.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := root.NewCommand(ids.NewCommand)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
