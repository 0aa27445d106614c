package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/simonhull/capnp-fetch/internal/commands"
	"github.com/simonhull/capnp-fetch/pkg/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := commands.RootCmd()
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(commands.AcquireCmd())
	rootCmd.AddCommand(commands.DoctorCmd())
	rootCmd.AddCommand(commands.ImportCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
