package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/capnp-fetch/internal/acquire"
	"github.com/simonhull/capnp-fetch/pkg/output"
)

// Version is the capnp-fetch release, overridden at link time.
var Version = "0.1.0-dev"

// RootCmd creates and returns the root command for the capnp-fetch CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "capnp-fetch",
		Short: "Provide a Cap'n Proto compiler to a Rust build",
		Long: `capnp-fetch makes a capnp compiler available to a Cargo build step.

It prefers a compatible capnp already on PATH and otherwise builds the
vendored capnproto sources with CMake into OUT_DIR. Either way it writes
OUT_DIR/extract_bin.rs, whose commandhandle() extracts the compiler into a
temporary directory at run time.

Run it from build.rs:
  capnp-fetch acquire         # discover or build, then emit extract_bin.rs
  capnp-fetch doctor          # report what acquire would do
  capnp-fetch import 'schema/**/*.capnp'`,
		Version:      fmt.Sprintf("%s (capnp %s)", Version, acquire.RequiredVersion),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	return cmd
}

// addBuildFlags registers the flags config.Load reads.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().String("out-dir", "", "Output directory (default $OUT_DIR)")
	cmd.Flags().String("source-dir", "capnproto", "Vendored capnproto source tree")
	cmd.Flags().Bool("deny-net-fetch", false, "Fail instead of building when no compatible system capnp exists")
}
