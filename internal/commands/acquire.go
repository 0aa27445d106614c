package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/simonhull/capnp-fetch/internal/acquire"
	"github.com/simonhull/capnp-fetch/internal/cargo"
	"github.com/simonhull/capnp-fetch/internal/config"
	"github.com/simonhull/capnp-fetch/internal/emit"
	"github.com/simonhull/capnp-fetch/pkg/exec"
	"github.com/simonhull/capnp-fetch/pkg/output"
)

// AcquireCmd creates the acquire command, the build-script entry point.
func AcquireCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "acquire",
		Short: "Discover or build capnp and write extract_bin.rs",
		Long: `Finds a capnp on PATH whose version banner matches exactly, or builds the
vendored capnproto sources into OUT_DIR, then writes OUT_DIR/extract_bin.rs.

Stdout carries cargo: directives only. Progress and diagnostics go to stderr.

Environment:
  OUT_DIR                        Output directory (required)
  CARGO_FEATURE_DENY_NET_FETCH   Set by the deny-net-fetch feature
  CAPNP_FETCH_DENY_NET_FETCH     Same, outside of Cargo
  PROFILE, NUM_JOBS              Build type and parallelism for CMake`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAcquire(cmd)
		},
	}

	addBuildFlags(cmd)
	cmd.Flags().Bool("progress", false, "Show a spinner instead of CMake output when stderr is a terminal")

	return cmd
}

func runAcquire(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	directives := cargo.NewDirectives(cmd.OutOrStdout())

	cmakeLog := exec.NewPrefixWriter(output.Writer(), "[cmake] ")
	defer cmakeLog.Flush()

	executor := exec.NewExecutor(&exec.Options{Stdout: cmakeLog, Stderr: cmakeLog})
	toolchain := acquire.NewCMake(executor, cfg.Progress && isTerminal(output.Writer()))

	builder := acquire.NewBuilder(toolchain, cfg.SourceDir)
	builder.Profile = cfg.Profile
	builder.Jobs = cfg.Jobs

	pipeline := &acquire.Pipeline{
		SourceDir: cfg.SourceDir,
		OutDir:    cfg.OutDir,
		Tracker:   directives,
		Orchestrator: &acquire.Orchestrator{
			Policy:    cfg.Policy,
			Discovery: acquire.NewDiscovery(acquire.NewProbe(exec.NewExecutor(nil)), directives),
			Builder:   builder,
		},
		Emitter: emit.New(),
	}

	res, err := pipeline.Run(cmd.Context())
	if err != nil {
		return err
	}

	output.Verbose(fmt.Sprintf("wrote %s (%s capnp)", res.ArtifactPath, res.Location.Kind()))
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
