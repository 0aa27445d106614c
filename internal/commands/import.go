package commands

import (
	"github.com/spf13/cobra"

	"github.com/simonhull/capnp-fetch/internal/acquire"
	"github.com/simonhull/capnp-fetch/internal/config"
	"github.com/simonhull/capnp-fetch/internal/importer"
	"github.com/simonhull/capnp-fetch/pkg/exec"
	"github.com/simonhull/capnp-fetch/pkg/output"
)

// ImportCmd creates the import command.
func ImportCmd() *cobra.Command {
	var (
		capnp  string
		dest   string
		plugin string
	)

	cmd := &cobra.Command{
		Use:   "import <glob>...",
		Short: "Compile matching schemas and print the include! helper module",
		Long: `Walks the current directory, compiles every file matching one of the
globs with a single 'capnp compile -o<plugin>:OUT_DIR' and prints a Rust helper
module with one mod per schema.

Hidden directories and target/ are skipped. Globs support **.

Examples:
  capnp-fetch import 'tests/**/*.capnp'
  capnp-fetch import --output src/schemas.rs schema/a.capnp schema/b.capnp`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			outDir, err := acquire.ResolveOutDir(cfg.OutDir)
			if err != nil {
				return err
			}

			host, err := acquire.CurrentHostOS()
			if err != nil {
				return err
			}
			compiler, err := importer.LocateCompiler(capnp, outDir, host, nil)
			if err != nil {
				return err
			}
			output.Verbose("using " + compiler)

			im := &importer.Importer{
				Root:     ".",
				OutDir:   outDir,
				Compiler: compiler,
				Plugin:   plugin,
				Runner:   exec.NewExecutor(&exec.Options{Stdout: output.Writer(), Stderr: output.Writer()}),
			}

			src, err := im.Run(cmd.Context(), args)
			if err != nil {
				return err
			}
			return importer.WriteHelper(cmd.OutOrStdout(), dest, src)
		},
	}

	cmd.Flags().String("out-dir", "", "Output directory (default $OUT_DIR)")
	cmd.Flags().StringVar(&capnp, "capnp", "", "capnp executable (default: OUT_DIR/bin/capnp, then PATH)")
	cmd.Flags().StringVarP(&dest, "output", "o", "-", "Write the helper module here instead of stdout")
	cmd.Flags().StringVar(&plugin, "plugin", "rust", "Code generator passed to capnp compile -o")

	return cmd
}
