package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/capnp-fetch/internal/acquire"
	"github.com/simonhull/capnp-fetch/internal/config"
	"github.com/simonhull/capnp-fetch/pkg/exec"
	"github.com/simonhull/capnp-fetch/pkg/output"
)

// DoctorReport is what doctor prints, as YAML.
type DoctorReport struct {
	Host           string          `yaml:"host"`
	RequiredBanner string          `yaml:"required_banner"`
	DenyNetFetch   bool            `yaml:"deny_net_fetch"`
	Discovery      DiscoveryReport `yaml:"discovery"`
	Build          *BuildReport    `yaml:"build,omitempty"`
	Action         string          `yaml:"action"`
}

// DiscoveryReport describes the PATH lookup and version probe.
type DiscoveryReport struct {
	Found bool   `yaml:"found"`
	Path  string `yaml:"path,omitempty"`
	Error string `yaml:"error,omitempty"`
}

// BuildReport is the CMake plan acquire would run.
type BuildReport struct {
	SourceDir string   `yaml:"source_dir"`
	Generator string   `yaml:"generator"`
	BuildType string   `yaml:"build_type"`
	Installs  string   `yaml:"installs"`
	Configure []string `yaml:"configure"`
	Build     []string `yaml:"build"`
}

// DoctorCmd creates the doctor command.
func DoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Report what acquire would do, without building",
		Long: `Runs host detection, system discovery and build planning, then prints a
YAML report. Nothing is built and nothing is written to OUT_DIR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			discovery := acquire.NewDiscovery(acquire.NewProbe(exec.NewExecutor(nil)), logWarner{})
			builder := acquire.NewBuilder(nil, cfg.SourceDir)
			builder.Profile = cfg.Profile
			builder.Jobs = cfg.Jobs

			report, err := Diagnose(cmd.Context(), runtime.GOOS, cfg, discovery, builder)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}

	addBuildFlags(cmd)

	return cmd
}

// Diagnose builds a DoctorReport for goos.
func Diagnose(ctx context.Context, goos string, cfg *config.Config, discovery acquire.Discoverer, builder *acquire.Builder) (*DoctorReport, error) {
	host, err := acquire.ParseHostOS(goos)
	if err != nil {
		return nil, err
	}

	report := &DoctorReport{
		Host:           host.String(),
		RequiredBanner: acquire.Banner(acquire.RequiredVersion),
		DenyNetFetch:   cfg.Policy.DenyNetFetch,
	}

	loc, discoveryErr := discovery.Discover(ctx)
	if discoveryErr == nil {
		report.Discovery = DiscoveryReport{Found: true, Path: loc.String()}
		report.Action = "use system capnp"
		return report, nil
	}

	report.Discovery.Error = discoveryErr.Error()
	var mismatch *acquire.VersionMismatchError
	var unreadable *acquire.DiscoveryUnreadableError
	switch {
	case errors.As(discoveryErr, &mismatch):
		report.Discovery.Path = mismatch.Path
	case errors.As(discoveryErr, &unreadable):
		report.Discovery.Path = unreadable.Path
	}

	if cfg.Policy.DenyNetFetch {
		report.Action = "fail (deny-net-fetch is enabled)"
		return report, nil
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "$OUT_DIR"
	}
	plan, err := builder.Plan(host, outDir)
	if err != nil {
		return nil, err
	}
	rel, _ := host.InstalledBinary()

	generator := plan.Generator
	if generator == "" {
		generator = "platform default"
	}
	report.Build = &BuildReport{
		SourceDir: plan.SourceDir,
		Generator: generator,
		BuildType: plan.BuildType,
		Installs:  rel,
		Configure: acquire.ConfigureArgs(plan),
		Build:     acquire.BuildArgs(plan),
	}
	report.Action = "build from source"
	return report, nil
}

func writeReport(w io.Writer, report *DoctorReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}

// logWarner shows discovery warnings on stderr instead of as cargo directives.
type logWarner struct{}

func (logWarner) Warning(msg string) error {
	output.Warn(msg)
	return nil
}
