package acquire

import (
	"context"
	"strconv"

	"github.com/simonhull/capnp-fetch/pkg/exec"
	"github.com/simonhull/capnp-fetch/pkg/output"
)

// CMake is the Toolchain for the vendored capnproto tree.
type CMake struct {
	executor *exec.Executor
	binary   string
	spinner  bool
}

// NewCMake returns a CMake toolchain. With spinner set, subprocess output is
// replaced by a progress spinner.
func NewCMake(executor *exec.Executor, spinner bool) *CMake {
	return &CMake{executor: executor, binary: "cmake", spinner: spinner}
}

// Build runs the configure step followed by `--build --target install`.
func (c *CMake) Build(ctx context.Context, cfg BuildConfig) (string, error) {
	configure := exec.NewGenericCommand(c.executor, c.binary).WithArgs(ConfigureArgs(cfg)...)
	build := exec.NewGenericCommand(c.executor, c.binary).WithArgs(BuildArgs(cfg)...)

	if c.spinner {
		configure.WithSpinner("Configuring capnproto")
		build.WithSpinner("Building capnproto")
	}

	output.Verbose(configure.String())
	if err := configure.Run(ctx); err != nil {
		return "", &BuilderError{Step: "cmake configure", Err: err}
	}

	output.Verbose(build.String())
	if err := build.Run(ctx); err != nil {
		return "", &BuilderError{Step: "cmake build", Err: err}
	}

	return cfg.Prefix, nil
}

// ConfigureArgs returns the arguments of the configure invocation.
func ConfigureArgs(cfg BuildConfig) []string {
	args := []string{"-S", cfg.SourceDir, "-B", cfg.BuildDir}
	if cfg.Generator != "" {
		args = append(args, "-G", cfg.Generator)
	}
	for _, d := range cfg.Defines {
		args = append(args, "-D"+d.Key+"="+d.Value)
	}
	return args
}

// BuildArgs returns the arguments of the build-and-install invocation.
func BuildArgs(cfg BuildConfig) []string {
	args := []string{"--build", cfg.BuildDir, "--target", "install", "--config", cfg.BuildType}
	if cfg.Jobs > 0 {
		args = append(args, "--parallel", strconv.Itoa(cfg.Jobs))
	}
	return args
}

