package acquire

import (
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/simonhull/capnp-fetch/pkg/output"
)

// Define is a single -DKEY=VALUE cache entry passed to the configure step.
type Define struct {
	Key   string
	Value string
}

// BuildConfig is everything a Toolchain needs to configure, build and install
// the vendored source tree.
type BuildConfig struct {
	SourceDir string
	BuildDir  string
	Prefix    string   // install prefix, always OUT_DIR
	Generator string   // "" selects the platform default
	CXXFlags  []string // joined into CMAKE_CXX_FLAGS
	Defines   []Define // in the order they are passed
	BuildType string   // Debug or Release
	Jobs      int      // 0 lets the generator decide
}

// Toolchain drives the vendored project's native build system.
type Toolchain interface {
	// Build configures, builds and installs cfg, and returns the directory
	// it actually installed into.
	Build(ctx context.Context, cfg BuildConfig) (installDir string, err error)
}

// Builder builds capnp from the vendored source tree into OUT_DIR.
type Builder struct {
	Toolchain Toolchain
	SourceDir string
	Profile   string // host build profile, "release" selects Release
	Jobs      int
	LookPath  func(file string) (string, error)
}

// NewBuilder returns a builder for sourceDir driven by toolchain.
func NewBuilder(toolchain Toolchain, sourceDir string) *Builder {
	return &Builder{
		Toolchain: toolchain,
		SourceDir: sourceDir,
		LookPath:  osexec.LookPath,
	}
}

// Plan computes the build configuration for host without running anything.
func (b *Builder) Plan(host HostOS, outDir string) (BuildConfig, error) {
	if _, err := host.InstalledBinary(); err != nil {
		return BuildConfig{}, err
	}

	cfg := BuildConfig{
		SourceDir: b.SourceDir,
		BuildDir:  filepath.Join(outDir, "build"),
		Prefix:    outDir,
		BuildType: buildType(b.Profile),
		Jobs:      b.Jobs,
	}

	lookPath := b.LookPath
	if lookPath == nil {
		lookPath = osexec.LookPath
	}
	if _, err := lookPath("ninja"); err == nil {
		cfg.Generator = "Ninja"
	}

	if host == Windows {
		cfg.CXXFlags = append(cfg.CXXFlags, "/EHsc")
	}

	cfg.Defines = []Define{
		{Key: "BUILD_TESTING", Value: "OFF"},
		{Key: "CMAKE_BUILD_TYPE", Value: cfg.BuildType},
		{Key: "CMAKE_INSTALL_PREFIX", Value: cfg.Prefix},
	}
	if len(cfg.CXXFlags) > 0 {
		cfg.Defines = append(cfg.Defines, Define{Key: "CMAKE_CXX_FLAGS", Value: strings.Join(cfg.CXXFlags, " ")})
	}

	return cfg, nil
}

// Build runs the toolchain and returns the installed compiler's location.
// Any toolchain failure is fatal.
func (b *Builder) Build(ctx context.Context, host HostOS, outDir string) (AcquiredLocation, error) {
	rel, err := host.InstalledBinary()
	if err != nil {
		return nil, err
	}

	cfg, err := b.Plan(host, outDir)
	if err != nil {
		return nil, err
	}

	generator := cfg.Generator
	if generator == "" {
		generator = "platform default"
	}
	output.Verbose(fmt.Sprintf("building %s into %s (generator: %s, %s)", cfg.SourceDir, cfg.Prefix, generator, cfg.BuildType))

	installDir, err := b.Toolchain.Build(ctx, cfg)
	if err != nil {
		var builderErr *BuilderError
		if errors.As(err, &builderErr) {
			return nil, err
		}
		return nil, &BuilderError{Step: "build", Err: err}
	}

	if filepath.Clean(installDir) != filepath.Clean(outDir) {
		return nil, &InstallPrefixMismatchError{Want: outDir, Got: installDir}
	}

	loc, err := NewLocallyBuiltLocation(outDir, rel)
	if err != nil {
		return nil, &BuilderError{Step: "verify", Err: err}
	}
	return loc, nil
}

func buildType(profile string) string {
	if strings.EqualFold(profile, "release") {
		return "Release"
	}
	return "Debug"
}

// ParseJobs reads a NUM_JOBS style value. Empty means 0.
func ParseJobs(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid job count %q", s)
	}
	return n, nil
}
