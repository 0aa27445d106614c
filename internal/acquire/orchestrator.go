package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/simonhull/capnp-fetch/pkg/output"
)

// Policy holds the build's acquisition switches. New options get a named field.
type Policy struct {
	// DenyNetFetch forbids the native build fallback. A failed discovery aborts the build.
	DenyNetFetch bool
}

// Discoverer finds a compiler already installed on the host.
type Discoverer interface {
	Discover(ctx context.Context) (AcquiredLocation, error)
}

// NativeBuilder produces a compiler under outDir.
type NativeBuilder interface {
	Build(ctx context.Context, host HostOS, outDir string) (AcquiredLocation, error)
}

// Orchestrator picks exactly one AcquiredLocation per build.
type Orchestrator struct {
	GOOS      string // defaults to runtime.GOOS
	Policy    Policy
	Discovery Discoverer
	Builder   NativeBuilder
}

// Acquire tries discovery first and falls back to the native builder unless
// the policy forbids it.
func (o *Orchestrator) Acquire(ctx context.Context, outDir string) (AcquiredLocation, error) {
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	host, err := ParseHostOS(goos)
	if err != nil {
		return nil, err
	}

	loc, discoveryErr := o.Discovery.Discover(ctx)
	if discoveryErr == nil {
		output.Success(fmt.Sprintf("using system capnp: %s", loc))
		return loc, nil
	}

	if o.Policy.DenyNetFetch {
		return nil, &DenyNetFetchError{Cause: discoveryErr}
	}

	output.Info(fmt.Sprintf("Couldn't find a local capnp: %v", discoveryErr))
	output.Step("building...")

	loc, err = o.Builder.Build(ctx, host, outDir)
	if err != nil {
		return nil, fmt.Errorf("native build: %w", err)
	}

	output.Success(fmt.Sprintf("built capnp: %s", loc.Resolve(outDir)))
	return loc, nil
}

// ResolveOutDir validates the OUT_DIR provided by the host build.
func ResolveOutDir(raw string) (string, error) {
	if raw == "" {
		return "", ErrMissingOutDir
	}
	if !filepath.IsAbs(raw) {
		return "", fmt.Errorf("OUT_DIR %q is not an absolute path", raw)
	}
	dir := filepath.Clean(raw)

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("OUT_DIR: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("OUT_DIR %s is not a directory", dir)
	}
	return dir, nil
}

// Tracker records rebuild triggers with the host build system.
type Tracker interface {
	RerunIfChanged(path string) error
}

// Emitter writes the artifact downstream stages use to locate the compiler.
type Emitter interface {
	Emit(outDir string, loc AcquiredLocation) (artifactPath string, err error)
}

// Result is the outcome of a successful Pipeline run.
type Result struct {
	OutDir       string
	Location     AcquiredLocation
	ArtifactPath string
}

// Pipeline is the whole build step: track, acquire, emit.
type Pipeline struct {
	SourceDir    string
	OutDir       string // raw OUT_DIR value
	Tracker      Tracker
	Orchestrator *Orchestrator
	Emitter      Emitter
}

// Run executes the build step. Nothing is emitted unless acquisition succeeds.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.Tracker.RerunIfChanged(p.SourceDir); err != nil {
		return nil, fmt.Errorf("change tracker: %w", err)
	}

	outDir, err := ResolveOutDir(p.OutDir)
	if err != nil {
		return nil, err
	}

	loc, err := p.Orchestrator.Acquire(ctx, outDir)
	if err != nil {
		var hostErr *UnsupportedHostOSError
		if errors.As(err, &hostErr) {
			return nil, err
		}
		return nil, fmt.Errorf("acquire capnp: %w", err)
	}

	artifact, err := p.Emitter.Emit(outDir, loc)
	if err != nil {
		return nil, fmt.Errorf("handle emitter: %w", err)
	}

	return &Result{OutDir: outDir, Location: loc, ArtifactPath: artifact}, nil
}
