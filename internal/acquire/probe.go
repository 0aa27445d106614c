package acquire

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/simonhull/capnp-fetch/pkg/exec"
)

// VersionFlag asks capnp for its version banner.
const VersionFlag = "--version"

// OutputRunner runs a command and captures its stdout. *exec.Executor implements it.
type OutputRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Probe reads the version banner of a candidate compiler.
type Probe struct {
	runner OutputRunner
}

// NewProbe returns a probe that spawns processes through runner.
func NewProbe(runner OutputRunner) *Probe {
	return &Probe{runner: runner}
}

// Version runs `path --version` and returns stdout exactly as printed.
func (p *Probe) Version(ctx context.Context, path string) (string, error) {
	out, err := p.runner.Output(ctx, path, VersionFlag)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ProbeError{Kind: ProbeExit, Path: path, Err: err}
		}
		return "", &ProbeError{Kind: ProbeIO, Path: path, Err: err}
	}

	if !utf8.Valid(out) {
		return "", &ProbeError{Kind: ProbeDecode, Path: path}
	}
	return string(out), nil
}
