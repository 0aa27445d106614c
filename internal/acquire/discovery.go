package acquire

import (
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"path/filepath"
	"strings"

	"github.com/simonhull/capnp-fetch/pkg/output"
)

// CompilerName is the executable searched for on PATH. LookPath adds .exe on windows.
const CompilerName = "capnp"

// VersionProber returns the raw version banner of an executable.
type VersionProber interface {
	Version(ctx context.Context, path string) (string, error)
}

// Warner surfaces a message in the host build log.
type Warner interface {
	Warning(msg string) error
}

// Discovery looks for a compatible capnp already installed on the host.
type Discovery struct {
	LookPath func(file string) (string, error)
	Prober   VersionProber
	Warnings Warner
	Required string // bare version, defaults to RequiredVersion
}

// NewDiscovery wires discovery to PATH lookup and the given prober.
func NewDiscovery(prober VersionProber, warnings Warner) *Discovery {
	return &Discovery{
		LookPath: osexec.LookPath,
		Prober:   prober,
		Warnings: warnings,
		Required: RequiredVersion,
	}
}

// Discover returns a SystemLocation when PATH holds a capnp whose trimmed
// banner equals Banner(Required). Every error it returns matches ErrDiscovery.
func (d *Discovery) Discover(ctx context.Context) (AcquiredLocation, error) {
	required := d.Required
	if required == "" {
		required = RequiredVersion
	}

	bin, err := d.LookPath(CompilerName)
	if err != nil && !errors.Is(err, osexec.ErrDot) {
		output.Verbose(fmt.Sprintf("PATH lookup for %s failed: %v", CompilerName, err))
		return nil, ErrDiscoveryNotFound
	}
	if abs, err := filepath.Abs(bin); err == nil {
		bin = abs
	}

	banner, err := d.Prober.Version(ctx, bin)
	if err != nil {
		return nil, &DiscoveryUnreadableError{Path: bin, Err: err}
	}

	observed := strings.TrimSpace(banner)
	output.Info(fmt.Sprintf("found capnp '%s' at %s", observed, bin))

	if observed != Banner(required) {
		msg := fmt.Sprintf("System version of capnp found (%s) does not meet version requirement %s.", observed, required)
		if hint := versionHint(observed, required); hint != "" {
			msg += " The system compiler is " + hint + "."
		}
		if d.Warnings != nil {
			if werr := d.Warnings.Warning(msg); werr != nil {
				output.Verbose(werr.Error())
			}
		}
		return nil, &VersionMismatchError{Path: bin, Observed: observed, Required: required}
	}

	loc, err := NewSystemLocation(bin)
	if err != nil {
		return nil, &DiscoveryUnreadableError{Path: bin, Err: err}
	}
	return loc, nil
}
