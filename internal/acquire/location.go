package acquire

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// AcquiredLocation names the compiler this build will use.
// It is either a SystemLocation or a LocallyBuiltLocation.
type AcquiredLocation interface {
	fmt.Stringer

	// Resolve returns an OS path to the executable.
	Resolve(outDir string) string

	// IncludePath returns the forward-slash path baked into the emitted artifact.
	IncludePath(outDir string) string

	// Kind is "system" or "locally-built".
	Kind() string

	isAcquiredLocation()
}

// SystemLocation is a compatible compiler already installed on the host.
type SystemLocation struct {
	Path string // absolute
}

// NewSystemLocation validates that p is an absolute, existing executable.
func NewSystemLocation(p string) (SystemLocation, error) {
	if !filepath.IsAbs(p) {
		return SystemLocation{}, fmt.Errorf("system capnp path %q is not absolute", p)
	}
	if err := checkExecutable(p); err != nil {
		return SystemLocation{}, err
	}
	return SystemLocation{Path: p}, nil
}

func (l SystemLocation) String() string { return l.Path }
func (l SystemLocation) Resolve(string) string { return l.Path }
func (l SystemLocation) IncludePath(string) string { return toSlash(l.Path) }
func (l SystemLocation) Kind() string { return "system" }
func (SystemLocation) isAcquiredLocation() {}

// LocallyBuiltLocation is a compiler installed by the native builder under OUT_DIR.
type LocallyBuiltLocation struct {
	Rel string // slash-separated, relative to OUT_DIR
}

// NewLocallyBuiltLocation validates that rel, joined onto outDir, is an existing executable.
func NewLocallyBuiltLocation(outDir, rel string) (LocallyBuiltLocation, error) {
	if rel == "" || path.IsAbs(rel) || strings.Contains(rel, `\`) {
		return LocallyBuiltLocation{}, fmt.Errorf("locally built path %q must be a relative slash path", rel)
	}
	loc := LocallyBuiltLocation{Rel: path.Clean(rel)}
	if strings.HasPrefix(loc.Rel, "../") || loc.Rel == ".." {
		return LocallyBuiltLocation{}, fmt.Errorf("locally built path %q escapes OUT_DIR", rel)
	}
	if err := checkExecutable(loc.Resolve(outDir)); err != nil {
		return LocallyBuiltLocation{}, err
	}
	return loc, nil
}

func (l LocallyBuiltLocation) String() string { return l.Rel }

func (l LocallyBuiltLocation) Resolve(outDir string) string {
	return filepath.Join(outDir, filepath.FromSlash(l.Rel))
}

func (l LocallyBuiltLocation) IncludePath(outDir string) string {
	return strings.TrimSuffix(toSlash(outDir), "/") + "/" + l.Rel
}

func (l LocallyBuiltLocation) Kind() string { return "locally-built" }
func (LocallyBuiltLocation) isAcquiredLocation() {}

// toSlash rewrites every backslash, independent of the running OS.
func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func checkExecutable(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("capnp executable %s: %w", p, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("capnp executable %s is not a regular file", p)
	}
	// Windows has no executable bit
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("capnp executable %s is not executable (mode %v)", p, info.Mode().Perm())
	}
	return nil
}
