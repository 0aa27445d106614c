// Package importer compiles matching .capnp schemas and produces the Rust
// helper module that includes the generated code from OUT_DIR.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	osexec "os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/simonhull/capnp-fetch/internal/acquire"
	"github.com/simonhull/capnp-fetch/pkg/filesystem"
	"github.com/simonhull/capnp-fetch/pkg/generator"
	"github.com/simonhull/capnp-fetch/pkg/output"
)

// Header opens every helper module.
const Header = "// This file is autogenerated by capnp-fetch\n"

// ErrNoMatches is returned when no file matched any pattern.
var ErrNoMatches = errors.New("no schema files matched")

// PatternError reports a glob that doublestar cannot parse.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Module is one schema file and the Rust module generated for it.
type Module struct {
	Path string // slash-separated, relative to the walk root
	Name string // <stem>_<ext>
}

// Include is the OUT_DIR-relative path of the generated Rust source.
func (m Module) Include() string {
	return path.Join(path.Dir(m.Path), m.Name+".rs")
}

// NewModule derives the module for a schema path.
func NewModule(rel string) (Module, error) {
	rel = normalize(rel)
	base := path.Base(rel)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" || stem == "" {
		return Module{}, fmt.Errorf("schema %s has no file extension", rel)
	}
	return Module{Path: rel, Name: stem + "_" + strings.TrimPrefix(ext, ".")}, nil
}

// normalize keeps only the plain components of p.
func normalize(p string) string {
	var parts []string
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		switch part {
		case "", ".", "..":
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "/")
}

// Find walks root in lexical order and returns the files matching any pattern.
func Find(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("at least one pattern is required")
	}

	globs := make([]string, 0, len(patterns))
	for _, p := range patterns {
		g := strings.TrimPrefix(filepath.ToSlash(p), "./")
		if !doublestar.ValidatePattern(g) {
			return nil, &PatternError{Pattern: p, Err: doublestar.ErrBadPattern}
		}
		globs = append(globs, g)
	}

	var matches []string
	err := filesystem.WalkFiles(root, filesystem.WalkOptions{}, func(p string) error {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = normalize(rel)
		for _, g := range globs {
			if ok, _ := doublestar.Match(g, rel); ok {
				output.Verbose(fmt.Sprintf("matched %s", rel))
				matches = append(matches, rel)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return matches, nil
}

// HelperSource renders the helper module for modules, in order.
func HelperSource(modules []Module) string {
	var b strings.Builder
	b.WriteString(Header)
	for _, m := range modules {
		fmt.Fprintf(&b, "\n\nmod %s {\ninclude!(concat!(env!(\"OUT_DIR\"), \"/%s\"));\n}", m.Name, m.Include())
	}
	return b.String()
}

// Runner runs a command to completion. *exec.Executor implements it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Importer compiles schemas with capnp and builds the helper module.
type Importer struct {
	Root     string // walk root, defaults to "."
	OutDir   string
	Compiler string // capnp executable
	Plugin   string // code generator name, defaults to "rust"
	Runner   Runner // must run commands in Root
}

// Run finds the schemas matching patterns, compiles them in one capnp
// invocation and returns the helper module source.
func (im *Importer) Run(ctx context.Context, patterns []string) (string, error) {
	root := im.Root
	if root == "" {
		root = "."
	}
	plugin := im.Plugin
	if plugin == "" {
		plugin = "rust"
	}
	if im.OutDir == "" {
		return "", acquire.ErrMissingOutDir
	}

	files, err := Find(root, patterns)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoMatches, strings.Join(patterns, ", "))
	}

	modules := make([]Module, 0, len(files))
	seen := make(map[string]string)
	for _, f := range files {
		m, err := NewModule(f)
		if err != nil {
			return "", err
		}
		if prev, ok := seen[m.Name]; ok {
			output.Warn(fmt.Sprintf("module %s is generated for both %s and %s", m.Name, prev, m.Path))
		}
		seen[m.Name] = m.Path
		modules = append(modules, m)
	}

	args := []string{"compile", "-o" + plugin + ":" + im.OutDir}
	for _, m := range modules {
		args = append(args, filepath.FromSlash(m.Path))
	}

	output.Step(fmt.Sprintf("compiling %d schema(s)", len(modules)))
	if err := im.Runner.Run(ctx, im.Compiler, args...); err != nil {
		return "", fmt.Errorf("capnp compile: %w", err)
	}

	return HelperSource(modules), nil
}

// LocateCompiler returns explicit when set, then a compiler previously built
// into outDir, then capnp from PATH.
func LocateCompiler(explicit, outDir string, host acquire.HostOS, lookPath func(string) (string, error)) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if outDir != "" {
		if rel, err := host.InstalledBinary(); err == nil {
			if loc, err := acquire.NewLocallyBuiltLocation(outDir, rel); err == nil {
				return loc.Resolve(outDir), nil
			}
		}
	}

	if lookPath == nil {
		lookPath = osexec.LookPath
	}
	bin, err := lookPath(acquire.CompilerName)
	if err != nil && !errors.Is(err, osexec.ErrDot) {
		return "", fmt.Errorf("no capnp compiler: pass --capnp or run `capnp-fetch acquire` first: %w", err)
	}
	return bin, nil
}

// WriteHelper writes src to dst, or to w when dst is "" or "-". An existing
// dst with identical content is left untouched.
func WriteHelper(w io.Writer, dst, src string) error {
	if dst == "" || dst == "-" {
		_, err := io.WriteString(w, src)
		return err
	}

	tx := generator.NewTransaction()
	tx.AddFile(dst, []byte(src), 0644)
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
