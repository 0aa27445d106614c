// Package emit writes extract_bin.rs, the artifact downstream build stages
// include to get at the acquired compiler.
//
// The generated commandhandle() embeds the compiler bytes at the downstream
// compile and, when called, extracts them into a fresh temporary directory.
// The directory is removed when the returned TempDir is dropped.
package emit

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/simonhull/capnp-fetch/internal/acquire"
	"github.com/simonhull/capnp-fetch/pkg/generator"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// ArtifactName is the file written into OUT_DIR.
const ArtifactName = "extract_bin.rs"

// UnsupportedPathError is returned for include paths that cannot be spelled
// inside a plain string literal.
type UnsupportedPathError struct {
	Path string
}

func (e *UnsupportedPathError) Error() string {
	return fmt.Sprintf("compiler path %q contains a quote or control character; such paths are not supported", e.Path)
}

// EmitError means the artifact could not be written.
type EmitError struct {
	Path string
	Err  error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *EmitError) Unwrap() error { return e.Err }

// Emitter renders and writes the artifact.
type Emitter struct {
	renderer *generator.Renderer
}

// New returns an Emitter.
func New() *Emitter {
	return &Emitter{renderer: generator.NewRenderer()}
}

type templateData struct {
	Kind        string
	IncludePath string
}

// Render returns the artifact's content for loc. The output depends only on
// its inputs, so repeated runs are byte-identical.
func (e *Emitter) Render(outDir string, loc acquire.AcquiredLocation) ([]byte, error) {
	includePath := loc.IncludePath(outDir)
	if err := checkIncludePath(includePath); err != nil {
		return nil, err
	}

	content, err := e.renderer.RenderFS(templatesFS, "templates/extract_bin.rs.tmpl", templateData{
		Kind:        loc.Kind(),
		IncludePath: includePath,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", ArtifactName, err)
	}
	return content, nil
}

// Emit writes OUT_DIR/extract_bin.rs and returns its path. An existing file
// with identical content is left untouched.
func (e *Emitter) Emit(outDir string, loc acquire.AcquiredLocation) (string, error) {
	content, err := e.Render(outDir, loc)
	if err != nil {
		return "", err
	}

	path := filepath.Join(outDir, ArtifactName)

	tx := generator.NewTransaction()
	tx.AddFile(path, content, 0644)
	if err := tx.Commit(); err != nil {
		return "", &EmitError{Path: path, Err: err}
	}
	return path, nil
}

func checkIncludePath(p string) error {
	if strings.ContainsRune(p, '"') || strings.ContainsRune(p, '\\') {
		return &UnsupportedPathError{Path: p}
	}
	for _, r := range p {
		if r < 0x20 || r == 0x7f {
			return &UnsupportedPathError{Path: p}
		}
	}
	return nil
}
