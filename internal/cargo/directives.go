// Package cargo writes build-script directives in the `cargo:KEY=VALUE`
// line protocol understood by the host build system.
package cargo

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Directives writes directive lines to the host build system, normally on stdout.
type Directives struct {
	mu sync.Mutex
	w  io.Writer
}

// NewDirectives returns a directive writer on w, or on os.Stdout when w is nil.
func NewDirectives(w io.Writer) *Directives {
	if w == nil {
		w = os.Stdout
	}
	return &Directives{w: w}
}

// RerunIfChanged tells the host build to re-run when path changes.
func (d *Directives) RerunIfChanged(path string) error {
	return d.emit("rerun-if-changed", path)
}

// Warning surfaces msg in the host build log. Multi-line messages are split
// so each line is shown.
func (d *Directives) Warning(msg string) error {
	for _, line := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		if err := d.emit("warning", line); err != nil {
			return err
		}
	}
	return nil
}

func (d *Directives) emit(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := fmt.Fprintf(d.w, "cargo:%s=%s\n", key, value); err != nil {
		return fmt.Errorf("writing cargo:%s directive: %w", key, err)
	}
	return nil
}
