package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	mu          sync.Mutex
	out         io.Writer = os.Stderr
	verboseMode bool
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

// SetWriter redirects all output and returns the previous writer.
func SetWriter(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// Writer returns the current destination, for streaming subprocess output
// alongside styled messages.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

func emit(style lipgloss.Style, msg string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, style.Render(msg))
}

// Success prints a success message with 🔥 emoji and green color.
//
// Example:
//
//	output.Success("Using system capnp: /usr/bin/capnp")
func Success(msg string) {
	emit(successStyle, "🔥 "+msg)
}

// Error prints an error message with ❌ emoji and red color.
func Error(msg string) {
	emit(errorStyle, "❌ "+msg)
}

// Warn prints a warning with ⚠️ emoji and yellow color.
// It is for the local terminal only. Host build warnings go through cargo.Directives.
func Warn(msg string) {
	emit(warnStyle, "⚠️  "+msg)
}

// Info prints an informational message with ℹ️ emoji and cyan color.
func Info(msg string) {
	emit(infoStyle, "ℹ️  "+msg)
}

// Step prints an indented step message in gray.
func Step(msg string) {
	emit(stepStyle, "   "+msg)
}

// Verbose prints a debug message only if verbose mode is enabled.
func Verbose(msg string) {
	mu.Lock()
	enabled := verboseMode
	mu.Unlock()
	if enabled {
		emit(stepStyle, "🔍 "+msg)
	}
}

// IsVerbose reports whether verbose mode is on.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verboseMode
}
