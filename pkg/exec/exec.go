package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Executor runs external commands
type Executor struct {
	stdout io.Writer
	stderr io.Writer
	env    []string
	dir    string

	// For mocking in tests
	commandFunc func(name string, args ...string) *exec.Cmd
}

// Options configures command execution
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Env    []string // Additional environment variables
	Dir    string   // Working directory
}

// NewExecutor creates an executor with sensible defaults
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{}
	}

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	return &Executor{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		commandFunc: exec.Command,
	}
}

// WithCommandFunc returns a copy of the executor that builds processes with fn.
// Used by tests in other packages to substitute a helper process.
func (e *Executor) WithCommandFunc(fn func(name string, args ...string) *exec.Cmd) *Executor {
	c := *e
	c.commandFunc = fn
	return &c
}

// StartError reports that a process could not be spawned at all.
type StartError struct {
	Name string
	Err  error
}

func (e *StartError) Error() string {
	if isCommandNotFound(e.Err) {
		return fmt.Sprintf("failed to start %s: %v\n💡 Command '%s' not found. Please install it and try again", e.Name, e.Err, e.Name)
	}
	return fmt.Sprintf("failed to start %s: %v", e.Name, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

// ExitError reports that a process ran and exited with a non-zero status.
type ExitError struct {
	Name   string
	Code   int
	Stderr string // captured stderr, only populated by Output
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s failed: exit status %d", e.Name, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// Run executes a command, streaming its output to the executor's writers
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	return e.run(ctx, e.stdout, e.stderr, name, args...)
}

// Output executes a command and returns everything it wrote to stdout.
// Stderr is captured and attached to *ExitError on failure.
func (e *Executor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	err := e.run(ctx, &stdout, &stderr, name, args...)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		exitErr.Stderr = stderr.String()
	}
	return stdout.Bytes(), err
}

func (e *Executor) run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := e.commandFunc(name, args...)

	if e.dir != "" {
		cmd.Dir = e.dir
	}

	if len(e.env) > 0 {
		if cmd.Env == nil {
			cmd.Env = os.Environ()
		}
		cmd.Env = append(cmd.Env, e.env...)
	}

	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return &StartError{Name: name, Err: err}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		<-errCh
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	case err := <-errCh:
		if err == nil {
			return nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Name: name, Code: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
}

// RunWithSpinner runs a command with a progress spinner on stderr.
// Command output is discarded while the spinner owns the terminal.
func (e *Executor) RunWithSpinner(ctx context.Context, message string, name string, args ...string) error {
	done := make(chan error, 1)
	go func() {
		done <- e.run(ctx, io.Discard, io.Discard, name, args...)
	}()

	m := newSpinnerModel(message)
	p := tea.NewProgram(m, tea.WithOutput(e.stderr), tea.WithInput(nil))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		// Spinner failures never affect the command result
		_, _ = p.Run()
	}()

	err := <-done
	p.Send(spinnerDoneMsg{err: err})

	select {
	case <-finished:
	case <-time.After(250 * time.Millisecond):
		p.Quit()
	}

	return err
}

// spinnerModel is the bubbletea model for the spinner
type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("❌ %s\n", m.message)
		}
		return fmt.Sprintf("✅ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}

// isCommandNotFound checks if an error indicates a command was not found
func isCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "command not found")
}

// GenericCommand is a fluent builder for one invocation on an Executor
type GenericCommand struct {
	executor   *Executor
	command    string
	args       []string
	spinnerMsg string // "" runs without a spinner
}

// NewGenericCommand creates a new generic command builder
func NewGenericCommand(executor *Executor, command string) *GenericCommand {
	return &GenericCommand{executor: executor, command: command}
}

// WithArgs adds arguments to the command
func (g *GenericCommand) WithArgs(args ...string) *GenericCommand {
	g.args = append(g.args, args...)
	return g
}

// WithSpinner replaces the command's output with a spinner showing message
func (g *GenericCommand) WithSpinner(message string) *GenericCommand {
	g.spinnerMsg = message
	return g
}

// Run executes the command
func (g *GenericCommand) Run(ctx context.Context) error {
	if g.spinnerMsg != "" {
		return g.executor.RunWithSpinner(ctx, g.spinnerMsg, g.command, g.args...)
	}
	return g.executor.Run(ctx, g.command, g.args...)
}

// String returns the command line, for logging
func (g *GenericCommand) String() string {
	return strings.Join(append([]string{g.command}, g.args...), " ")
}
