package acquire

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test doubles shared with the acquire_test package.

// WriteFakeCompiler creates an executable placeholder at path.
func WriteFakeCompiler(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho fake capnp\n"), 0755))
}

// LookPathAt returns a LookPath that always resolves to path.
func LookPathAt(path string) func(string) (string, error) {
	return func(string) (string, error) { return path, nil }
}

// LookPathNone returns a LookPath that never finds anything.
func LookPathNone() func(string) (string, error) {
	return func(file string) (string, error) {
		return "", &os.PathError{Op: "lookpath", Path: file, Err: os.ErrNotExist}
	}
}

// FakeProber returns a canned banner and counts calls.
type FakeProber struct {
	Banner string
	Err    error
	Calls  int
	Paths  []string
}

func (p *FakeProber) Version(_ context.Context, path string) (string, error) {
	p.Calls++
	p.Paths = append(p.Paths, path)
	return p.Banner, p.Err
}

// RecordingWarner collects warnings.
type RecordingWarner struct {
	Messages []string
}

func (w *RecordingWarner) Warning(msg string) error {
	w.Messages = append(w.Messages, msg)
	return nil
}

// FakeToolchain pretends to build capnp. It installs a placeholder binary
// under InstallDir (cfg.Prefix when empty) and counts invocations.
type FakeToolchain struct {
	InstallDir string
	Binary     string // relative path to create, "" skips creation
	Err        error
	Calls      int
	Configs    []BuildConfig
}

func (f *FakeToolchain) Build(_ context.Context, cfg BuildConfig) (string, error) {
	f.Calls++
	f.Configs = append(f.Configs, cfg)
	if f.Err != nil {
		return "", f.Err
	}

	dir := f.InstallDir
	if dir == "" {
		dir = cfg.Prefix
	}
	if f.Binary != "" {
		path := filepath.Join(dir, filepath.FromSlash(f.Binary))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte("built"), 0755); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// RecordingTracker collects rebuild triggers.
type RecordingTracker struct {
	Paths []string
}

func (r *RecordingTracker) RerunIfChanged(path string) error {
	r.Paths = append(r.Paths, path)
	return nil
}
