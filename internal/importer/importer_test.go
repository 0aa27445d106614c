package importer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/capnp-fetch/internal/acquire"
)

type recordingRunner struct {
	name string
	args []string
	err  error
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) error {
	r.name = name
	r.args = args
	return r.err
}

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("@0xdbb9ad1f14bf0b36;\n"), 0644))
	}
	return root
}

func TestRun_SingleFile(t *testing.T) {
	root := writeTree(t, "tests/example.capnp", "tests/other.txt")
	runner := &recordingRunner{}

	im := &Importer{Root: root, OutDir: "/out", Compiler: "/usr/bin/capnp", Runner: runner}
	src, err := im.Run(context.Background(), []string{"tests/example.capnp"})
	require.NoError(t, err)

	assert.Equal(t,
		"// This file is autogenerated by capnp-fetch\n\n\nmod example_capnp {\ninclude!(concat!(env!(\"OUT_DIR\"), \"/tests/example_capnp.rs\"));\n}",
		src)
	assert.Equal(t, "/usr/bin/capnp", runner.name)
	assert.Equal(t, []string{"compile", "-orust:/out", filepath.FromSlash("tests/example.capnp")}, runner.args)
}

func TestRun_Glob(t *testing.T) {
	root := writeTree(t, "tests/example.capnp", "tests/folder-test/example.capnp", "src/lib.rs")
	runner := &recordingRunner{}

	im := &Importer{Root: root, OutDir: "/out", Compiler: "capnp", Runner: runner}
	src, err := im.Run(context.Background(), []string{"tests/**/*.capnp"})
	require.NoError(t, err)

	assert.Equal(t,
		"// This file is autogenerated by capnp-fetch\n\n\nmod example_capnp {\ninclude!(concat!(env!(\"OUT_DIR\"), \"/tests/example_capnp.rs\"));\n}"+
			"\n\nmod example_capnp {\ninclude!(concat!(env!(\"OUT_DIR\"), \"/tests/folder-test/example_capnp.rs\"));\n}",
		src)
	assert.Len(t, runner.args, 4)
}

func TestRun_NoMatches(t *testing.T) {
	root := writeTree(t, "schema/a.capnp")
	runner := &recordingRunner{}

	im := &Importer{Root: root, OutDir: "/out", Compiler: "capnp", Runner: runner}
	_, err := im.Run(context.Background(), []string{"missing/*.capnp"})
	assert.ErrorIs(t, err, ErrNoMatches)
	assert.Empty(t, runner.name, "capnp must not run without inputs")
}

func TestRun_CompileFailure(t *testing.T) {
	root := writeTree(t, "a.capnp")
	runner := &recordingRunner{err: errors.New("exit status 1")}

	im := &Importer{Root: root, OutDir: "/out", Compiler: "capnp", Runner: runner}
	_, err := im.Run(context.Background(), []string{"*.capnp"})
	assert.ErrorContains(t, err, "capnp compile")
}

func TestRun_RequiresOutDir(t *testing.T) {
	im := &Importer{Root: t.TempDir(), Compiler: "capnp", Runner: &recordingRunner{}}
	_, err := im.Run(context.Background(), []string{"*.capnp"})
	assert.ErrorIs(t, err, acquire.ErrMissingOutDir)
}

func TestFind_SkipsHiddenAndTarget(t *testing.T) {
	root := writeTree(t,
		"schema/a.capnp",
		".hidden/b.capnp",
		"target/debug/c.capnp",
		"schema/.d.capnp",
	)

	got, err := Find(root, []string{"**/*.capnp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"schema/a.capnp"}, got)
}

func TestFind_LeadingDotSlash(t *testing.T) {
	root := writeTree(t, "a.capnp")

	got, err := Find(root, []string{"./a.capnp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.capnp"}, got)
}

func TestFind_BadPattern(t *testing.T) {
	_, err := Find(t.TempDir(), []string{"schema/[a-"})
	var patternErr *PatternError
	assert.True(t, errors.As(err, &patternErr))

	_, err = Find(t.TempDir(), nil)
	assert.Error(t, err)
}

func TestNewModule(t *testing.T) {
	tests := []struct {
		in          string
		wantName    string
		wantInclude string
		wantErr     bool
	}{
		{"example.capnp", "example_capnp", "example_capnp.rs", false},
		{"./tests/example.capnp", "example_capnp", "tests/example_capnp.rs", false},
		{"tests/../nested//schema.capnp", "schema_capnp", "tests/nested/schema_capnp.rs", false},
		{"tests/Makefile", "", "", true},
		{"tests/.capnp", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := NewModule(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, m.Name)
			assert.Equal(t, tt.wantInclude, m.Include())
		})
	}
}

func TestHelperSource_Empty(t *testing.T) {
	assert.Equal(t, Header, HelperSource(nil))
}

func TestLocateCompiler(t *testing.T) {
	outDir := t.TempDir()
	noPath := func(string) (string, error) { return "", os.ErrNotExist }

	got, err := LocateCompiler("/opt/capnp", outDir, acquire.Linux, noPath)
	require.NoError(t, err)
	assert.Equal(t, "/opt/capnp", got)

	_, err = LocateCompiler("", outDir, acquire.Linux, noPath)
	assert.Error(t, err)

	got, err = LocateCompiler("", outDir, acquire.Linux, func(string) (string, error) { return "/usr/bin/capnp", nil })
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/capnp", got)

	bin := filepath.Join(outDir, "bin", "capnp")
	require.NoError(t, os.MkdirAll(filepath.Dir(bin), 0755))
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755))
	got, err = LocateCompiler("", outDir, acquire.Linux, noPath)
	require.NoError(t, err)
	assert.Equal(t, bin, got)
}

func TestWriteHelper(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHelper(&buf, "-", "src"))
	assert.Equal(t, "src", buf.String())

	dst := filepath.Join(t.TempDir(), "gen", "capnp_include.rs")
	require.NoError(t, WriteHelper(&buf, dst, Header))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, Header, string(data))
}
