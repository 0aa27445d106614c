package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, file := range files {
		path := filepath.Join(root, filepath.FromSlash(file))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("test"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func collectFiles(t *testing.T, root string, opts WalkOptions) []string {
	t.Helper()
	var visited []string
	err := WalkFiles(root, opts, func(path string) error {
		rel, _ := filepath.Rel(root, path)
		visited = append(visited, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("WalkFiles() error = %v", err)
	}
	sort.Strings(visited)
	return visited
}

func TestWalk_BasicTraversal(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "file1.capnp", "dir1/file2.capnp", "dir1/subdir/file3.capnp")

	var visited []string
	err := Walk(tmpDir, WalkOptions{}, func(path string, d fs.DirEntry) error {
		rel, _ := filepath.Rel(tmpDir, path)
		if rel != "." {
			visited = append(visited, rel)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	if len(visited) != 5 { // 2 dirs + 3 files
		t.Errorf("Walk() visited %d paths, want 5: %v", len(visited), visited)
	}
}

func TestWalk_IgnoreDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir,
		"target/debug/build.capnp",
		"vendor/x.capnp",
		".git/config",
		"schemas/keep.capnp",
	)

	visited := collectFiles(t, tmpDir, WalkOptions{})
	if len(visited) != 1 || visited[0] != "schemas/keep.capnp" {
		t.Errorf("WalkFiles() = %v, want only schemas/keep.capnp", visited)
	}
}

func TestWalk_CustomIgnores(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "custom_ignore/test.capnp", "target/kept.capnp")

	visited := collectFiles(t, tmpDir, WalkOptions{IgnoreDirs: []string{"custom_ignore"}})
	for _, v := range visited {
		if strings.Contains(v, "custom_ignore") {
			t.Errorf("Walk() visited custom ignored directory: %s", v)
		}
	}
	if len(visited) != 1 {
		t.Errorf("custom ignores should replace the defaults, got %v", visited)
	}
}

func TestWalk_IgnorePatterns(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "keep.capnp", "ignore.tmp", "also_ignore.bak")

	visited := collectFiles(t, tmpDir, WalkOptions{IgnorePatterns: []string{"*.tmp", "*.bak"}})
	if len(visited) != 1 || visited[0] != "keep.capnp" {
		t.Errorf("WalkFiles() = %v, want [keep.capnp]", visited)
	}
}

func TestWalk_IncludeHidden(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, ".hidden/a.capnp", "b.capnp")

	if got := collectFiles(t, tmpDir, WalkOptions{}); len(got) != 1 {
		t.Errorf("hidden entries should be skipped by default, got %v", got)
	}
	if got := collectFiles(t, tmpDir, WalkOptions{IncludeHidden: true}); len(got) != 2 {
		t.Errorf("IncludeHidden should visit hidden entries, got %v", got)
	}
}
