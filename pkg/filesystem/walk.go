// Package filesystem walks project trees looking for schema files.
package filesystem

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultIgnoreDirs are build and VCS directories never worth descending into
var DefaultIgnoreDirs = []string{
	"target", "node_modules", "vendor",
	".git", ".svn", ".hg",
}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs     []string // Directories to skip (default: DefaultIgnoreDirs)
	IgnorePatterns []string // File patterns to skip (e.g., "*.tmp")
	IncludeHidden  bool     // Include hidden files/dirs (default: false)
}

// Walk traverses a directory tree with configurable ignore patterns.
// The visitor is called for every file and directory that survives filtering.
// Return filepath.SkipDir from the visitor to skip a directory.
func Walk(rootPath string, opts WalkOptions, visitor func(path string, d fs.DirEntry) error) error {
	ignoreDirs := opts.IgnoreDirs
	if len(ignoreDirs) == 0 {
		ignoreDirs = DefaultIgnoreDirs
	}

	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == rootPath {
			return visitor(path, d)
		}

		if !opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			for _, ignore := range ignoreDirs {
				if d.Name() == ignore {
					return filepath.SkipDir
				}
			}
		} else {
			for _, pattern := range opts.IgnorePatterns {
				if matched, _ := filepath.Match(pattern, d.Name()); matched {
					return nil
				}
			}
		}

		return visitor(path, d)
	})
}

// WalkFiles is Walk restricted to regular files.
func WalkFiles(rootPath string, opts WalkOptions, visitor func(path string) error) error {
	return Walk(rootPath, opts, func(path string, d fs.DirEntry) error {
		if !d.Type().IsRegular() {
			return nil
		}
		return visitor(path)
	})
}
