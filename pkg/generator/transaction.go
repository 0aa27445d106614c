package generator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// Transaction represents a set of file operations that can be committed or rolled back
type Transaction struct {
	operations []fileOperation
	written    []string
	unchanged  []string
	committed  bool
}

// fileOperation represents a single file write operation
type fileOperation struct {
	path    string
	content []byte
	mode    os.FileMode
}

// NewTransaction creates a new file operation transaction
func NewTransaction() *Transaction {
	return &Transaction{
		operations: make([]fileOperation, 0),
	}
}

// AddFile stages a file write operation (doesn't write yet)
func (t *Transaction) AddFile(path string, content []byte, mode os.FileMode) {
	t.operations = append(t.operations, fileOperation{
		path:    path,
		content: content,
		mode:    mode,
	})
}

// Commit writes all staged files to disk.
// If any write fails, it attempts to rollback (delete) previously written files.
// A file that already holds identical content is left alone.
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}

	for _, op := range t.operations {
		if existing, err := os.ReadFile(op.path); err == nil && bytes.Equal(existing, op.content) {
			t.unchanged = append(t.unchanged, op.path)
			continue
		}

		dir := filepath.Dir(op.path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.rollback()
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		if err := writeFileAtomic(op.path, op.content, op.mode); err != nil {
			t.rollback()
			return fmt.Errorf("failed to write file %s: %w", op.path, err)
		}

		t.written = append(t.written, op.path)
	}

	t.committed = true
	return nil
}

// Written returns the paths Commit actually wrote
func (t *Transaction) Written() []string {
	return append([]string(nil), t.written...)
}

// Unchanged returns the paths Commit skipped because their content matched
func (t *Transaction) Unchanged() []string {
	return append([]string(nil), t.unchanged...)
}

// rollback deletes every file written so far
func (t *Transaction) rollback() {
	for _, path := range t.written {
		os.Remove(path) // Best effort, ignore errors
	}
	t.written = nil
}

// Rollback manually triggers a rollback (for use in defer)
func (t *Transaction) Rollback() {
	if !t.committed {
		t.rollback()
	}
}

// writeFileAtomic writes to a sibling temp file and renames it into place
func writeFileAtomic(path string, content []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
