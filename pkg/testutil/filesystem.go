package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// =====================================
// File System Testing Utilities
// =====================================

// CreateTestFile creates a test file with specified content and permissions
func CreateTestFile(t *testing.T, dir, filename, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// CreateTestDir creates a test directory with specified permissions
func CreateTestDir(t *testing.T, dir, dirname string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, dirname)
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	return path
}
