// Package testutil holds fixtures shared by package tests: real repositories
// built with go-git and scripted process runners.
package testutil

import (
	"fmt"
	"os/exec"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RequireGit skips the test when no git binary is on PATH. The history
// reader shells out to git, so fixtures are only useful with it.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// Repo is a throwaway repository on disk.
type Repo struct {
	t    *testing.T
	Dir  string
	repo *gogit.Repository
	when time.Time
	n    int
}

// NewRepo initializes an empty repository in a temp dir.
func NewRepo(t *testing.T) *Repo {
	t.Helper()
	dir := t.TempDir()
	r, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}
	return &Repo{
		t:    t,
		Dir:  dir,
		repo: r,
		when: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Commit writes a fresh file and commits it with message. Each commit is one
// minute after the previous one so log order is unambiguous.
func (r *Repo) Commit(message string) plumbing.Hash {
	r.t.Helper()
	r.n++
	return r.CommitFile(fmt.Sprintf("file-%03d.txt", r.n), fmt.Sprintf("change %d\n", r.n), message)
}

// CommitFile writes path (relative to the repo) and commits it.
func (r *Repo) CommitFile(path, content, message string) plumbing.Hash {
	r.t.Helper()
	CreateTestFile(r.t, r.Dir, path, content, 0o644)

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(path); err != nil {
		r.t.Fatalf("add %s: %v", path, err)
	}

	r.when = r.when.Add(time.Minute)
	sig := &object.Signature{Name: "Test Author", Email: "author@example.com", When: r.when}
	hash, err := wt.Commit(message, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.t.Fatalf("commit %q: %v", message, err)
	}
	return hash
}

// Tag creates a lightweight tag at hash.
func (r *Repo) Tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	if _, err := r.repo.CreateTag(name, hash, nil); err != nil {
		r.t.Fatalf("tag %s: %v", name, err)
	}
}

// Branch creates refs/heads/<name> at hash without checking it out.
func (r *Repo) Branch(name string, hash plumbing.Hash) {
	r.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), hash)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		r.t.Fatalf("branch %s: %v", name, err)
	}
}
