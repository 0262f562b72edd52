package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorgan/prreview/internal/adapter/git"
	"github.com/jmorgan/prreview/internal/domain"
)

func TestFetchDiffBetweenBranches(t *testing.T) {
	tmp := t.TempDir()

	repo, err := goGit.PlainInit(tmp, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	writeFile(t, tmp, "main.go", "package main\n\nfunc main() {\n\tprintln(\"hello\")\n}\n")
	_, err = worktree.Add("main.go")
	require.NoError(t, err)
	_, err = worktree.Commit("initial", &goGit.CommitOptions{Author: defaultSignature()})
	require.NoError(t, err)

	require.NoError(t, checkoutBranch(worktree, "feature"))

	writeFile(t, tmp, "main.go", "package main\n\nfunc main() {\n\tprintln(\"feature\")\n}\n")
	writeFile(t, tmp, "util.go", "package main\n\nfunc helper() {}\n")
	_, err = worktree.Add("main.go")
	require.NoError(t, err)
	_, err = worktree.Add("util.go")
	require.NoError(t, err)
	_, err = worktree.Commit("feature change", &goGit.CommitOptions{Author: defaultSignature()})
	require.NoError(t, err)

	source := git.NewDiffSource(tmp, "master", "feature")
	files, err := source.FetchDiff(context.Background(), domain.PRDetails{})

	require.NoError(t, err)
	require.Len(t, files, 2)

	byPath := map[string]domain.FileDiff{}
	for _, f := range files {
		byPath[f.NewPath] = f
	}

	modified, ok := byPath["main.go"]
	require.True(t, ok)
	assert.Contains(t, modified.Diff, "feature")

	added, ok := byPath["util.go"]
	require.True(t, ok)
	assert.Contains(t, added.Diff, "helper")
}

func TestFetchDiffUnknownRef(t *testing.T) {
	tmp := t.TempDir()

	repo, err := goGit.PlainInit(tmp, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	writeFile(t, tmp, "main.go", "package main\n")
	_, err = worktree.Add("main.go")
	require.NoError(t, err)
	_, err = worktree.Commit("initial", &goGit.CommitOptions{Author: defaultSignature()})
	require.NoError(t, err)

	source := git.NewDiffSource(tmp, "master", "no-such-branch")
	_, err = source.FetchDiff(context.Background(), domain.PRDetails{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve target ref")
}

func TestFetchDiffNotARepo(t *testing.T) {
	source := git.NewDiffSource(t.TempDir(), "master", "feature")
	_, err := source.FetchDiff(context.Background(), domain.PRDetails{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open repo")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func defaultSignature() *object.Signature {
	return &object.Signature{
		Name:  "Test",
		Email: "test@example.com",
		When:  time.Unix(0, 0),
	}
}

func checkoutBranch(worktree *goGit.Worktree, branch string) error {
	return worktree.Checkout(&goGit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	})
}
