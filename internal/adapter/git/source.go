// Package git implements the diff fetcher port against a local
// repository, so the pipeline can review checked-out changes without a
// hosting API.
package git

import (
	"bytes"
	"context"
	"fmt"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	formatdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jmorgan/prreview/internal/domain"
)

// DiffSource computes per-file diffs between two refs of a local
// repository, backed by go-git.
type DiffSource struct {
	repoDir   string
	baseRef   string
	targetRef string
}

// NewDiffSource constructs a DiffSource for the provided repository
// directory and ref pair.
func NewDiffSource(repoDir, baseRef, targetRef string) *DiffSource {
	return &DiffSource{repoDir: repoDir, baseRef: baseRef, targetRef: targetRef}
}

// FetchDiff returns one FileDiff per changed file between the base and
// target refs. The PR details are not consulted; the refs identify the
// change set locally.
func (s *DiffSource) FetchDiff(ctx context.Context, details domain.PRDetails) ([]domain.FileDiff, error) {
	repo, err := goGit.PlainOpenWithOptions(s.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	baseCommit, err := resolveCommit(repo, s.baseRef)
	if err != nil {
		return nil, fmt.Errorf("resolve base ref: %w", err)
	}
	targetCommit, err := resolveCommit(repo, s.targetRef)
	if err != nil {
		return nil, fmt.Errorf("resolve target ref: %w", err)
	}

	patch, err := baseCommit.Patch(targetCommit)
	if err != nil {
		return nil, fmt.Errorf("compute patch: %w", err)
	}

	files := make([]domain.FileDiff, 0, len(patch.FilePatches()))
	for _, fp := range patch.FilePatches() {
		path := filePath(fp)
		if path == "" {
			continue
		}
		patchText, err := encodeFilePatch(fp)
		if err != nil {
			return nil, fmt.Errorf("encode patch for %s: %w", path, err)
		}
		files = append(files, domain.FileDiff{
			NewPath: path,
			Diff:    patchText,
		})
	}
	return files, nil
}

func resolveCommit(repo *goGit.Repository, ref string) (*object.Commit, error) {
	candidates := []string{
		ref,
		fmt.Sprintf("refs/heads/%s", ref),
		fmt.Sprintf("refs/remotes/origin/%s", ref),
	}

	var lastErr error
	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(candidate))
		if err != nil {
			lastErr = err
			continue
		}
		return repo.CommitObject(*hash)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("unable to resolve ref %s", ref)
}

// filePath returns the post-change path of a file patch, falling back to
// the pre-change path for deletions.
func filePath(fp formatdiff.FilePatch) string {
	from, to := fp.Files()
	if to != nil {
		return to.Path()
	}
	if from != nil {
		return from.Path()
	}
	return ""
}

func encodeFilePatch(fp formatdiff.FilePatch) (string, error) {
	var buf bytes.Buffer
	encoder := formatdiff.NewUnifiedEncoder(&buf, formatdiff.DefaultContextLines)
	if err := encoder.Encode(singlePatch{fp: fp}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type singlePatch struct {
	fp formatdiff.FilePatch
}

func (s singlePatch) FilePatches() []formatdiff.FilePatch {
	return []formatdiff.FilePatch{s.fp}
}

func (s singlePatch) Message() string {
	return ""
}
