package console

import (
	"context"
	"fmt"

	"github.com/jmorgan/prreview/internal/domain"
)

// PlaceholderFetcher satisfies the diff fetcher port without talking to
// a hosting API. It returns a single pseudo-file whose diff text
// describes the pull request, which keeps the rest of the pipeline
// exercisable end to end.
type PlaceholderFetcher struct{}

// NewPlaceholderFetcher constructs a PlaceholderFetcher.
func NewPlaceholderFetcher() *PlaceholderFetcher {
	return &PlaceholderFetcher{}
}

// FetchDiff returns placeholder diff content for the pull request.
func (f *PlaceholderFetcher) FetchDiff(ctx context.Context, details domain.PRDetails) ([]domain.FileDiff, error) {
	return []domain.FileDiff{
		{
			NewPath: "CHANGES",
			Diff:    fmt.Sprintf("Dummy diff content for PR %d from %s/%s", details.Number(), details.Owner, details.Repo),
		},
	}, nil
}
