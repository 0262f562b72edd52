package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorgan/prreview/internal/domain"
)

type fakeEventSource struct {
	event domain.Event
	err   error
}

func (f *fakeEventSource) ReadEvent(ctx context.Context) (domain.Event, error) {
	return f.event, f.err
}

type fakeDiffFetcher struct {
	files   []domain.FileDiff
	err     error
	details domain.PRDetails
}

func (f *fakeDiffFetcher) FetchDiff(ctx context.Context, details domain.PRDetails) ([]domain.FileDiff, error) {
	f.details = details
	return f.files, f.err
}

type fakePublisher struct {
	details  domain.PRDetails
	comments []domain.Comment
	calls    int
}

func (f *fakePublisher) PublishComments(ctx context.Context, details domain.PRDetails, comments []domain.Comment) error {
	f.calls++
	f.details = details
	f.comments = comments
	return nil
}

func testEvent() domain.Event {
	number := 42
	return domain.Event{
		Number:      &number,
		Repository:  &domain.Repository{Name: "repo", Owner: domain.Owner{Login: "octo"}},
		PullRequest: &domain.PullRequest{Title: "Fix bug", Body: "desc"},
	}
}

func TestPipelineRunEndToEnd(t *testing.T) {
	events := &fakeEventSource{event: testEvent()}
	diffs := &fakeDiffFetcher{files: []domain.FileDiff{
		{NewPath: "main.go", Diff: "+fmt.Println(\"hi\")"},
		{NewPath: "README.md", Diff: "+docs"},
		{NewPath: "empty.go"},
	}}
	publisher := &fakePublisher{}

	pipeline := NewPipeline(Deps{
		Events:          events,
		Diffs:           diffs,
		Analyzer:        NewAnalyzer(&fakeProvider{responses: []string{"add error handling"}}, nil),
		Publisher:       publisher,
		ExcludePatterns: SplitPatterns("*.md"),
	})

	require.NoError(t, pipeline.Run(context.Background()))

	// The extracted details flow untouched into the fetcher and publisher.
	assert.Equal(t, "octo", diffs.details.Owner)
	assert.Equal(t, "repo", diffs.details.Repo)
	assert.Equal(t, 42, publisher.details.Number())

	require.Equal(t, 1, publisher.calls)
	require.Len(t, publisher.comments, 1)
	assert.Equal(t, "main.go", publisher.comments[0].Path)
	assert.Equal(t, "add error handling", publisher.comments[0].Body)
}

func TestPipelineRunPropagatesEventError(t *testing.T) {
	readErr := errors.New("no pull request event file found at /missing.json")
	pipeline := NewPipeline(Deps{
		Events:    &fakeEventSource{err: readErr},
		Diffs:     &fakeDiffFetcher{},
		Analyzer:  NewAnalyzer(&fakeProvider{}, nil),
		Publisher: &fakePublisher{},
	})

	err := pipeline.Run(context.Background())
	assert.ErrorIs(t, err, readErr)
}

func TestPipelineRunPropagatesFetchError(t *testing.T) {
	fetchErr := errors.New("diff source offline")
	pipeline := NewPipeline(Deps{
		Events:    &fakeEventSource{event: testEvent()},
		Diffs:     &fakeDiffFetcher{err: fetchErr},
		Analyzer:  NewAnalyzer(&fakeProvider{}, nil),
		Publisher: &fakePublisher{},
	})

	err := pipeline.Run(context.Background())
	require.ErrorIs(t, err, fetchErr)
	assert.Contains(t, err.Error(), "fetch diff")
}

func TestPipelineRunAbortsOnProviderError(t *testing.T) {
	providerErr := errors.New("model unavailable")
	publisher := &fakePublisher{}
	pipeline := NewPipeline(Deps{
		Events:    &fakeEventSource{event: testEvent()},
		Diffs:     &fakeDiffFetcher{files: []domain.FileDiff{{NewPath: "main.go", Diff: "+x"}}},
		Analyzer:  NewAnalyzer(&fakeProvider{err: providerErr}, nil),
		Publisher: publisher,
	})

	err := pipeline.Run(context.Background())
	require.ErrorIs(t, err, providerErr)
	assert.Zero(t, publisher.calls)
}

func TestSelectPipeline(t *testing.T) {
	pipeline := NewPipeline(Deps{})

	tests := []struct {
		name    string
		action  string
		wantErr bool
	}{
		{name: "prreview action", action: "prreview"},
		{name: "empty action defaults to review", action: ""},
		{name: "unknown action", action: "deploy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected, err := SelectPipeline(tt.action, pipeline)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnrecognizedAction)
				assert.Contains(t, err.Error(), tt.action)
				assert.Nil(t, selected)
				return
			}
			require.NoError(t, err)
			assert.Same(t, pipeline, selected)
		})
	}
}
