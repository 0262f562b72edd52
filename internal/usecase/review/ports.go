package review

import (
	"context"

	"github.com/jmorgan/prreview/internal/domain"
)

// EventSource supplies the pull request event that triggers a review.
type EventSource interface {
	ReadEvent(ctx context.Context) (domain.Event, error)
}

// DiffFetcher returns the changed files for a pull request. Production
// implementations sit in front of a source-control hosting API; tests
// substitute in-memory doubles.
type DiffFetcher interface {
	FetchDiff(ctx context.Context, details domain.PRDetails) ([]domain.FileDiff, error)
}

// CompletionProvider renders a prompt into model output.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Publisher delivers generated comments for a pull request.
type Publisher interface {
	PublishComments(ctx context.Context, details domain.PRDetails, comments []domain.Comment) error
}
