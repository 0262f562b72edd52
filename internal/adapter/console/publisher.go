// Package console provides stdout-backed stand-ins for the hosting API
// collaborators: a comment publisher that prints instead of posting, and
// a diff fetcher that returns placeholder content.
package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jmorgan/prreview/internal/domain"
)

// Publisher writes review comments to an output stream, one block per
// comment, keyed by the pull number. A production publisher would post
// them through a review-comment API instead.
type Publisher struct {
	out io.Writer
}

// NewPublisher constructs a Publisher. A nil writer defaults to stdout.
func NewPublisher(out io.Writer) *Publisher {
	if out == nil {
		out = os.Stdout
	}
	return &Publisher{out: out}
}

// PublishComments emits each comment associated with the PR number.
func (p *Publisher) PublishComments(ctx context.Context, details domain.PRDetails, comments []domain.Comment) error {
	for _, comment := range comments {
		if _, err := fmt.Fprintf(p.out, "Posting comment to PR %d:\n%s\n", details.Number(), comment.Format()); err != nil {
			return fmt.Errorf("write comment: %w", err)
		}
	}
	return nil
}
