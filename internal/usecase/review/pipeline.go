package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmorgan/prreview/internal/domain"
)

// ActionReview is the only pipeline action currently defined.
const ActionReview = "prreview"

// ErrUnrecognizedAction indicates the configured action maps to no known
// pipeline.
var ErrUnrecognizedAction = errors.New("unrecognized action")

// Deps captures the collaborators for the review pipeline.
type Deps struct {
	Events          EventSource
	Diffs           DiffFetcher
	Analyzer        *Analyzer
	Publisher       Publisher
	ExcludePatterns []string
	Logger          *slog.Logger
}

// Pipeline runs the six review steps in order: read event, extract PR
// details, fetch diff, filter files, analyze code, publish comments. Each
// step's output is the next step's sole input; no state survives a run.
type Pipeline struct {
	deps Deps
}

// NewPipeline constructs the review pipeline.
func NewPipeline(deps Deps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Pipeline{deps: deps}
}

// SelectPipeline maps a configured action to the pipeline that should
// run. Both "prreview" and the empty string select the review pipeline;
// any other value is a configuration error.
func SelectPipeline(action string, pipeline *Pipeline) (*Pipeline, error) {
	switch action {
	case ActionReview, "":
		return pipeline, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedAction, action)
	}
}

// Run executes the pipeline once. Any stage error aborts the run.
func (p *Pipeline) Run(ctx context.Context) error {
	log := p.deps.Logger

	event, err := p.deps.Events.ReadEvent(ctx)
	if err != nil {
		return err
	}

	details := domain.ExtractPRDetails(event)
	log.Info("reviewing pull request",
		"owner", details.Owner,
		"repo", details.Repo,
		"pull_number", details.Number(),
	)

	files, err := p.deps.Diffs.FetchDiff(ctx, details)
	if err != nil {
		return fmt.Errorf("fetch diff: %w", err)
	}

	filtered := FilterFiles(files, p.deps.ExcludePatterns)
	log.Debug("filtered changed files", "total", len(files), "remaining", len(filtered))

	comments, err := p.deps.Analyzer.AnalyzeCode(ctx, filtered, details)
	if err != nil {
		return err
	}
	log.Info("generated review comments", "count", len(comments))

	return p.deps.Publisher.PublishComments(ctx, details, comments)
}
