package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmorgan/prreview/internal/adapter/cli"
	"github.com/jmorgan/prreview/internal/adapter/console"
	"github.com/jmorgan/prreview/internal/adapter/event"
	"github.com/jmorgan/prreview/internal/adapter/git"
	llmhttp "github.com/jmorgan/prreview/internal/adapter/llm/http"
	"github.com/jmorgan/prreview/internal/adapter/llm/openai"
	"github.com/jmorgan/prreview/internal/adapter/llm/static"
	"github.com/jmorgan/prreview/internal/config"
	"github.com/jmorgan/prreview/internal/logging"
	"github.com/jmorgan/prreview/internal/usecase/review"
	"github.com/jmorgan/prreview/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error occurred: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		FileName:  "prreview",
		EnvPrefix: "PRREVIEW",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.Logging.Level))

	root := cli.NewRootCommand(cli.Dependencies{
		BuildPipeline: func(opts cli.RunOptions) (cli.PipelineRunner, error) {
			return buildPipeline(cfg, opts, logger)
		},
		Version: version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return err
	}
	return nil
}

// buildPipeline wires the configured adapters into the review pipeline.
// Flag overrides win over config values.
func buildPipeline(cfg config.Config, opts cli.RunOptions, logger *slog.Logger) (cli.PipelineRunner, error) {
	eventPath := cfg.Event.Path
	if opts.EventPath != "" {
		eventPath = opts.EventPath
	}

	exclude := cfg.Exclude
	if opts.Exclude != "" {
		exclude = opts.Exclude
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}

	var diffs review.DiffFetcher
	if opts.Local {
		diffs = git.NewDiffSource(opts.RepoDir, opts.BaseRef, opts.TargetRef)
	} else {
		diffs = console.NewPlaceholderFetcher()
	}

	pipeline := review.NewPipeline(review.Deps{
		Events:          event.NewFileReader(eventPath),
		Diffs:           diffs,
		Analyzer:        review.NewAnalyzer(provider, logger),
		Publisher:       console.NewPublisher(opts.Output),
		ExcludePatterns: review.SplitPatterns(exclude),
		Logger:          logger,
	})

	return review.SelectPipeline(cfg.Action, pipeline)
}

func buildProvider(cfg config.Config) (review.CompletionProvider, error) {
	switch cfg.Provider.Name {
	case config.ProviderStatic:
		return static.NewProvider(cfg.Provider.Model), nil
	case config.ProviderOpenAI, "":
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		client := openai.NewClient(cfg.Provider.APIKey, cfg.Provider.Model)
		if d, err := time.ParseDuration(cfg.HTTP.Timeout); err == nil && d > 0 {
			client.SetTimeout(d)
		}
		client.SetRetryConfig(retryConfig(cfg.HTTP))
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider.Name)
	}
}

// retryConfig maps the HTTP configuration onto the retry policy,
// keeping defaults for anything unset or unparseable.
func retryConfig(h config.HTTPConfig) llmhttp.RetryConfig {
	conf := llmhttp.DefaultRetryConfig()
	if h.MaxRetries > 0 {
		conf.MaxRetries = h.MaxRetries
	}
	if d, err := time.ParseDuration(h.InitialBackoff); err == nil && d > 0 {
		conf.InitialBackoff = d
	}
	if d, err := time.ParseDuration(h.MaxBackoff); err == nil && d > 0 {
		conf.MaxBackoff = d
	}
	return conf
}

// Compile-time interface compliance checks
var _ review.CompletionProvider = (*openai.Client)(nil)
var _ review.CompletionProvider = (*static.Provider)(nil)
var _ review.DiffFetcher = (*git.DiffSource)(nil)
var _ review.DiffFetcher = (*console.PlaceholderFetcher)(nil)
var _ review.Publisher = (*console.Publisher)(nil)
var _ review.EventSource = (*event.FileReader)(nil)
var _ cli.PipelineRunner = (*review.Pipeline)(nil)
