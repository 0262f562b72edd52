package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ErrVersionRequested indicates the user requested the CLI version and no
// further work should be done.
var ErrVersionRequested = errors.New("version requested")

// PipelineRunner executes a configured review pipeline once.
type PipelineRunner interface {
	Run(ctx context.Context) error
}

// RunOptions carries the per-invocation overrides gathered from flags.
type RunOptions struct {
	EventPath string
	Exclude   string
	Local     bool
	RepoDir   string
	BaseRef   string
	TargetRef string
	Output    io.Writer
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	BuildPipeline func(opts RunOptions) (PipelineRunner, error)
	Args          Arguments
	Version       string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "prreview",
		Short: "AI-assisted pull request review",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(runCommand(deps.BuildPipeline, outWriter))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func runCommand(buildPipeline func(opts RunOptions) (PipelineRunner, error), outWriter io.Writer) *cobra.Command {
	var eventPath string
	var exclude string
	var local bool
	var repoDir string
	var baseRef string
	var targetRef string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the review pipeline for a pull request event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := buildPipeline(RunOptions{
				EventPath: eventPath,
				Exclude:   exclude,
				Local:     local,
				RepoDir:   repoDir,
				BaseRef:   baseRef,
				TargetRef: targetRef,
				Output:    outWriter,
			})
			if err != nil {
				return err
			}
			return pipeline.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&eventPath, "event", "", "Path to the pull request event payload (overrides config)")
	cmd.Flags().StringVar(&exclude, "exclude", "", "Comma-separated glob patterns of files to skip (overrides config)")
	cmd.Flags().BoolVar(&local, "local", false, "Fetch diffs from a local repository instead of the placeholder source")
	cmd.Flags().StringVar(&repoDir, "repo-dir", ".", "Local repository directory (with --local)")
	cmd.Flags().StringVar(&baseRef, "base", "main", "Base reference to diff against (with --local)")
	cmd.Flags().StringVar(&targetRef, "target", "HEAD", "Target reference to review (with --local)")

	return cmd
}
