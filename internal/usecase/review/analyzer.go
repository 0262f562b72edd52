package review

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/jmorgan/prreview/internal/domain"
)

// promptTemplate is rendered once per file, substituting the PR title and
// description plus the file's diff text.
const promptTemplate = `Analyze the following diff file from a pull request and generate useful comments for a code review. Include actionable recommendations.

Pull Request Title: {{.Title}}
Pull Request Description: {{.Description}}

Diff File:
{{.Diff}}

Generate:
- Comments for each code chunk, if improvements can be made.
- Avoid duplicating recommendations or commenting on deleted files.
`

// promptData holds the values available to the prompt template.
type promptData struct {
	Title       string
	Description string
	Diff        string
}

// Analyzer generates one review comment per changed file by rendering the
// prompt template and invoking the completion provider.
type Analyzer struct {
	provider CompletionProvider
	template *template.Template
	logger   *slog.Logger
}

// NewAnalyzer constructs an Analyzer around a completion provider.
func NewAnalyzer(provider CompletionProvider, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		provider: provider,
		template: template.Must(template.New("prompt").Parse(promptTemplate)),
		logger:   logger,
	}
}

// AnalyzeCode produces comments for every file with a non-empty diff, in
// input order. Files without diff text are skipped silently. A provider
// error aborts the whole analysis; there is no per-file isolation.
func (a *Analyzer) AnalyzeCode(ctx context.Context, files []domain.FileDiff, details domain.PRDetails) ([]domain.Comment, error) {
	comments := make([]domain.Comment, 0, len(files))
	for _, file := range files {
		if file.Diff == "" {
			a.logger.Debug("skipping file without diff", "path", file.NewPath)
			continue
		}

		prompt, err := a.renderPrompt(details, file)
		if err != nil {
			return nil, err
		}

		response, err := a.provider.Complete(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("analyze %s: %w", file.NewPath, err)
		}
		if response == "" {
			a.logger.Debug("empty model response", "path", file.NewPath)
			continue
		}

		comments = append(comments, domain.Comment{Path: file.NewPath, Body: response})
	}
	return comments, nil
}

func (a *Analyzer) renderPrompt(details domain.PRDetails, file domain.FileDiff) (string, error) {
	var buf bytes.Buffer
	data := promptData{
		Title:       details.Title,
		Description: details.Description,
		Diff:        file.Diff,
	}
	if err := a.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt for %s: %w", file.NewPath, err)
	}
	return buf.String(), nil
}
