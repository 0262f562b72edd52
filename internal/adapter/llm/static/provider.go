// Package static provides an offline completion provider for tests and
// keyless runs.
package static

import (
	"context"
	"fmt"
)

// Provider implements the completion port with canned output.
type Provider struct {
	model string
}

// NewProvider constructs a static Provider.
func NewProvider(model string) *Provider {
	return &Provider{model: model}
}

// Complete returns a deterministic placeholder response.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	return fmt.Sprintf("Static review from model %s over prompt: %.40s", p.model, prompt), nil
}
