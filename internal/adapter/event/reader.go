// Package event reads pull request event payloads from disk.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmorgan/prreview/internal/domain"
)

// NotFoundError indicates the event payload file does not exist at the
// configured path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no pull request event file found at %s", e.Path)
}

// FileReader loads a JSON event payload from a fixed path.
type FileReader struct {
	path string
}

// NewFileReader constructs a reader for the given payload path.
func NewFileReader(path string) *FileReader {
	return &FileReader{path: path}
}

// ReadEvent parses the payload file into a domain Event. A missing file
// yields a NotFoundError carrying the attempted path.
func (r *FileReader) ReadEvent(ctx context.Context) (domain.Event, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Event{}, &NotFoundError{Path: r.path}
		}
		return domain.Event{}, fmt.Errorf("read event file %s: %w", r.path, err)
	}

	var event domain.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return domain.Event{}, fmt.Errorf("parse event file %s: %w", r.path, err)
	}
	return event, nil
}
