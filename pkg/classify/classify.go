// Package classify tags mesh payloads before they are persisted.
package classify

import (
	"context"
	"io"

	"github.com/PasqualeSorrentino/ddditserver/pkg/errors"
)

// ErrUnreadableMesh indicates the mesh payload could not be consumed
// by the classifier.
var ErrUnreadableMesh = errors.New("mesh payload could not be classified")

// A Classifier derives descriptive tags from a mesh payload. It runs
// before any store is written to, so a failing classification aborts
// the whole push.
type Classifier interface {
	Classify(ctx context.Context, name string, mesh io.Reader) ([]string, error)
}

// Static is a classifier returning a fixed set of tags, used when no
// model backed classifier is configured.
type Static struct {
	Tags []string
}

// NewStatic builds a static classifier
func NewStatic(tags ...string) *Static {
	return &Static{Tags: tags}
}

// Classify consumes the mesh stream and yields the configured tags
func (s *Static) Classify(ctx context.Context, name string, mesh io.Reader) ([]string, error) {
	// the stream is drained so upstream readers see the same
	// consumption pattern as a real classifier
	if _, err := io.Copy(io.Discard, mesh); err != nil {
		return nil, ErrUnreadableMesh.Wrap(err)
	}
	return s.Tags, nil
}
