// Package core implements the versioning operations over a set of
// context stores: repository, resource and branch management, and the
// multi store write and read paths for versions.
package core

import (
	"errors"

	"github.com/PasqualeSorrentino/ddditserver/pkg/classify"
	context2 "github.com/PasqualeSorrentino/ddditserver/pkg/context"
	"github.com/PasqualeSorrentino/ddditserver/pkg/core/status"
	"github.com/PasqualeSorrentino/ddditserver/pkg/graph"
	"github.com/PasqualeSorrentino/ddditserver/pkg/metadata"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"go.uber.org/zap"
)

// Engine runs versioning operations against context stores
type Engine struct {
	stores     context2.Stores
	l          *zap.Logger
	classifier classify.Classifier
	generate   func(hint string) string
}

// EngineOption is a functor to build an engine with some options
type EngineOption func(*Engine)

// Logger defines the logging facility for the engine
func Logger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.l = l
		}
	}
}

// Classifier defines the mesh classifier used on pushes
func Classifier(c classify.Classifier) EngineOption {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// NameGenerator defines the version id generator used on pushes
func NameGenerator(generate func(hint string) string) EngineOption {
	return func(e *Engine) {
		if generate != nil {
			e.generate = generate
		}
	}
}

// New creates an engine over context stores
func New(stores context2.Stores, opts ...EngineOption) *Engine {
	e := &Engine{
		stores:     stores,
		l:          zap.NewNop(),
		classifier: classify.NewStatic(),
		generate:   model.GenerateVersionName,
	}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

func (e *Engine) graph() graph.Index {
	return e.stores.Graph()
}

// mapGraphError rewrites graph sentinels into core errors
func mapGraphError(err error) error {
	switch err {
	case nil:
		return nil
	case graph.UserNotFound:
		return status.ErrUnknownUser
	case graph.RepoNotFound:
		return status.ErrRepoNotFound
	case graph.RepoAlreadyExists:
		return status.ErrRepoExists
	case graph.ResourceNotFound:
		return status.ErrResourceNotFound
	case graph.ResourceAlreadyExists:
		return status.ErrResourceExists
	case graph.BranchNotFound:
		return status.ErrBranchNotFound
	case graph.BranchAlreadyExists:
		return status.ErrBranchExists
	case graph.VersionNotFound:
		return status.ErrVersionNotFound
	case graph.VersionAlreadyExists:
		return status.ErrExistingVersion
	default:
		return status.ErrStorage.Wrap(err)
	}
}

// mapMetadataError rewrites document store errors into core errors: a
// missing document is a missing version, anything else is a backend
// failure
func mapMetadataError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, metadata.ErrDocumentNotFound) {
		return status.ErrVersionNotFound.Wrap(err)
	}
	return status.ErrStorage.Wrap(err)
}
