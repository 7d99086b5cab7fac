package core

import (
	"context"

	"github.com/PasqualeSorrentino/ddditserver/pkg/core/status"
	"github.com/PasqualeSorrentino/ddditserver/pkg/graph"
	"github.com/PasqualeSorrentino/ddditserver/pkg/metrics"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"go.uber.org/zap"
)

// PullParams describe one version pull. An empty Version pulls the
// latest version of the branch.
type PullParams struct {
	Key      model.BranchKey
	Version  string
	Username string
	_        struct{}
}

// resolveVersion yields the version ref for a pull, falling back to
// the branch tip when no version is named.
func (e *Engine) resolveVersion(ctx context.Context, params PullParams) (graph.VersionRef, error) {
	if params.Version == "" {
		ref, err := e.graph().LatestVersion(ctx, params.Key)
		return ref, mapGraphError(err)
	}
	return e.findInChain(ctx, params.Key, params.Version)
}

func (e *Engine) checkPull(ctx context.Context, params PullParams) error {
	if err := e.checkAccess(ctx, params.Key.Repository, params.Username); err != nil {
		return err
	}
	has, err := e.graph().HasBranch(ctx, params.Key)
	if err != nil {
		return mapGraphError(err)
	}
	if !has {
		return status.ErrBranchNotFound
	}
	return nil
}

// Pull streams back the payloads of a version along with its
// descriptor. Callers own the payload streams.
func (e *Engine) Pull(ctx context.Context, params PullParams) ([]model.Payload, model.VersionDescriptor, error) {
	if err := e.checkPull(ctx, params); err != nil {
		return nil, model.VersionDescriptor{}, err
	}
	ref, err := e.resolveVersion(ctx, params)
	if err != nil {
		return nil, model.VersionDescriptor{}, err
	}
	desc, err := e.stores.Metadata().Find(ctx, params.Key.Resource, ref.Name)
	if err != nil {
		return nil, model.VersionDescriptor{}, mapMetadataError(err)
	}
	vkey := model.VersionKey{BranchKey: params.Key, Version: ref.Name}
	payloads, err := e.stores.Objects().Read(ctx, ref.Type, vkey)
	if err != nil {
		return nil, model.VersionDescriptor{}, status.ErrStorage.Wrap(err)
	}

	metrics.Inc(metrics.PullCount, "pull")
	e.l.Info("pulled version", zap.String("version", vkey.String()), zap.String("username", params.Username))
	return payloads, desc, nil
}

// Metadata retrieves the descriptor of a version without touching
// its payloads. An empty Version resolves to the branch tip.
func (e *Engine) Metadata(ctx context.Context, params PullParams) (model.VersionDescriptor, error) {
	if err := e.checkPull(ctx, params); err != nil {
		return model.VersionDescriptor{}, err
	}
	ref, err := e.resolveVersion(ctx, params)
	if err != nil {
		return model.VersionDescriptor{}, err
	}
	desc, err := e.stores.Metadata().Find(ctx, params.Key.Resource, ref.Name)
	if err != nil {
		return model.VersionDescriptor{}, mapMetadataError(err)
	}
	return desc, nil
}
