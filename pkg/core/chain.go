package core

import (
	"context"

	"github.com/PasqualeSorrentino/ddditserver/pkg/core/status"
	"github.com/PasqualeSorrentino/ddditserver/pkg/graph"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
)

// findInChain locates a named version by walking the branch chain
// from its head. A version vertex reachable in the index but not
// linked on this branch is not found here. More than one match means
// the chain is corrupted and is reported as such rather than picking
// one arbitrarily.
func (e *Engine) findInChain(ctx context.Context, key model.BranchKey, version string) (graph.VersionRef, error) {
	refs, err := e.graph().ListVersions(ctx, key)
	if err != nil {
		return graph.VersionRef{}, mapGraphError(err)
	}
	var (
		found   graph.VersionRef
		matches int
	)
	for _, ref := range refs {
		if ref.Name == version {
			found = ref
			matches++
		}
	}
	switch matches {
	case 0:
		return graph.VersionRef{}, status.ErrVersionNotFound
	case 1:
		return found, nil
	default:
		return graph.VersionRef{}, status.ErrAmbiguous
	}
}
