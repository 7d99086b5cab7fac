package core

import (
	"context"

	"github.com/PasqualeSorrentino/ddditserver/pkg/core/status"
	"github.com/PasqualeSorrentino/ddditserver/pkg/graph"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
)

// BranchVersions is one branch of the version tree: the branch name
// and its versions in chain order, oldest first.
type BranchVersions struct {
	Branch   string             `json:"branchName" yaml:"branchName"`
	Versions []graph.VersionRef `json:"versions" yaml:"versions"`
	_        struct{}
}

// VersionTree walks every branch of a resource and yields the version
// chains, one entry per branch.
func (e *Engine) VersionTree(ctx context.Context, username, repo, resource string) ([]BranchVersions, error) {
	if err := e.checkAccess(ctx, repo, username); err != nil {
		return nil, err
	}
	has, err := e.graph().HasResource(ctx, repo, resource)
	if err != nil {
		return nil, mapGraphError(err)
	}
	if !has {
		return nil, status.ErrResourceNotFound
	}
	branches, err := e.graph().ListBranches(ctx, repo, resource)
	if err != nil {
		return nil, mapGraphError(err)
	}
	tree := make([]BranchVersions, 0, len(branches))
	for _, branch := range branches {
		key := model.BranchKey{Repository: repo, Resource: resource, Branch: branch}
		refs, err := e.graph().ListVersions(ctx, key)
		if err != nil {
			return nil, mapGraphError(err)
		}
		tree = append(tree, BranchVersions{Branch: branch, Versions: refs})
	}
	return tree, nil
}
