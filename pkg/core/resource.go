package core

import (
	"context"

	"github.com/PasqualeSorrentino/ddditserver/pkg/core/status"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"go.uber.org/zap"
)

// CreateResource creates a resource in a repository the user has access to
func (e *Engine) CreateResource(ctx context.Context, username, repo, resource string) error {
	if err := model.ValidateResourceName(resource); err != nil {
		return status.ErrValidation.Wrap(err)
	}
	if err := e.checkAccess(ctx, repo, username); err != nil {
		return err
	}
	if err := mapGraphError(e.graph().CreateResource(ctx, repo, resource)); err != nil {
		return err
	}
	e.l.Info("created resource", zap.String("repository", repo), zap.String("resource", resource))
	return nil
}

// ListResources lists the resources of a repository
func (e *Engine) ListResources(ctx context.Context, username, repo string) ([]string, error) {
	if err := e.checkAccess(ctx, repo, username); err != nil {
		return nil, err
	}
	resources, err := e.graph().ListResources(ctx, repo)
	return resources, mapGraphError(err)
}

// CreateBranch creates a branch on a resource
func (e *Engine) CreateBranch(ctx context.Context, username string, key model.BranchKey) error {
	if err := model.ValidateBranchName(key.Branch); err != nil {
		return status.ErrValidation.Wrap(err)
	}
	if err := e.checkAccess(ctx, key.Repository, username); err != nil {
		return err
	}
	if err := mapGraphError(e.graph().CreateBranch(ctx, key)); err != nil {
		return err
	}
	e.l.Info("created branch", zap.String("branch", key.String()))
	return nil
}

// ListBranches lists the branches of a resource
func (e *Engine) ListBranches(ctx context.Context, username, repo, resource string) ([]string, error) {
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
	return branches, mapGraphError(err)
}
