package core

import (
	"context"

	"github.com/PasqualeSorrentino/ddditserver/pkg/core/status"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"go.uber.org/zap"
)

// EnsureUser registers a user vertex, idempotently
func (e *Engine) EnsureUser(ctx context.Context, username string) error {
	if err := model.ValidateUserName(username); err != nil {
		return status.ErrValidation.Wrap(err)
	}
	return mapGraphError(e.graph().EnsureUser(ctx, username))
}

// CreateRepository creates a repository owned by the given user
func (e *Engine) CreateRepository(ctx context.Context, owner, repo string) error {
	if err := model.ValidateUserName(owner); err != nil {
		return status.ErrValidation.Wrap(err)
	}
	if err := model.ValidateRepositoryName(repo); err != nil {
		return status.ErrValidation.Wrap(err)
	}
	if err := mapGraphError(e.graph().CreateRepository(ctx, repo, owner)); err != nil {
		return err
	}
	e.l.Info("created repository", zap.String("repository", repo), zap.String("owner", owner))
	return nil
}

// AddContributor grants a user access to a repository. Only the owner
// may grant access.
func (e *Engine) AddContributor(ctx context.Context, actor, repo, username string) error {
	if err := model.ValidateUserName(username); err != nil {
		return status.ErrValidation.Wrap(err)
	}
	ref, err := e.graph().GetRepository(ctx, repo)
	if err != nil {
		return mapGraphError(err)
	}
	if ref.Owner != actor {
		return status.ErrPermissionDenied
	}
	if err := mapGraphError(e.graph().AddContributor(ctx, repo, username)); err != nil {
		return err
	}
	e.l.Info("added contributor", zap.String("repository", repo), zap.String("username", username))
	return nil
}

// ListRepositoriesOwned lists the repositories a user owns
func (e *Engine) ListRepositoriesOwned(ctx context.Context, username string) ([]string, error) {
	repos, err := e.graph().ListRepositoriesOwned(ctx, username)
	return repos, mapGraphError(err)
}

// ListRepositoriesContributed lists the repositories a user contributes to
func (e *Engine) ListRepositoriesContributed(ctx context.Context, username string) ([]string, error) {
	repos, err := e.graph().ListRepositoriesContributed(ctx, username)
	return repos, mapGraphError(err)
}

// checkAccess verifies the user is owner or contributor of the repository
func (e *Engine) checkAccess(ctx context.Context, repo, username string) error {
	has, err := e.graph().HasAccess(ctx, repo, username)
	if err != nil {
		return mapGraphError(err)
	}
	if !has {
		return status.ErrPermissionDenied
	}
	return nil
}
