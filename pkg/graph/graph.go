// Package graph describes the index of repositories, resources,
// branches and versions, and the links between them.
//
// The index holds the structure of the asset graph only: version
// payloads live in an object store and version metadata documents in
// a metadata store, reached from here through document URLs.
package graph

import (
	"context"

	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
)

type errorString string

func (e errorString) Error() string {
	return string(e)
}

const (
	// NameIsRequired error whenever a name is expected but not provided
	NameIsRequired errorString = "name is required"

	// UserNotFound when a user vertex is not found
	UserNotFound errorString = "user not found"

	// RepoAlreadyExists is returned when a repository is expected to not exist yet
	RepoAlreadyExists errorString = "repository already exists"

	// RepoNotFound when a repository is not found
	RepoNotFound errorString = "repository not found"

	// ResourceAlreadyExists is returned when a resource is expected to not exist yet
	ResourceAlreadyExists errorString = "resource already exists"

	// ResourceNotFound when a resource is not found
	ResourceNotFound errorString = "resource not found"

	// BranchAlreadyExists is returned when a branch is expected to not exist yet
	BranchAlreadyExists errorString = "branch already exists"

	// BranchNotFound when a branch is not found
	BranchNotFound errorString = "branch not found"

	// VersionAlreadyExists is returned when a version id collides with an existing one
	VersionAlreadyExists errorString = "version already exists"

	// VersionNotFound when a version is not found
	VersionNotFound errorString = "version not found"
)

// VersionRef is the vertex payload for a version: the generated
// version name, the resource type it was classified as, and the URL
// of its metadata document.
type VersionRef struct {
	Name        string             `json:"name"`
	Type        model.ResourceType `json:"type"`
	DocumentURL string             `json:"documentUrl"`
}

// RepoRef is the vertex payload for a repository
type RepoRef struct {
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	Timestamp string `json:"timestamp"`
}

// Index manages the asset graph in a storage mechanism
type Index interface {
	Initialize() error
	Close() error

	EnsureUser(ctx context.Context, username string) error
	HasUser(ctx context.Context, username string) (bool, error)

	CreateRepository(ctx context.Context, repo, owner string) error
	GetRepository(ctx context.Context, repo string) (RepoRef, error)
	HasRepository(ctx context.Context, repo string) (bool, error)
	AddContributor(ctx context.Context, repo, username string) error
	HasAccess(ctx context.Context, repo, username string) (bool, error)
	ListRepositoriesOwned(ctx context.Context, username string) ([]string, error)
	ListRepositoriesContributed(ctx context.Context, username string) ([]string, error)

	CreateResource(ctx context.Context, repo, resource string) error
	HasResource(ctx context.Context, repo, resource string) (bool, error)
	ListResources(ctx context.Context, repo string) ([]string, error)

	CreateBranch(ctx context.Context, key model.BranchKey) error
	HasBranch(ctx context.Context, key model.BranchKey) (bool, error)
	ListBranches(ctx context.Context, repo, resource string) ([]string, error)

	HasVersion(ctx context.Context, repo, resource, version string) (bool, error)
	AppendVersion(ctx context.Context, key model.BranchKey, ref VersionRef) error
	GetVersion(ctx context.Context, repo, resource, version string) (VersionRef, error)
	ListVersions(ctx context.Context, key model.BranchKey) ([]VersionRef, error)
	LatestVersion(ctx context.Context, key model.BranchKey) (VersionRef, error)
	DeleteVersion(ctx context.Context, key model.BranchKey, version string) error
}
