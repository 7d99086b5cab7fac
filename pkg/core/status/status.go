// Package status exports errors produced by the core package.
package status

import (
	"github.com/PasqualeSorrentino/ddditserver/pkg/errors"
)

var (
	// ErrUnknownUser indicates the acting user is not known to the graph
	ErrUnknownUser = errors.New("user is not registered")

	// ErrRepoNotFound indicates the repository does not exist
	ErrRepoNotFound = errors.New("repository not found")

	// ErrRepoExists indicates a repository with that name already exists
	ErrRepoExists = errors.New("repository already exists")

	// ErrResourceNotFound indicates the resource does not exist in the repository
	ErrResourceNotFound = errors.New("resource not found")

	// ErrResourceExists indicates a resource with that name already exists in the repository
	ErrResourceExists = errors.New("resource already exists")

	// ErrBranchNotFound indicates the branch does not exist on the resource
	ErrBranchNotFound = errors.New("branch not found")

	// ErrBranchExists indicates a branch with that name already exists on the resource
	ErrBranchExists = errors.New("branch already exists")

	// ErrVersionNotFound indicates the version does not exist on the branch
	ErrVersionNotFound = errors.New("version not found")

	// ErrExistingVersion indicates the generated version id collided with an existing one
	ErrExistingVersion = errors.New("version id collision, retry the push")

	// ErrPermissionDenied indicates the acting user is neither owner nor contributor
	ErrPermissionDenied = errors.New("user has no access to this repository")

	// ErrValidation indicates an input failed validation
	ErrValidation = errors.New("invalid input")

	// ErrAmbiguous indicates a corrupted version chain, with more than
	// one match where exactly one was expected
	ErrAmbiguous = errors.New("version chain is in an ambiguous state")

	// ErrClassification indicates the mesh classifier rejected the payload
	ErrClassification = errors.New("mesh classification failed")

	// ErrStorage indicates a backing store failed
	ErrStorage = errors.New("storage failure")
)
