package model

import "time"

// RepoDescriptor represents a named repository owned by a user.
// The name is immutable once the repository has been created.
type RepoDescriptor struct {
	Name      string    `json:"name" yaml:"name"`
	Owner     string    `json:"owner" yaml:"owner"`
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	_         struct{}
}

// ResourceDescriptor represents a resource (one logical 3D asset)
// inside a repository.
type ResourceDescriptor struct {
	Repository string    `json:"repositoryName" yaml:"repositoryName"`
	Name       string    `json:"name" yaml:"name"`
	Timestamp  time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	_          struct{}
}

// BranchDescriptor represents a branch of a resource. A branch carries
// an append-only, singly linked chain of versions.
type BranchDescriptor struct {
	Repository string    `json:"repositoryName" yaml:"repositoryName"`
	Resource   string    `json:"resourceName" yaml:"resourceName"`
	Name       string    `json:"name" yaml:"name"`
	Timestamp  time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	_          struct{}
}
