package model

import (
	"fmt"
	"io"
	"time"
)

// ResourceType discriminates the two payload flavors a version may carry.
type ResourceType string

const (
	// ResourceTypeMesh marks a version holding a single mesh file
	ResourceTypeMesh ResourceType = "mesh"

	// ResourceTypeMaterial marks a version holding a set of texture files
	ResourceTypeMaterial ResourceType = "material"
)

// File is an upload source: the original file name, its size and a
// function yielding a fresh reader. Open may be called more than once
// (e.g. classification reads the mesh before it is uploaded).
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
	_    struct{}
}

// Payload is a downloaded object: a stream plus the content type and
// the original file name, ready to be handed back to the caller.
type Payload struct {
	Stream      io.ReadCloser
	ContentType string
	Name        string
	_           struct{}
}

// BranchKey locates one branch: (repository, resource, branch) names.
type BranchKey struct {
	Repository string `json:"repositoryName" yaml:"repositoryName"`
	Resource   string `json:"resourceName" yaml:"resourceName"`
	Branch     string `json:"branchName" yaml:"branchName"`
}

func (k BranchKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Repository, k.Resource, k.Branch)
}

// VersionKey locates one version on a branch.
type VersionKey struct {
	BranchKey `yaml:",inline"`
	Version   string `json:"versionName" yaml:"versionName"`
}

func (k VersionKey) String() string {
	return fmt.Sprintf("%s/%s", k.BranchKey.String(), k.Version)
}

// GetVersionTimeStamp yields the creation time recorded on new versions
func GetVersionTimeStamp() time.Time {
	return time.Now().UTC()
}
