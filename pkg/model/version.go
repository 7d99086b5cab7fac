package model

import "time"

// VersionDescriptor is the rich metadata record of one immutable
// version: who pushed it, when, with what comment and tags. The
// payload itself lives in object storage; the descriptor is persisted
// as a document in the metadata store.
type VersionDescriptor struct {
	Repository string       `json:"repositoryName,omitempty" yaml:"repositoryName,omitempty"`
	Resource   string       `json:"resourceName" yaml:"resourceName"`
	Branch     string       `json:"branchName,omitempty" yaml:"branchName,omitempty"`
	Name       string       `json:"versionName" yaml:"versionName"`
	Username   string       `json:"username" yaml:"username"`
	PushedAt   time.Time    `json:"pushedAt" yaml:"pushedAt"`
	Comment    string       `json:"comment,omitempty" yaml:"comment,omitempty"`
	Tags       []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Type       ResourceType `json:"resourceType" yaml:"resourceType"`
	PayloadURL string       `json:"payloadUrl,omitempty" yaml:"payloadUrl,omitempty"`
	_          struct{}
}

// VersionDescriptors is a sortable collection of version descriptors
type VersionDescriptors []VersionDescriptor

func (d VersionDescriptors) Len() int      { return len(d) }
func (d VersionDescriptors) Swap(i, j int) { d[i], d[j] = d[j], d[i] }
func (d VersionDescriptors) Less(i, j int) bool {
	return d[i].PushedAt.Before(d[j].PushedAt)
}
