// Package context groups the stores a running engine operates on: the
// asset graph index, the version document store and the payload store.
package context

import (
	"github.com/PasqualeSorrentino/ddditserver/pkg/graph"
	"github.com/PasqualeSorrentino/ddditserver/pkg/metadata"
	"github.com/PasqualeSorrentino/ddditserver/pkg/objects"
)

// Stores defines a complete context for versioned asset objects
type Stores interface {
	// Graph yields the asset graph index for a context
	Graph() graph.Index
	// SetGraph sets the context asset graph index
	SetGraph(idx graph.Index)

	// Metadata yields the version document store for a context
	Metadata() *metadata.Store
	// SetMetadata sets the context version document store
	SetMetadata(documents *metadata.Store)

	// Objects yields the payload store for a context
	Objects() *objects.Store
	// SetObjects sets the context payload store
	SetObjects(payloads *objects.Store)
}

// type safeguard
var _ Stores = &defaultStores{}

// defaultStores is the default implementation of Stores
type defaultStores struct {
	graph     graph.Index
	documents *metadata.Store
	payloads  *objects.Store
	_         struct{}
}

// New creates a new empty instance of context stores, to be set with the Setxxx methods.
func New() Stores {
	return &defaultStores{}
}

// NewStores creates a new instance of context stores
func NewStores(idx graph.Index, documents *metadata.Store, payloads *objects.Store) Stores {
	return &defaultStores{graph: idx, documents: documents, payloads: payloads}
}

// Graph yields the asset graph index for a context
func (c *defaultStores) Graph() graph.Index {
	return c.graph
}

// SetGraph sets the context asset graph index
func (c *defaultStores) SetGraph(idx graph.Index) {
	c.graph = idx
}

// Metadata yields the version document store for a context
func (c *defaultStores) Metadata() *metadata.Store {
	return c.documents
}

// SetMetadata sets the context version document store
func (c *defaultStores) SetMetadata(documents *metadata.Store) {
	c.documents = documents
}

// Objects yields the payload store for a context
func (c *defaultStores) Objects() *objects.Store {
	return c.payloads
}

// SetObjects sets the context payload store
func (c *defaultStores) SetObjects(payloads *objects.Store) {
	c.payloads = payloads
}
