// Package metadata persists version descriptors as JSON documents in
// a storage store, partitioned by resource name.
package metadata

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/PasqualeSorrentino/ddditserver/pkg/errors"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage/status"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var (
	// ErrDocumentNotFound indicates there is no document for the version
	ErrDocumentNotFound = errors.New("version document not found")

	// ErrDocumentExists indicates a document id collision
	ErrDocumentExists = errors.New("version document already exists")
)

// Store reads and writes version documents
type Store struct {
	docs storage.Store
	l    *zap.Logger
}

// Option is a functional option for the metadata store
type Option func(*Store)

// Logger injects a logging facility
func Logger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.l = logger
		}
	}
}

// New builds a metadata store on top of a backing storage store
func New(docs storage.Store, opts ...Option) *Store {
	s := &Store{
		docs: docs,
		l:    zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

// DocumentURL yields the address of a version document, carrying the
// partition key of its resource.
func (s *Store) DocumentURL(resource, documentID string) string {
	pth := model.GetDocumentPathToVersion(resource, documentID)
	return fmt.Sprintf("%s/%s?partitionKey=%s", s.docs.String(), pth, resource)
}

// Save writes the document for a version. The document id must not
// collide with an existing one.
func (s *Store) Save(ctx context.Context, desc model.VersionDescriptor) (string, error) {
	data, err := jsoniter.Marshal(desc)
	if err != nil {
		return "", err
	}
	pth := model.GetDocumentPathToVersion(desc.Resource, desc.Name)
	if err := s.docs.Put(ctx, pth, bytes.NewReader(data), storage.NoOverWrite); err != nil {
		if errors.Is(err, status.ErrExists) {
			return "", ErrDocumentExists.Wrap(err)
		}
		return "", err
	}
	s.l.Debug("saved version document", zap.String("path", pth))
	return s.DocumentURL(desc.Resource, desc.Name), nil
}

// Find retrieves the document for a version
func (s *Store) Find(ctx context.Context, resource, documentID string) (model.VersionDescriptor, error) {
	pth := model.GetDocumentPathToVersion(resource, documentID)
	rdr, err := s.docs.Get(ctx, pth)
	if err != nil {
		if errors.Is(err, status.ErrNotExists) || errors.Is(err, status.ErrNotFound) {
			return model.VersionDescriptor{}, ErrDocumentNotFound.Wrap(err)
		}
		return model.VersionDescriptor{}, err
	}
	defer rdr.Close()

	var buf bytes.Buffer
	if _, err := storage.PipeIO(&buf, rdr); err != nil {
		return model.VersionDescriptor{}, err
	}
	var desc model.VersionDescriptor
	if err := jsoniter.Unmarshal(buf.Bytes(), &desc); err != nil {
		return model.VersionDescriptor{}, fmt.Errorf("json unmarshal failed: %v", err)
	}
	return desc, nil
}

// PayloadURL retrieves the payload pointer recorded in a version document
func (s *Store) PayloadURL(ctx context.Context, resource, documentID string) (string, error) {
	desc, err := s.Find(ctx, resource, documentID)
	if err != nil {
		return "", err
	}
	return desc.PayloadURL, nil
}

// Has tells whether a document exists for a version
func (s *Store) Has(ctx context.Context, resource, documentID string) (bool, error) {
	return s.docs.Has(ctx, model.GetDocumentPathToVersion(resource, documentID))
}

// Delete removes the document for a version. A missing document is
// reported as ErrDocumentNotFound.
func (s *Store) Delete(ctx context.Context, resource, documentID string) error {
	pth := model.GetDocumentPathToVersion(resource, documentID)
	if err := s.docs.Delete(ctx, pth); err != nil {
		if errors.Is(err, status.ErrNotExists) || errors.Is(err, status.ErrNotFound) {
			return ErrDocumentNotFound.Wrap(err)
		}
		return err
	}
	return nil
}

// List retrieves all version documents of a resource, ordered by push time
func (s *Store) List(ctx context.Context, resource string) (model.VersionDescriptors, error) {
	var descs model.VersionDescriptors
	prefix := model.GetDocumentPathPrefixToResource(resource)
	pageToken := ""
	for {
		keys, next, err := s.docs.KeysPrefix(ctx, pageToken, prefix, "", 1000)
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			cs, err := model.GetDocumentPathComponents(key)
			if err != nil {
				s.l.Warn("skipped malformed document path", zap.String("path", key), zap.Error(err))
				continue
			}
			desc, err := s.Find(ctx, cs.Resource, cs.DocumentID)
			if err != nil {
				return nil, err
			}
			descs = append(descs, desc)
		}
		if next == "" {
			break
		}
		pageToken = next
	}
	sort.Sort(descs)
	return descs, nil
}
