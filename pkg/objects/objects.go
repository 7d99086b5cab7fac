// Package objects stores version payloads: a single mesh file, or
// the texture files of a material set, addressed by the coordinates
// of their version.
package objects

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/PasqualeSorrentino/ddditserver/pkg/errors"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage/status"
	"go.uber.org/zap"
)

var (
	// ErrPayloadNotFound indicates there is no payload stored for the version
	ErrPayloadNotFound = errors.New("version payload not found")
)

// listTimeout bounds folder listings on the backing store
const listTimeout = 30 * time.Second

// Store reads and writes version payloads. Meshes and materials live
// in separate backing stores.
type Store struct {
	meshes    storage.Store
	materials storage.Store
	l         *zap.Logger
}

// Option is a functional option for the object store
type Option func(*Store)

// Logger injects a logging facility
func Logger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.l = logger
		}
	}
}

// New builds an object store over backing stores for meshes and materials
func New(meshes, materials storage.Store, opts ...Option) *Store {
	s := &Store{
		meshes:    meshes,
		materials: materials,
		l:         zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

func (s *Store) backing(rt model.ResourceType) storage.Store {
	if rt == model.ResourceTypeMaterial {
		return s.materials
	}
	return s.meshes
}

// contentTypeFor resolves the content type from the file extension
func contentTypeFor(fileName string) string {
	if ct := mime.TypeByExtension(filepath.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Save uploads one payload file for a version and yields its URL
func (s *Store) Save(ctx context.Context, rt model.ResourceType, key model.VersionKey, f model.File) (string, error) {
	rdr, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open payload %q: %v", f.Name, err)
	}
	defer rdr.Close()

	store := s.backing(rt)
	pth := model.GetObjectPathToFile(key, f.Name)
	if err := store.Put(ctx, pth, rdr, storage.NoOverWrite); err != nil {
		return "", err
	}
	s.l.Debug("saved payload", zap.String("path", pth), zap.String("type", string(rt)))
	return store.String() + "/" + pth, nil
}

// FolderURL yields the address of the payload folder of one version
func (s *Store) FolderURL(rt model.ResourceType, key model.VersionKey) string {
	return s.backing(rt).String() + "/" + model.GetObjectPathToVersion(key)
}

// keysForVersion lists the payload object keys of one version, with a
// bounded listing on the backing store.
func (s *Store) keysForVersion(ctx context.Context, rt model.ResourceType, key model.VersionKey) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	store := s.backing(rt)
	prefix := model.GetObjectPathToVersion(key) + "/"
	var keys []string
	pageToken := ""
	for {
		page, next, err := store.KeysPrefix(ctx, pageToken, prefix, "", 1000)
		if err != nil {
			return nil, err
		}
		keys = append(keys, page...)
		if next == "" {
			break
		}
		pageToken = next
	}
	return keys, nil
}

// Exists tells whether any payload is stored for the version
func (s *Store) Exists(ctx context.Context, rt model.ResourceType, key model.VersionKey) (bool, error) {
	keys, err := s.keysForVersion(ctx, rt, key)
	if err != nil {
		return false, err
	}
	return len(keys) > 0, nil
}

// Read streams back the payload files of a version. A mesh version
// yields one payload, a material version one per texture.
func (s *Store) Read(ctx context.Context, rt model.ResourceType, key model.VersionKey) ([]model.Payload, error) {
	keys, err := s.keysForVersion(ctx, rt, key)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, ErrPayloadNotFound
	}
	store := s.backing(rt)
	payloads := make([]model.Payload, 0, len(keys))
	for _, pth := range keys {
		rdr, err := store.Get(ctx, pth)
		if err != nil {
			for _, p := range payloads {
				_ = p.Stream.Close()
			}
			return nil, err
		}
		name := model.GetObjectFileName(pth)
		payloads = append(payloads, model.Payload{
			Stream:      rdr,
			ContentType: contentTypeFor(name),
			Name:        name,
		})
	}
	return payloads, nil
}

// DeleteMesh removes the mesh payload of a version. A missing payload
// is an error.
func (s *Store) DeleteMesh(ctx context.Context, key model.VersionKey) error {
	keys, err := s.keysForVersion(ctx, model.ResourceTypeMesh, key)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return ErrPayloadNotFound
	}
	for _, pth := range keys {
		if err := s.meshes.Delete(ctx, pth); err != nil && !errors.Is(err, status.ErrNotExists) {
			return err
		}
	}
	return nil
}

// DeleteMaterial removes the texture folder of a version. A missing
// folder is not an error.
func (s *Store) DeleteMaterial(ctx context.Context, key model.VersionKey) error {
	keys, err := s.keysForVersion(ctx, model.ResourceTypeMaterial, key)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		s.l.Debug("no texture folder to remove", zap.String("version", key.String()))
		return nil
	}
	for _, pth := range keys {
		if err := s.materials.Delete(ctx, pth); err != nil && !errors.Is(err, status.ErrNotExists) {
			return err
		}
	}
	return nil
}

// Delete removes the payloads of a version according to its type
func (s *Store) Delete(ctx context.Context, rt model.ResourceType, key model.VersionKey) error {
	if rt == model.ResourceTypeMaterial {
		return s.DeleteMaterial(ctx, key)
	}
	return s.DeleteMesh(ctx, key)
}
