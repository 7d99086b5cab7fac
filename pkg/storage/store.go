// Package storage provides an interface to handle backend storage objects.
//
// This package supports the following backends:
//   - GCS (Google)
//   - S3 (AWS)
//   - local file system
//
// dddit uses object storage for two independent concerns: binary asset
// payloads (meshes, textures) and version metadata documents.
package storage

import (
	"context"
	"io"
)

const (
	// OverWrite an existing object when putting
	OverWrite = false

	// NoOverWrite fails a put if the object already exists
	NoOverWrite = true
)

// Store implementations know how to write entries to a K/V object store.
//
// Typically this is something file system-like. Examples are S3, GCS, local FS.
// Implementations of this interface are assumed to be fairly simple.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, source io.Reader, exclusive bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)

	// KeysPrefix returns at most count keys matching prefix, starting
	// at pageToken, together with the token of the next page ("" when done).
	KeysPrefix(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error)
}

// PipeIO copies the reader to the writer with a reusable buffer
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	pipeBuffer := make([]byte, 32*1024)
	return io.CopyBuffer(writer, reader, pipeBuffer)
}
