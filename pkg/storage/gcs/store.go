// Package gcs implements the storage.Store interface for Google
// Cloud Storage buckets.
package gcs

import (
	"context"
	"io"

	gcsStorage "cloud.google.com/go/storage"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type gcs struct {
	client *gcsStorage.Client
	bucket string
	l      *zap.Logger
}

// New builds a gcs storage store, with a client backing the given
// bucket. The credential file is optional: when empty, application
// default credentials apply.
func New(ctx context.Context, bucket string, credentialFile string, opts ...Option) (storage.Store, error) {
	googleStore := gcs{
		bucket: bucket,
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(&googleStore)
	}

	clientOpts := []option.ClientOption{option.WithScopes(gcsStorage.ScopeFullControl)}
	if credentialFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialFile))
	}
	client, err := gcsStorage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	googleStore.client = client
	return &googleStore, nil
}

func (g *gcs) String() string {
	return "gcs@" + g.bucket
}

func (g *gcs) Has(ctx context.Context, objectName string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(objectName).Attrs(ctx)
	if err != nil {
		if err == gcsStorage.ErrObjectNotExist {
			return false, nil
		}
		return false, toSentinelErrors(err)
	}
	return true, nil
}

type gcsReader struct {
	objectReader io.ReadCloser
}

func (r gcsReader) WriteTo(writer io.Writer) (n int64, err error) {
	return storage.PipeIO(writer, r.objectReader)
}

func (r gcsReader) Close() error {
	return r.objectReader.Close()
}

func (r gcsReader) Read(p []byte) (n int, err error) {
	return r.objectReader.Read(p)
}

func (g *gcs) Get(ctx context.Context, objectName string) (io.ReadCloser, error) {
	g.l.Debug("start get", zap.String("objectName", objectName))
	objectReader, err := g.client.Bucket(g.bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	g.l.Debug("end get", zap.String("objectName", objectName))
	return gcsReader{objectReader: objectReader}, nil
}

func (g *gcs) Put(ctx context.Context, objectName string, reader io.Reader, exclusive bool) (err error) {
	g.l.Debug("start put", zap.String("objectName", objectName))
	b := false
	object := g.client.Bucket(g.bucket).Object(objectName)
	if exclusive {
		object = object.If(gcsStorage.Conditions{DoesNotExist: true})
	}
	writer := object.NewWriter(ctx)
	defer func() {
		if !b {
			werr := writer.Close()
			if err == nil {
				err = toSentinelErrors(werr)
			}
		}
		g.l.Debug("end put", zap.String("objectName", objectName), zap.Error(err))
	}()
	_, err = storage.PipeIO(writer, reader)
	if err != nil {
		return toSentinelErrors(err)
	}
	b = true
	return toSentinelErrors(writer.Close())
}

func (g *gcs) Delete(ctx context.Context, objectName string) error {
	g.l.Debug("delete", zap.String("objectName", objectName))
	return toSentinelErrors(g.client.Bucket(g.bucket).Object(objectName).Delete(ctx))
}

func (g *gcs) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	pageToken := ""
	for {
		page, next, err := g.KeysPrefix(ctx, pageToken, "", "", 1000)
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

func (g *gcs) KeysPrefix(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error) {
	itr := g.client.Bucket(g.bucket).Objects(ctx, &gcsStorage.Query{Prefix: prefix, Delimiter: delimiter})

	var objects []*gcsStorage.ObjectAttrs
	nextPageToken, err := iterator.NewPager(itr, count, pageToken).NextPage(&objects)
	if err != nil {
		return nil, "", toSentinelErrors(err)
	}

	keys := make([]string, 0, len(objects))
	for _, objAttrs := range objects {
		if objAttrs.Prefix != "" {
			keys = append(keys, objAttrs.Prefix)
		} else {
			keys = append(keys, objAttrs.Name)
		}
	}
	return keys, nextPageToken, nil
}
