// Package sthree implements the storage.Store interface for AWS S3
// and S3 compatible object stores.
package sthree

import (
	"context"
	"io"

	"github.com/PasqualeSorrentino/ddditserver/pkg/storage"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage/status"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Option is a functional option for the s3 store
type Option func(*s3FS)

// Bucket sets the bucket for this store
func Bucket(bucket string) Option {
	return func(fs *s3FS) {
		fs.bucket = bucket
	}
}

// AWSConfig sets the aws client configuration for this store
func AWSConfig(cfg *aws.Config) Option {
	return func(fs *s3FS) {
		fs.awsConfig = cfg
	}
}

// New creates a new s3 backed storage store
func New(opts ...Option) storage.Store {
	fs := &s3FS{}
	for _, apply := range opts {
		apply(fs)
	}
	if fs.awsConfig == nil {
		fs.awsConfig = aws.NewConfig()
	}
	sess := session.Must(session.NewSession(fs.awsConfig))
	fs.s3 = s3.New(sess)
	fs.uploader = s3manager.NewUploaderWithClient(fs.s3)
	return fs
}

type s3FS struct {
	bucket    string
	awsConfig *aws.Config
	s3        *s3.S3
	uploader  *s3manager.Uploader
}

func (s *s3FS) String() string {
	return "s3@" + s.bucket
}

func (s *s3FS) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound":
				return false, nil
			}
		}
		return false, status.ErrStorageAPI.Wrap(err)
	}
	return true, nil
}

func (s *s3FS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, status.ErrNotExists.Wrap(err)
		}
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	return resp.Body, nil
}

func (s *s3FS) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	// the s3 api has no atomic create-if-absent, so exclusive writes
	// are checked with a preliminary head request
	if exclusive {
		has, err := s.Has(ctx, key)
		if err != nil {
			return err
		}
		if has {
			return status.ErrExists
		}
	}
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   source,
	})
	if err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	return nil
}

func (s *s3FS) Delete(ctx context.Context, key string) error {
	has, err := s.Has(ctx, key)
	if err != nil {
		return err
	}
	if !has {
		return status.ErrNotExists
	}
	_, err = s.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	return nil
}

func (s *s3FS) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	pageToken := ""
	for {
		page, next, err := s.KeysPrefix(ctx, pageToken, "", "", 1000)
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

func (s *s3FS) KeysPrefix(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int64(int64(count)),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	if delimiter != "" {
		input.Delimiter = aws.String(delimiter)
	}
	if pageToken != "" {
		input.ContinuationToken = aws.String(pageToken)
	}
	resp, err := s.s3.ListObjectsV2WithContext(ctx, input)
	if err != nil {
		return nil, "", status.ErrStorageAPI.Wrap(err)
	}
	keys := make([]string, 0, len(resp.Contents)+len(resp.CommonPrefixes))
	for _, object := range resp.Contents {
		keys = append(keys, aws.StringValue(object.Key))
	}
	for _, commonPrefix := range resp.CommonPrefixes {
		keys = append(keys, aws.StringValue(commonPrefix.Prefix))
	}
	next := ""
	if aws.BoolValue(resp.IsTruncated) {
		next = aws.StringValue(resp.NextContinuationToken)
	}
	return keys, next, nil
}
