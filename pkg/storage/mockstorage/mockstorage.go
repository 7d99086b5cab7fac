// Package mockstorage provides a mock storage.Store for testing.
package mockstorage

import (
	"context"
	"io"
)

// StoreMock implements storage.Store with overridable function
// fields, so tests rig just the behavior they need.
type StoreMock struct {
	StringFunc     func() string
	HasFunc        func(context.Context, string) (bool, error)
	GetFunc        func(context.Context, string) (io.ReadCloser, error)
	PutFunc        func(context.Context, string, io.Reader, bool) error
	DeleteFunc     func(context.Context, string) error
	KeysFunc       func(context.Context) ([]string, error)
	KeysPrefixFunc func(context.Context, string, string, string, int) ([]string, string, error)
}

func (s *StoreMock) String() string {
	if s.StringFunc == nil {
		return "mock"
	}
	return s.StringFunc()
}

func (s *StoreMock) Has(ctx context.Context, key string) (bool, error) {
	if s.HasFunc == nil {
		return false, nil
	}
	return s.HasFunc(ctx, key)
}

func (s *StoreMock) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.GetFunc == nil {
		return nil, nil
	}
	return s.GetFunc(ctx, key)
}

func (s *StoreMock) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	if s.PutFunc == nil {
		return nil
	}
	return s.PutFunc(ctx, key, source, exclusive)
}

func (s *StoreMock) Delete(ctx context.Context, key string) error {
	if s.DeleteFunc == nil {
		return nil
	}
	return s.DeleteFunc(ctx, key)
}

func (s *StoreMock) Keys(ctx context.Context) ([]string, error) {
	if s.KeysFunc == nil {
		return nil, nil
	}
	return s.KeysFunc(ctx)
}

func (s *StoreMock) KeysPrefix(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error) {
	if s.KeysPrefixFunc == nil {
		return nil, "", nil
	}
	return s.KeysPrefixFunc(ctx, pageToken, prefix, delimiter, count)
}
