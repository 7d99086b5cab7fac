package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/PasqualeSorrentino/ddditserver/pkg/errors"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDescriptor() model.VersionDescriptor {
	return model.VersionDescriptor{
		Repository: "r1",
		Resource:   "res1",
		Branch:     "main",
		Name:       "cub7af2",
		Username:   "alice",
		PushedAt:   time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC),
		Comment:    "first cube",
		Tags:       []string{"lowpoly"},
		Type:       model.ResourceTypeMesh,
		PayloadURL: "mem/meshes/res1/cub7af2/CubeModel.fbx",
	}
}

func TestSaveFind(t *testing.T) {
	ms := New(localfs.New(afero.NewMemMapFs()))
	ctx := context.Background()

	url, err := ms.Save(ctx, testDescriptor())
	require.NoError(t, err)
	assert.Contains(t, url, "versions/res1/cub7af2.json")
	assert.Contains(t, url, "?partitionKey=res1")

	desc, err := ms.Find(ctx, "res1", "cub7af2")
	require.NoError(t, err)
	assert.Equal(t, testDescriptor(), desc)

	has, err := ms.Has(ctx, "res1", "cub7af2")
	require.NoError(t, err)
	assert.True(t, has)

	payload, err := ms.PayloadURL(ctx, "res1", "cub7af2")
	require.NoError(t, err)
	assert.Equal(t, testDescriptor().PayloadURL, payload)

	// a second save with the same id is a collision
	_, err = ms.Save(ctx, testDescriptor())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentExists))
}

func TestFindMissing(t *testing.T) {
	ms := New(localfs.New(afero.NewMemMapFs()))
	_, err := ms.Find(context.Background(), "res1", "nothere")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentNotFound))
}

func TestDelete(t *testing.T) {
	ms := New(localfs.New(afero.NewMemMapFs()))
	ctx := context.Background()

	_, err := ms.Save(ctx, testDescriptor())
	require.NoError(t, err)
	require.NoError(t, ms.Delete(ctx, "res1", "cub7af2"))

	err = ms.Delete(ctx, "res1", "cub7af2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentNotFound))
}

func TestList(t *testing.T) {
	ms := New(localfs.New(afero.NewMemMapFs()))
	ctx := context.Background()

	// saved out of push order on purpose
	for i, name := range []string{"sph0001", "cub0002", "cub0001"} {
		desc := testDescriptor()
		desc.Name = name
		desc.PushedAt = desc.PushedAt.Add(-time.Duration(i) * time.Hour)
		_, err := ms.Save(ctx, desc)
		require.NoError(t, err)
	}
	other := testDescriptor()
	other.Resource = "res2"
	other.Name = "oth0001"
	_, err := ms.Save(ctx, other)
	require.NoError(t, err)

	descs, err := ms.List(ctx, "res1")
	require.NoError(t, err)
	require.Len(t, descs, 3)
	for _, desc := range descs {
		assert.Equal(t, "res1", desc.Resource)
	}

	// ordered by push time, oldest first
	assert.Equal(t, "cub0001", descs[0].Name)
	assert.Equal(t, "cub0002", descs[1].Name)
	assert.Equal(t, "sph0001", descs[2].Name)
}
