package core

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	context2 "github.com/PasqualeSorrentino/ddditserver/pkg/context"
	"github.com/PasqualeSorrentino/ddditserver/pkg/core/status"
	"github.com/PasqualeSorrentino/ddditserver/pkg/graph/bdgr"
	"github.com/PasqualeSorrentino/ddditserver/pkg/metadata"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"github.com/PasqualeSorrentino/ddditserver/pkg/objects"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage/localfs"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage/mockstorage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// Background daemons started in init() by transitive dependencies;
		// they cannot be stopped by the code under test.
		goleak.IgnoreTopFunction("github.com/golang/glog.(*fileSink).flushDaemon"),
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

// sequenceNames yields cub0001, cub0002, ... so tests get stable ids
func sequenceNames() func(string) string {
	n := 0
	return func(hint string) string {
		n++
		base := strings.ToLower(hint)
		if len(base) > 3 {
			base = base[:3]
		}
		return base + []string{"0001", "0002", "0003", "0004", "0005"}[n-1]
	}
}

func testStores(t *testing.T) context2.Stores {
	t.Helper()
	idx := bdgr.New(t.TempDir())
	require.NoError(t, idx.Initialize())
	t.Cleanup(func() {
		require.NoError(t, idx.Close())
	})
	return context2.NewStores(
		idx,
		metadata.New(localfs.New(afero.NewMemMapFs())),
		objects.New(localfs.New(afero.NewMemMapFs()), localfs.New(afero.NewMemMapFs())),
	)
}

func testEngine(t *testing.T, stores context2.Stores) *Engine {
	t.Helper()
	return New(stores, NameGenerator(sequenceNames()))
}

func seedEngine(t *testing.T, e *Engine) model.BranchKey {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.EnsureUser(ctx, "alice"))
	require.NoError(t, e.CreateRepository(ctx, "alice", "repo1"))
	require.NoError(t, e.CreateResource(ctx, "alice", "repo1", "res1"))
	key := model.BranchKey{Repository: "repo1", Resource: "res1", Branch: "main"}
	require.NoError(t, e.CreateBranch(ctx, "alice", key))
	return key
}

func meshFile(name, content string) model.File {
	return model.File{
		Name: name,
		Size: int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func meshPtr(name, content string) *model.File {
	f := meshFile(name, content)
	return &f
}

func TestRepositoryLifecycle(t *testing.T) {
	e := testEngine(t, testStores(t))
	ctx := context.Background()

	require.NoError(t, e.EnsureUser(ctx, "alice"))
	require.NoError(t, e.EnsureUser(ctx, "bob"))

	err := e.CreateRepository(ctx, "alice", "no")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrValidation))

	require.NoError(t, e.CreateRepository(ctx, "alice", "repo1"))
	err = e.CreateRepository(ctx, "bob", "repo1")
	assert.True(t, errors.Is(err, status.ErrRepoExists))

	// only the owner grants access
	err = e.AddContributor(ctx, "bob", "repo1", "bob")
	assert.True(t, errors.Is(err, status.ErrPermissionDenied))
	require.NoError(t, e.AddContributor(ctx, "alice", "repo1", "bob"))

	owned, err := e.ListRepositoriesOwned(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"repo1"}, owned)

	contributed, err := e.ListRepositoriesContributed(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"repo1"}, contributed)
}

func TestResourceAccess(t *testing.T) {
	e := testEngine(t, testStores(t))
	ctx := context.Background()
	seedEngine(t, e)
	require.NoError(t, e.EnsureUser(ctx, "mallory"))

	err := e.CreateResource(ctx, "mallory", "repo1", "res2")
	assert.True(t, errors.Is(err, status.ErrPermissionDenied))

	_, err = e.ListResources(ctx, "mallory", "repo1")
	assert.True(t, errors.Is(err, status.ErrPermissionDenied))

	resources, err := e.ListResources(ctx, "alice", "repo1")
	require.NoError(t, err)
	assert.Equal(t, []string{"res1"}, resources)

	_, err = e.ListBranches(ctx, "alice", "repo1", "missing")
	assert.True(t, errors.Is(err, status.ErrResourceNotFound))

	branches, err := e.ListBranches(ctx, "alice", "repo1", "res1")
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, branches)
}

func TestPushPullRoundTrip(t *testing.T) {
	e := testEngine(t, testStores(t))
	ctx := context.Background()
	key := seedEngine(t, e)

	desc, err := e.Push(ctx, PushParams{
		Key:      key,
		Username: "alice",
		Comment:  "first cube",
		Mesh:     meshPtr("CubeModel.fbx", "mesh bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "cub0001", desc.Name)
	assert.Equal(t, model.ResourceTypeMesh, desc.Type)
	assert.Equal(t, "alice", desc.Username)
	assert.False(t, desc.PushedAt.IsZero())
	assert.Contains(t, desc.PayloadURL, "CubeModel.fbx")

	payloads, pulled, err := e.Pull(ctx, PullParams{Key: key, Version: "cub0001", Username: "alice"})
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, "CubeModel.fbx", payloads[0].Name)
	b, err := io.ReadAll(payloads[0].Stream)
	require.NoError(t, err)
	require.NoError(t, payloads[0].Stream.Close())
	assert.Equal(t, "mesh bytes", string(b))
	assert.Equal(t, desc.Name, pulled.Name)
	assert.Equal(t, desc.Comment, pulled.Comment)
}

func TestPullLatest(t *testing.T) {
	e := testEngine(t, testStores(t))
	ctx := context.Background()
	key := seedEngine(t, e)

	for _, comment := range []string{"one", "two"} {
		_, err := e.Push(ctx, PushParams{
			Key:      key,
			Username: "alice",
			Comment:  comment,
			Mesh:     meshPtr("CubeModel.fbx", "mesh "+comment),
		})
		require.NoError(t, err)
	}

	payloads, desc, err := e.Pull(ctx, PullParams{Key: key, Username: "alice"})
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	require.NoError(t, payloads[0].Stream.Close())
	assert.Equal(t, "cub0002", desc.Name)
	assert.Equal(t, "two", desc.Comment)
}

func TestPushMaterial(t *testing.T) {
	e := testEngine(t, testStores(t))
	ctx := context.Background()
	key := seedEngine(t, e)

	desc, err := e.Push(ctx, PushParams{
		Key:      key,
		Username: "alice",
		Materials: []model.File{
			meshFile("albedo.png", "albedo bytes"),
			meshFile("normal.png", "normal bytes"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.ResourceTypeMaterial, desc.Type)
	assert.NotEmpty(t, desc.PayloadURL)

	payloads, _, err := e.Pull(ctx, PullParams{Key: key, Version: desc.Name, Username: "alice"})
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	for _, p := range payloads {
		assert.Equal(t, "image/png", p.ContentType)
		require.NoError(t, p.Stream.Close())
	}
}

func TestPushValidation(t *testing.T) {
	e := testEngine(t, testStores(t))
	ctx := context.Background()
	key := seedEngine(t, e)

	for _, params := range []PushParams{
		{Key: key, Username: "alice"},
		{Key: key, Username: "alice", Mesh: meshPtr("CubeModel.obj", "not fbx")},
		{Key: key, Username: "alice", Mesh: meshPtr("a.fbx", "base name too short")},
		{Key: key, Username: "alice",
			Materials: []model.File{meshFile("albedo.jpg", "not png")}},
		{Key: key, Username: "alice", Comment: strings.Repeat("x", 201),
			Mesh: meshPtr("CubeModel.fbx", "x")},
		{Key: key, Username: "alice", Mesh: meshPtr("CubeModel.fbx", "x"),
			Materials: []model.File{meshFile("albedo.png", "both kinds")}},
	} {
		_, err := e.Push(ctx, params)
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrValidation))
	}
}

func TestPushPermissionTouchesNoStore(t *testing.T) {
	idx := bdgr.New(t.TempDir())
	require.NoError(t, idx.Initialize())
	t.Cleanup(func() {
		require.NoError(t, idx.Close())
	})

	var metadataWrites, objectWrites int
	countPuts := func(counter *int) *mockstorage.StoreMock {
		return &mockstorage.StoreMock{
			PutFunc: func(context.Context, string, io.Reader, bool) error {
				*counter++
				return nil
			},
		}
	}
	stores := context2.NewStores(
		idx,
		metadata.New(countPuts(&metadataWrites)),
		objects.New(countPuts(&objectWrites), countPuts(&objectWrites)),
	)
	e := testEngine(t, stores)
	ctx := context.Background()
	require.NoError(t, e.EnsureUser(ctx, "alice"))
	require.NoError(t, e.EnsureUser(ctx, "mallory"))
	require.NoError(t, e.CreateRepository(ctx, "alice", "repo1"))

	_, err := e.Push(ctx, PushParams{
		Key:      model.BranchKey{Repository: "repo1", Resource: "res1", Branch: "main"},
		Username: "mallory",
		Mesh:     meshPtr("CubeModel.fbx", "mesh bytes"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrPermissionDenied))
	assert.Zero(t, metadataWrites)
	assert.Zero(t, objectWrites)

	// a push carrying both payload kinds is rejected before any store call
	require.NoError(t, e.AddContributor(ctx, "alice", "repo1", "mallory"))
	_, err = e.Push(ctx, PushParams{
		Key:       model.BranchKey{Repository: "repo1", Resource: "res1", Branch: "main"},
		Username:  "mallory",
		Mesh:      meshPtr("CubeModel.fbx", "mesh bytes"),
		Materials: []model.File{meshFile("albedo.png", "albedo bytes")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrValidation))
	assert.Zero(t, metadataWrites)
	assert.Zero(t, objectWrites)
}

func TestPushCollision(t *testing.T) {
	stores := testStores(t)
	e := New(stores, NameGenerator(func(string) string { return "cub0001" }))
	ctx := context.Background()
	key := seedEngine(t, e)

	_, err := e.Push(ctx, PushParams{
		Key:      key,
		Username: "alice",
		Mesh:     meshPtr("CubeModel.fbx", "mesh bytes"),
	})
	require.NoError(t, err)

	_, err = e.Push(ctx, PushParams{
		Key:      key,
		Username: "alice",
		Mesh:     meshPtr("CubeModel.fbx", "other bytes"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExistingVersion))
}

func TestVersionTree(t *testing.T) {
	e := testEngine(t, testStores(t))
	ctx := context.Background()
	key := seedEngine(t, e)
	dev := model.BranchKey{Repository: "repo1", Resource: "res1", Branch: "dev"}
	require.NoError(t, e.CreateBranch(ctx, "alice", dev))

	for i := 0; i < 2; i++ {
		_, err := e.Push(ctx, PushParams{
			Key:      key,
			Username: "alice",
			Mesh:     meshPtr("CubeModel.fbx", "mesh bytes"),
		})
		require.NoError(t, err)
	}
	_, err := e.Push(ctx, PushParams{
		Key:      dev,
		Username: "alice",
		Mesh:     meshPtr("SphereModel.fbx", "sphere bytes"),
	})
	require.NoError(t, err)

	tree, err := e.VersionTree(ctx, "alice", "repo1", "res1")
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "dev", tree[0].Branch)
	require.Len(t, tree[0].Versions, 1)
	assert.Equal(t, "main", tree[1].Branch)
	require.Len(t, tree[1].Versions, 2)
	assert.Equal(t, "cub0001", tree[1].Versions[0].Name)
	assert.Equal(t, "cub0002", tree[1].Versions[1].Name)
}
