package bdgr

import (
	"context"
	"sync"
	"testing"

	"github.com/PasqualeSorrentino/ddditserver/pkg/graph"
	"github.com/PasqualeSorrentino/ddditserver/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupIndex(t *testing.T) graph.Index {
	t.Helper()
	idx := New(t.TempDir())
	require.NoError(t, idx.Initialize())
	t.Cleanup(func() {
		require.NoError(t, idx.Close())
	})
	return idx
}

func seedBranch(t *testing.T, idx graph.Index) model.BranchKey {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, idx.EnsureUser(ctx, "alice"))
	require.NoError(t, idx.CreateRepository(ctx, "r1", "alice"))
	require.NoError(t, idx.CreateResource(ctx, "r1", "res1"))
	key := model.BranchKey{Repository: "r1", Resource: "res1", Branch: "main"}
	require.NoError(t, idx.CreateBranch(ctx, key))
	return key
}

func TestRepositories(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.EnsureUser(ctx, "alice"))
	require.NoError(t, idx.EnsureUser(ctx, "bob"))

	// creating for an unknown owner fails
	err := idx.CreateRepository(ctx, "r1", "carol")
	require.Error(t, err)
	assert.Equal(t, graph.UserNotFound, err)

	require.NoError(t, idx.CreateRepository(ctx, "r1", "alice"))
	err = idx.CreateRepository(ctx, "r1", "bob")
	require.Error(t, err)
	assert.Equal(t, graph.RepoAlreadyExists, err)

	ref, err := idx.GetRepository(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "alice", ref.Owner)

	has, err := idx.HasAccess(ctx, "r1", "alice")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = idx.HasAccess(ctx, "r1", "bob")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, idx.AddContributor(ctx, "r1", "bob"))
	has, err = idx.HasAccess(ctx, "r1", "bob")
	require.NoError(t, err)
	assert.True(t, has)

	owned, err := idx.ListRepositoriesOwned(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, owned)

	contributed, err := idx.ListRepositoriesContributed(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, contributed)
}

func TestResourcesAndBranches(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()
	key := seedBranch(t, idx)

	err := idx.CreateResource(ctx, "nope", "res1")
	assert.Equal(t, graph.RepoNotFound, err)

	err = idx.CreateResource(ctx, "r1", "res1")
	assert.Equal(t, graph.ResourceAlreadyExists, err)

	require.NoError(t, idx.CreateResource(ctx, "r1", "res2"))
	resources, err := idx.ListResources(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"res1", "res2"}, resources)

	err = idx.CreateBranch(ctx, key)
	assert.Equal(t, graph.BranchAlreadyExists, err)

	err = idx.CreateBranch(ctx, model.BranchKey{Repository: "r1", Resource: "missing", Branch: "main"})
	assert.Equal(t, graph.ResourceNotFound, err)

	require.NoError(t, idx.CreateBranch(ctx, model.BranchKey{Repository: "r1", Resource: "res1", Branch: "dev"}))
	branches, err := idx.ListBranches(ctx, "r1", "res1")
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "main"}, branches)
}

func TestVersionChain(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()
	key := seedBranch(t, idx)

	_, err := idx.LatestVersion(ctx, key)
	assert.Equal(t, graph.VersionNotFound, err)

	for _, name := range []string{"cub0001", "cub0002", "cub0003"} {
		require.NoError(t, idx.AppendVersion(ctx, key, graph.VersionRef{
			Name: name,
			Type: model.ResourceTypeMesh,
		}))
	}

	refs, err := idx.ListVersions(ctx, key)
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "cub0001", refs[0].Name)
	assert.Equal(t, "cub0002", refs[1].Name)
	assert.Equal(t, "cub0003", refs[2].Name)

	latest, err := idx.LatestVersion(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "cub0003", latest.Name)

	err = idx.AppendVersion(ctx, key, graph.VersionRef{Name: "cub0002"})
	assert.Equal(t, graph.VersionAlreadyExists, err)

	err = idx.AppendVersion(ctx, model.BranchKey{Repository: "r1", Resource: "res1", Branch: "nope"},
		graph.VersionRef{Name: "cub0009"})
	assert.Equal(t, graph.BranchNotFound, err)
}

func TestVersionSharedAcrossBranches(t *testing.T) {
	// version ids are unique per resource, not per branch
	idx := setupIndex(t)
	ctx := context.Background()
	key := seedBranch(t, idx)
	dev := model.BranchKey{Repository: "r1", Resource: "res1", Branch: "dev"}
	require.NoError(t, idx.CreateBranch(ctx, dev))

	require.NoError(t, idx.AppendVersion(ctx, key, graph.VersionRef{Name: "cub0001"}))
	err := idx.AppendVersion(ctx, dev, graph.VersionRef{Name: "cub0001"})
	assert.Equal(t, graph.VersionAlreadyExists, err)
}

func TestDeleteVersion(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()
	key := seedBranch(t, idx)

	for _, name := range []string{"cub0001", "cub0002", "cub0003"} {
		require.NoError(t, idx.AppendVersion(ctx, key, graph.VersionRef{Name: name}))
	}

	// unlink from the middle keeps the chain connected
	require.NoError(t, idx.DeleteVersion(ctx, key, "cub0002"))
	refs, err := idx.ListVersions(ctx, key)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "cub0001", refs[0].Name)
	assert.Equal(t, "cub0003", refs[1].Name)

	// unlink the head moves the head forward
	require.NoError(t, idx.DeleteVersion(ctx, key, "cub0001"))
	refs, err = idx.ListVersions(ctx, key)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "cub0003", refs[0].Name)

	// unlink the last version empties the branch
	require.NoError(t, idx.DeleteVersion(ctx, key, "cub0003"))
	refs, err = idx.ListVersions(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, refs)

	err = idx.DeleteVersion(ctx, key, "cub0003")
	assert.Equal(t, graph.VersionNotFound, err)
}

func TestConcurrentAppend(t *testing.T) {
	// appends from concurrent writers each land a vertex; the chain
	// link step runs outside the vertex transaction, so a concurrent
	// append can leave a vertex off the chain until relinked
	idx := setupIndex(t)
	ctx := context.Background()
	key := seedBranch(t, idx)

	names := []string{"cub000a", "cub000b"}
	var wg sync.WaitGroup
	errs := make([]error, len(names))
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			errs[i] = idx.AppendVersion(ctx, key, graph.VersionRef{Name: name})
		}(i, name)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "append %s", names[i])
		has, herr := idx.HasVersion(ctx, key.Repository, key.Resource, names[i])
		require.NoError(t, herr)
		assert.True(t, has, "vertex %s", names[i])
	}

	refs, err := idx.ListVersions(ctx, key)
	require.NoError(t, err)
	assert.NotEmpty(t, refs)
	assert.LessOrEqual(t, len(refs), len(names))
}
