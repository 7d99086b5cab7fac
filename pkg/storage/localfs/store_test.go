package localfs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/PasqualeSorrentino/ddditserver/internal/rand"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage"
	"github.com/PasqualeSorrentino/ddditserver/pkg/storage/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) storage.Store {
	t.Helper()
	fs := afero.NewMemMapFs()

	f, err := fs.Create("sixteentons")
	require.NoError(t, err)
	_, err = f.WriteString("this is the text")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	g, err := fs.Create("seventeentons")
	require.NoError(t, err)
	_, err = g.WriteString("this is the text for another thing")
	require.NoError(t, err)
	require.NoError(t, g.Close())

	return New(fs)
}

func TestHas(t *testing.T) {
	bs := setupStore(t)

	has, err := bs.Has(context.Background(), "sixteentons")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "fifteentons")
	require.NoError(t, err)
	require.False(t, has)
}

func TestGet(t *testing.T) {
	bs := setupStore(t)

	rdr, err := bs.Get(context.Background(), "sixteentons")
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	assert.Equal(t, "this is the text", string(b))

	_, err = bs.Get(context.Background(), "fifteentons")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists))
}

func TestPut(t *testing.T) {
	bs := setupStore(t)

	err := bs.Put(context.Background(), "assets/r1/res1/main/cub7af2/CubeModel.fbx",
		bytes.NewBufferString("mesh bytes"), storage.NoOverWrite)
	require.NoError(t, err)

	rdr, err := bs.Get(context.Background(), "assets/r1/res1/main/cub7af2/CubeModel.fbx")
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	assert.Equal(t, "mesh bytes", string(b))

	// exclusive put on an existing key fails
	err = bs.Put(context.Background(), "sixteentons", bytes.NewBufferString("x"), storage.NoOverWrite)
	require.Error(t, err)

	// non-exclusive put overwrites
	err = bs.Put(context.Background(), "sixteentons", bytes.NewBufferString("overwritten"), storage.OverWrite)
	require.NoError(t, err)
}

func TestDelete(t *testing.T) {
	bs := setupStore(t)

	require.NoError(t, bs.Delete(context.Background(), "sixteentons"))
	has, err := bs.Has(context.Background(), "sixteentons")
	require.NoError(t, err)
	require.False(t, has)

	err = bs.Delete(context.Background(), "sixteentons")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists))
}

func TestKeys(t *testing.T) {
	bs := setupStore(t)

	keys, err := bs.Keys(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 2)
}

func TestKeysPrefix(t *testing.T) {
	bs := setupStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, bs.Put(context.Background(), "r1/res1/main/ver/tex"+strconv.Itoa(i)+".png",
			strings.NewReader(rand.LetterString(32)), storage.NoOverWrite))
	}

	keys, next, err := bs.KeysPrefix(context.Background(), "", "r1/res1/main/ver/", "/", 3)
	require.NoError(t, err)
	require.Len(t, keys, 3)
	require.NotEmpty(t, next)

	keys2, next2, err := bs.KeysPrefix(context.Background(), next, "r1/res1/main/ver/", "/", 3)
	require.NoError(t, err)
	require.Len(t, keys2, 2)
	require.Empty(t, next2)

	none, _, err := bs.KeysPrefix(context.Background(), "", "r1/res1/other/", "/", 10)
	require.NoError(t, err)
	require.Empty(t, none)
}
