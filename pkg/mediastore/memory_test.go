package mediastore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artisanhub/mediaflow/pkg/mediastore"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	t.Parallel()

	store := mediastore.NewMemoryStore()
	ctx := context.Background()

	ref, err := store.Put(ctx, []byte("png-bytes"), mediastore.Metadata{
		Filename:    "item-1_image_1.png",
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Contains(t, ref.PublicURL, "mem://media/")
	assert.Contains(t, ref.StoragePath, "item-1_image_1.png")
	assert.Equal(t, 1, store.Len())

	data, err := store.Get(ctx, ref.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	deleted, err := store.Delete(ctx, ref.StoragePath)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, store.Len())

	_, err = store.Get(ctx, ref.StoragePath)
	assert.Error(t, err)

	deleted, err = store.Delete(ctx, ref.StoragePath)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemoryStore_CopiesData(t *testing.T) {
	t.Parallel()

	store := mediastore.NewMemoryStore()
	ctx := context.Background()

	original := []byte("abc")

	ref, err := store.Put(ctx, original, mediastore.Metadata{Filename: "a.bin"})
	require.NoError(t, err)

	original[0] = 'z'

	data, err := store.Get(ctx, ref.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
}

func TestMemoryStore_DistinctPathsForSameFilename(t *testing.T) {
	t.Parallel()

	store := mediastore.NewMemoryStore()
	ctx := context.Background()

	first, err := store.Put(ctx, []byte("one"), mediastore.Metadata{Filename: "same.png"})
	require.NoError(t, err)

	second, err := store.Put(ctx, []byte("two"), mediastore.Metadata{Filename: "same.png"})
	require.NoError(t, err)

	assert.NotEqual(t, first.StoragePath, second.StoragePath)
	assert.Equal(t, 2, store.Len())
}
