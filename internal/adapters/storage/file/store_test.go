package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bnema/fin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	testCases := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "empty", key: "", wantErr: "store key is empty"},
		{name: "whitespace", key: "   ", wantErr: "store key is empty"},
		{name: "absolute", key: "/absolute/path", wantErr: "invalid store key"},
		{name: "traversal", key: "../escape", wantErr: "invalid store key"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Put(context.Background(), tc.key, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStorePutGetOverwriteAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	key := "session/current"

	require.NoError(t, store.Put(context.Background(), key, `{"id":1}`))
	require.NoError(t, store.Put(context.Background(), key, `{"id":2}`))

	got, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, `{"id":2}`, got)

	info, err := os.Stat(filepath.Join(root, key))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(entryFileMod), info.Mode().Perm())
}

func TestStoreGetMissingWrapsKeyNotFound(t *testing.T) {
	t.Parallel()

	_, err := NewStore(t.TempDir()).Get(context.Background(), "session/current")
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	require.NoError(t, store.Put(context.Background(), "session/current", "x"))

	require.NoError(t, store.Delete(context.Background(), "session/current"))
	require.NoError(t, store.Delete(context.Background(), "session/current"))

	_, err := store.Get(context.Background(), "session/current")
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestStoreConcurrentWritersLeaveOneValue(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	values := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for _, v := range values {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			assert.NoError(t, store.Put(context.Background(), "session/current", v))
		}(v)
	}
	wg.Wait()

	got, err := store.Get(context.Background(), "session/current")
	require.NoError(t, err)
	assert.Contains(t, values, got)
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewStore(t.TempDir()).Put(ctx, "session/current", "x")
	require.ErrorIs(t, err, context.Canceled)
}
