package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStoreSurvivesRestart(t *testing.T) {
	dir, err := ioutil.TempDir("", "iavl-adapter")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	db, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	require.NoError(t, db.LoadLatestVersion())

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("foo"), []byte("bar")))
	require.NoError(t, cache.Set([]byte("gone"), []byte("soon")))
	require.NoError(t, cache.Delete([]byte("gone")))
	require.NoError(t, cache.Write())

	id, err := db.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	// uncommitted data is lost on restart
	require.NoError(t, db.Set([]byte("lost"), []byte("data")))
	require.NoError(t, db.Close())

	db, err = NewCommitStore(dir, "state")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.LoadLatestVersion())
	assert.Equal(t, id, db.LatestVersion())

	val, err := db.Get([]byte("foo"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bar"), val)

	for _, key := range []string{"gone", "lost"} {
		ok, err := db.Has([]byte(key))
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestCommitStoreDiscard(t *testing.T) {
	db := MockCommitStore()
	require.NoError(t, db.LoadLatestVersion())

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("foo"), []byte("bar")))
	cache.Discard()

	ok, err := db.Has([]byte("foo"))
	require.NoError(t, err)
	assert.False(t, ok)
}
