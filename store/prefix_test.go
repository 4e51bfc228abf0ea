package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixStore(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a"), []byte("outside")))

	p := NewPrefixStore(db, []byte("dest:"))
	assert.False(t, mustHas(t, p, []byte("a")))

	require.NoError(t, p.Set([]byte("a"), []byte("inside")))
	assert.Equal(t, []byte("inside"), mustGet(t, p, []byte("a")))
	assert.Equal(t, []byte("inside"), mustGet(t, db, []byte("dest:a")))
	assert.Equal(t, []byte("outside"), mustGet(t, db, []byte("a")))

	b := p.NewBatch()
	require.NoError(t, b.Set([]byte("b"), []byte("2")))
	require.NoError(t, b.Delete([]byte("a")))
	assert.False(t, mustHas(t, db, []byte("dest:b")))
	require.NoError(t, b.Write())
	assert.Equal(t, []byte("2"), mustGet(t, db, []byte("dest:b")))
	assert.False(t, mustHas(t, db, []byte("dest:a")))
	assert.Equal(t, []byte("outside"), mustGet(t, db, []byte("a")))
}

func TestPrefixStoreKeysDoNotAlias(t *testing.T) {
	db := MemStore()
	p := NewPrefixStore(db, []byte("abc"))
	require.NoError(t, p.Set([]byte("x"), []byte("1")))
	require.NoError(t, p.Set([]byte("y"), []byte("2")))
	assert.Equal(t, []byte("1"), mustGet(t, db, []byte("abcx")))
	assert.Equal(t, []byte("2"), mustGet(t, db, []byte("abcy")))
}
