package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/msig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	s1 := NewSequence("wallet", "tx")
	s2 := NewSequence("wallet", "other")
	same := NewSequence("wallet", "tx")

	latest, err := s1.Latest(db)
	require.NoError(t, err)
	assert.EqualValues(t, 0, latest)

	first, err := s1.NextVal(db)
	require.NoError(t, err)
	assert.Equal(t, EncodeSequence(1), first)

	second, err := same.NextVal(db)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Compare(second, first))

	n, err := s1.NextInt(db)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	// independent counter
	n, err = s2.NextInt(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	latest, err = s1.Latest(db)
	require.NoError(t, err)
	assert.EqualValues(t, 3, latest)
}

func TestSequenceEncoding(t *testing.T) {
	cases := []int64{0, 1, 255, 256, 1 << 40}
	for _, v := range cases {
		assert.Equal(t, v, DecodeSequence(EncodeSequence(v)))
	}
	assert.EqualValues(t, 0, DecodeSequence(nil))
	assert.Equal(t, -1, bytes.Compare(EncodeSequence(255), EncodeSequence(256)))
}
