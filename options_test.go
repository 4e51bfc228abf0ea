package msig_test

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptions(t *testing.T) {
	opts := msig.Options{
		"names":  json.RawMessage(`["a", "b"]`),
		"broken": json.RawMessage(`{`),
	}

	var names []string
	require.NoError(t, opts.ReadOptions("names", &names))
	assert.Equal(t, []string{"a", "b"}, names)

	var missing []string
	require.NoError(t, opts.ReadOptions("missing", &missing))
	assert.Nil(t, missing)

	err := opts.ReadOptions("broken", &names)
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)
}

type keyInitializer struct {
	key string
}

func (k keyInitializer) FromGenesis(opts msig.Options, kv msig.KVStore) error {
	var value string
	if err := opts.ReadOptions(k.key, &value); err != nil {
		return err
	}
	if value == "" {
		return errors.Wrapf(errors.ErrEmpty, "key %q", k.key)
	}
	return kv.Set([]byte(k.key), []byte(value))
}

func TestChainInitializers(t *testing.T) {
	opts := msig.Options{
		"first":  json.RawMessage(`"1"`),
		"second": json.RawMessage(`"2"`),
	}

	db := store.MemStore()
	inits := msig.ChainInitializers(keyInitializer{"first"}, keyInitializer{"second"})
	require.NoError(t, inits.FromGenesis(opts, db))
	v, err := db.Get([]byte("second"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)

	// The chain stops at the first failure.
	db = store.MemStore()
	inits = msig.ChainInitializers(keyInitializer{"missing"}, keyInitializer{"first"})
	err = inits.FromGenesis(opts, db)
	assert.True(t, errors.ErrEmpty.Is(err), "%+v", err)
	ok, err := db.Has([]byte("first"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenesisFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "genesis.json")
	g := msig.Genesis{
		ChainID:  "genesis-test",
		AppState: msig.Options{"multisig": json.RawMessage(`[]`)},
	}
	require.NoError(t, g.Save(path))

	loaded, err := msig.LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, g.ChainID, loaded.ChainID)
	assert.JSONEq(t, `[]`, string(loaded.AppState["multisig"]))

	bad := msig.Genesis{ChainID: "x"}
	require.NoError(t, bad.Save(path))
	_, err = msig.LoadGenesis(path)
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)

	_, err = msig.LoadGenesis(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)
}
