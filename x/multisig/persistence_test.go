package multisig

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/msigtest"
	"github.com/iov-one/msig/store"
	"github.com/iov-one/msig/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletSurvivesRestart(t *testing.T) {
	dir, err := ioutil.TempDir("", "multisig-persistence")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	auth := &msigtest.CtxAuth{Key: "auth"}
	s1, s2 := msigtest.SeqCondition(1), msigtest.SeqCondition(2)
	destAddr := msigtest.SeqCondition(100).Address()
	dest := &msigtest.Destination{}
	router := msigtest.Router{}.Add(destAddr, dest)

	open := func() (*iavl.CommitStore, *Wallet) {
		cs, err := iavl.NewCommitStore(dir, "state")
		require.NoError(t, err)
		require.NoError(t, cs.LoadLatestVersion())
		db := store.NewSynced(cs)
		if _, err := LoadConfig(db, "vault"); err != nil {
			c := Config{
				Name:      "vault",
				Signers:   []msig.Address{s1.Address(), s2.Address()},
				Threshold: 2,
				Policy:    SignerSetPolicy,
			}
			require.NoError(t, CreateWallet(db, &c))
			_, err := db.Commit()
			require.NoError(t, err)
		}
		w, err := Open(db, "vault", auth, router)
		require.NoError(t, err)
		return cs, w
	}

	cs, w := open()
	id, err := w.Propose(auth.SetConditions(ctxBackground(), s1), destAddr, []byte("durable"), 5)
	require.NoError(t, err)
	require.NoError(t, w.Confirm(auth.SetConditions(ctxBackground(), s1), id))
	require.NoError(t, cs.Close())

	cs, w = open()
	tx, err := w.Transaction(id)
	require.NoError(t, err)
	assert.False(t, tx.Executed)
	assert.Len(t, tx.Confirmations, 1)
	n, err := w.TransactionCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, w.Confirm(auth.SetConditions(ctxBackground(), s2), id))
	require.NoError(t, cs.Close())

	cs, w = open()
	defer cs.Close()
	tx, err = w.Transaction(id)
	require.NoError(t, err)
	assert.True(t, tx.Executed)
	assert.Len(t, dest.Executed(), 1)

	// Ids continue after a restart.
	next, err := w.Propose(auth.SetConditions(ctxBackground(), s2), destAddr, nil, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, next)
}
