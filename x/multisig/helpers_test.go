package multisig

import (
	"context"
	"testing"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/msigtest"
	"github.com/iov-one/msig/store"
	"github.com/stretchr/testify/require"
)

// fixture is a wallet backed by an in memory store with deterministic
// signers and a recording destination.
type fixture struct {
	db       *store.Synced
	auth     *msigtest.CtxAuth
	signers  []msig.Condition
	owner    msig.Condition
	dest     *msigtest.Destination
	destAddr msig.Address
	wallet   *Wallet
}

func newFixture(t testing.TB, signers int, threshold uint32, policy string) *fixture {
	t.Helper()

	f := &fixture{
		db:       store.NewSynced(store.MemStore()),
		auth:     &msigtest.CtxAuth{Key: "auth"},
		owner:    msigtest.SeqCondition(200),
		dest:     &msigtest.Destination{Key: []byte("destination")},
		destAddr: msigtest.SeqCondition(100).Address(),
	}
	c := Config{
		Name:      "treasury",
		Threshold: threshold,
		Policy:    policy,
	}
	for i := 0; i < signers; i++ {
		cond := msigtest.SeqCondition(byte(i + 1))
		f.signers = append(f.signers, cond)
		c.Signers = append(c.Signers, cond.Address())
	}
	if policy == OwnerPolicy {
		c.Owner = f.owner.Address()
	}
	require.NoError(t, CreateWallet(f.db, &c))

	router := msigtest.Router{}.Add(f.destAddr, f.dest)
	w, err := Open(f.db, c.Name, f.auth, router)
	require.NoError(t, err)
	f.wallet = w
	return f
}

// as returns a context authenticated as the n-th signer, counting from one.
func (f *fixture) as(n int) context.Context {
	return f.auth.SetConditions(context.Background(), f.signers[n-1])
}

func (f *fixture) asOwner() context.Context {
	return f.auth.SetConditions(context.Background(), f.owner)
}

func (f *fixture) propose(t testing.TB, n int, payload string) int64 {
	t.Helper()
	id, err := f.wallet.Propose(f.as(n), f.destAddr, []byte(payload), 10)
	require.NoError(t, err)
	return id
}

func (f *fixture) tx(t testing.TB, id int64) *Transaction {
	t.Helper()
	tx, err := f.wallet.Transaction(id)
	require.NoError(t, err)
	return tx
}
