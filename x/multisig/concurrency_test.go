package multisig

import (
	"context"
	"sync"
	"testing"

	"github.com/iov-one/msig/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxBackground() context.Context {
	return context.Background()
}

func TestConcurrentConfirmationsExecuteOnce(t *testing.T) {
	const signers = 7
	f := newFixture(t, signers, 3, SignerSetPolicy)

	ids := make([]int64, 10)
	for i := range ids {
		ids[i] = f.propose(t, 1, "parallel")
	}

	var wg sync.WaitGroup
	for n := 1; n <= signers; n++ {
		for _, id := range ids {
			wg.Add(1)
			go func(n int, id int64) {
				defer wg.Done()
				err := f.wallet.Confirm(f.as(n), id)
				if err != nil && !ErrAlreadyExecuted.Is(err) {
					t.Errorf("signer %d, tx %d: %+v", n, id, err)
				}
			}(n, id)
		}
	}
	wg.Wait()

	assert.Len(t, f.dest.Executed(), len(ids))
	for _, id := range ids {
		tx := f.tx(t, id)
		require.True(t, tx.Executed)
		// Confirmations stop being accepted once executed.
		assert.Len(t, tx.Confirmations, 3)
	}
}

func TestConcurrentProposalsGetUniqueIDs(t *testing.T) {
	f := newFixture(t, 4, 2, SignerSetPolicy)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]bool)
	)
	for n := 1; n <= 4; n++ {
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				id, err := f.wallet.Propose(f.as(n), f.destAddr, nil, 0)
				if err != nil {
					t.Errorf("propose: %+v", err)
					return
				}
				mu.Lock()
				ids[id] = true
				mu.Unlock()
			}(n)
		}
	}
	wg.Wait()

	assert.Len(t, ids, 100)
	for id := int64(0); id < 100; id++ {
		assert.True(t, ids[id], "missing id %d", id)
	}
}

func TestWalletsShareStore(t *testing.T) {
	f := newFixture(t, 2, 1, SignerSetPolicy)
	c, err := f.wallet.Config()
	require.NoError(t, err)
	c.Name = "reserve"
	require.NoError(t, CreateWallet(f.db, c))

	other, err := Open(f.db, "reserve", f.auth, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, w := range []*Wallet{f.wallet, other} {
		wg.Add(1)
		go func(w *Wallet) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if _, err := w.Propose(f.as(1), f.destAddr, nil, 0); err != nil {
					t.Errorf("propose: %+v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	for _, w := range []*Wallet{f.wallet, other} {
		n, err := w.TransactionCount()
		require.NoError(t, err)
		assert.EqualValues(t, 20, n, w.Name())
	}
	err = CreateWallet(f.db, c)
	assert.True(t, errors.ErrDuplicate.Is(err))
}
