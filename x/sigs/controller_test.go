package sigs

import (
	"context"
	"sync"
	"testing"

	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignBytes(t *testing.T) {
	bz := []byte("foobar")
	bz2 := []byte("blast")
	chainID := "test-sign-bytes"

	c1, err := BuildSignBytes(bz, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, bz, c1)

	// make sure sign bytes change on body, chain_id and seq
	ct, err := BuildSignBytes(bz2, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, ct)
	c2, err := BuildSignBytes(bz, chainID+"2", 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
	c3, err := BuildSignBytes(bz, chainID, 18)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c3)

	_, err = BuildSignBytes(bz, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(bz, "no", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	perm := priv.PublicKey().Condition()

	chainID := "emo-music-2345"
	bz := []byte("my special valentine")

	sig0, err := Sign(priv, bz, chainID, 0)
	require.NoError(t, err)
	sig1, err := Sign(priv, bz, chainID, 1)
	require.NoError(t, err)
	sig2, err := Sign(priv, bz, chainID, 2)
	require.NoError(t, err)
	sig13, err := Sign(priv, bz, chainID, 13)
	require.NoError(t, err)

	// signing should be deterministic
	sig2a, err := Sign(priv, bz, chainID, 2)
	require.NoError(t, err)
	assert.Equal(t, sig2, sig2a)

	// the first one must start with zero
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	_, err = VerifySignature(kv, &StdSignature{}, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = VerifySignature(kv, nil, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	sign, err := VerifySignature(kv, sig0, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, perm, sign)
	sign, err = VerifySignature(kv, sig1, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, perm, sign)

	// jumping and replays are a no-no
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = VerifySignature(kv, sig13, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// different chain or body doesn't match
	_, err = VerifySignature(kv, sig2, bz, "metal-chain")
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = VerifySignature(kv, sig2, []byte("other"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	n, err := NextNonce(kv, perm.Address())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestVerifierAuthenticates(t *testing.T) {
	v := NewVerifier(store.NewSynced(store.MemStore()), "verifier-chain")
	priv := crypto.GenPrivKeyEd25519()
	body := []byte(`{"threshold":2}`)

	var auth Authenticate
	assert.Empty(t, auth.GetConditions(context.Background()))

	sig, err := Sign(priv, body, v.ChainID(), 0)
	require.NoError(t, err)
	ctx, err := v.Verify(context.Background(), body, sig)
	require.NoError(t, err)
	assert.True(t, auth.HasAddress(ctx, priv.PublicKey().Address()))
	assert.False(t, auth.HasAddress(ctx, crypto.GenPrivKeyEd25519().PublicKey().Address()))

	n, err := v.NextNonce(priv.PublicKey().Address())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestVerifierRejectsConcurrentReplay(t *testing.T) {
	v := NewVerifier(store.NewSynced(store.MemStore()), "verifier-chain")
	priv := crypto.GenPrivKeyEd25519()
	body := []byte("transfer")
	sig, err := Sign(priv, body, v.ChainID(), 0)
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		passed int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := v.Verify(context.Background(), body, sig); err == nil {
				mu.Lock()
				passed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, passed)
}

func TestVerifierSignAndVerify(t *testing.T) {
	v := NewVerifier(store.NewSynced(store.MemStore()), "verifier-chain")
	priv := crypto.GenPrivKeyEd25519()
	addr := priv.PublicKey().Address()

	var auth Authenticate
	for i := 0; i < 3; i++ {
		ctx, err := v.SignAndVerify(context.Background(), priv, []byte("confirm"))
		require.NoError(t, err)
		assert.True(t, auth.HasAddress(ctx, addr))
	}
	n, err := v.NextNonce(addr)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
