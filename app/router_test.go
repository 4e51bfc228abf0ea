package app

import (
	"context"
	"testing"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/msigtest"
	"github.com/iov-one/msig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	good := msigtest.SeqCondition(1).Address()
	bad := msigtest.SeqCondition(2).Address()
	missing := msigtest.SeqCondition(3).Address()

	// register some routes
	counter := &msigtest.Destination{}
	r.Handle(good, counter)
	r.Handle(bad, &msigtest.Destination{Err: errors.ErrNetwork})

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle(good, counter) })
	assert.Panics(t, func() { r.Handle(msig.Address("short"), counter) })

	db := store.MemStore()
	ctx := context.Background()
	require.NoError(t, r.Route(good).Execute(ctx, db, msig.Action{Destination: good}))
	assert.Equal(t, 1, counter.CallCount())

	err := r.Route(bad).Execute(ctx, db, msig.Action{Destination: bad})
	assert.True(t, errors.ErrNetwork.Is(err))
	assert.Equal(t, 1, counter.CallCount())

	assert.Nil(t, r.Route(missing))
}

func TestRouterFunc(t *testing.T) {
	r := NewRouter()
	dest := msigtest.SeqCondition(7).Address()

	var got msig.Action
	r.Handle(dest, msig.HandlerFunc(func(ctx context.Context, db msig.KVStore, a msig.Action) error {
		got = a
		return nil
	}))
	action := msig.Action{Wallet: "bank", TxID: 3, Destination: dest, Value: 9}
	require.NoError(t, r.Route(dest).Execute(context.Background(), store.MemStore(), action))
	assert.Equal(t, action, got)
}
