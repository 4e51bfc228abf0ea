package multisig

import (
	"context"
	"sync"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// Wallet is a single multisig wallet instance. All methods are safe for
// concurrent use. Operations on one wallet are serialized.
type Wallet struct {
	mu        sync.Mutex
	name      string
	address   msig.Address
	db        msig.CacheableKVStore
	auth      msig.Authenticator
	router    msig.Router
	observers []Observer
}

// Open returns a handle to an existing wallet. Wallets sharing a store must
// be given a store that is safe for concurrent use, for example store.Synced.
// Router may be nil if the wallet only executes management transactions.
func Open(db msig.CacheableKVStore, name string, auth msig.Authenticator, router msig.Router) (*Wallet, error) {
	if _, err := LoadConfig(db, name); err != nil {
		return nil, err
	}
	return &Wallet{
		name:    name,
		address: WalletAddress(name),
		db:      db,
		auth:    auth,
		router:  router,
	}, nil
}

// Name returns the wallet name.
func (w *Wallet) Name() string {
	return w.name
}

// Address returns the wallet address, which is the destination of
// management transactions.
func (w *Wallet) Address() msig.Address {
	return w.address
}

// Observe registers an observer that is notified about all following
// events.
func (w *Wallet) Observe(o Observer) {
	w.mu.Lock()
	w.observers = append(w.observers, o)
	w.mu.Unlock()
}

// Subscribe returns a new subscription registered with this wallet.
func (w *Wallet) Subscribe() *Subscription {
	s := NewSubscription()
	w.Observe(s)
	return s
}

// op is the state of a single wallet operation. All writes go to a
// savepoint, and events are published only if the savepoint was written.
type op struct {
	wallet string
	db     msig.KVStore
	config *Config
	events []Event
}

func (o *op) emit(e Event) {
	e.Wallet = o.wallet
	o.events = append(o.events, e)
}

func (o *op) saveConfig() error {
	return configs.Put(o.db, []byte(o.wallet), o.config)
}

func (o *op) loadTx(id int64) (*Transaction, error) {
	return loadTx(o.db, o.wallet, id)
}

func loadTx(db msig.ReadOnlyKVStore, wallet string, id int64) (*Transaction, error) {
	if id < 0 {
		return nil, errors.Wrapf(ErrUnknownTransaction, "id %d", id)
	}
	var tx Transaction
	switch err := transactions.One(db, txKey(wallet, id), &tx); {
	case err == nil:
		return &tx, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrUnknownTransaction, "id %d", id)
	default:
		return nil, err
	}
}

func (o *op) saveTx(tx *Transaction) error {
	return transactions.Put(o.db, txKey(o.wallet, tx.ID), tx)
}

// update runs fn inside a savepoint. The savepoint is written and committed
// only if fn succeeds. The caller must hold the wallet lock.
func (w *Wallet) update(ctx context.Context, fn func(*op) error) error {
	cache := w.db.CacheWrap()
	c, err := LoadConfig(cache, w.name)
	if err != nil {
		cache.Discard()
		return err
	}
	o := &op{wallet: w.name, db: cache, config: c}
	if err := fn(o); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "cannot write savepoint")
	}
	if cs, ok := w.db.(msig.CommitKVStore); ok {
		if _, err := cs.Commit(); err != nil {
			return errors.Wrap(err, "cannot commit")
		}
	}
	for _, e := range o.events {
		for _, obs := range w.observers {
			obs.Notify(e)
		}
	}
	return nil
}

// lockedUpdate is update guarded by the wallet lock.
func (w *Wallet) lockedUpdate(ctx context.Context, fn func(*op) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.update(ctx, fn)
}

// view runs fn with the current configuration and store, without writing.
func (w *Wallet) view(fn func(db msig.ReadOnlyKVStore, c *Config) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, err := LoadConfig(w.db, w.name)
	if err != nil {
		return err
	}
	return fn(w.db, c)
}

// signer returns the first authenticated address that belongs to a current
// signer of the wallet.
func (w *Wallet) signer(ctx context.Context, c *Config) (msig.Address, error) {
	if w.auth == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no authenticator")
	}
	for _, a := range msig.GetAddresses(ctx, w.auth) {
		if c.IsSigner(a) {
			return a, nil
		}
	}
	return nil, errors.Wrap(errors.ErrUnauthorized, "signer required")
}

// admin ensures the caller may manage the wallet directly and returns its
// address.
func (w *Wallet) admin(ctx context.Context, c *Config) (msig.Address, error) {
	if c.Policy != OwnerPolicy {
		return nil, errors.Wrapf(errors.ErrUnauthorized,
			"signer set policy: propose a management transaction to %s", w.address)
	}
	if w.auth == nil || !w.auth.HasAddress(ctx, c.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	return c.Owner, nil
}
