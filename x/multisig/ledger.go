package multisig

import (
	"context"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// Propose stores a new pending transaction and returns its id. Only a
// current signer can propose. Ids are allocated in order starting with zero.
// An id is consumed even if storing the transaction fails afterwards, so ids
// are never handed out twice.
func (w *Wallet) Propose(ctx context.Context, dest msig.Address, payload []byte, value uint64) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var (
		id    int64
		actor msig.Address
	)
	err := w.update(ctx, func(o *op) error {
		var err error
		if actor, err = w.signer(ctx, o.config); err != nil {
			return err
		}
		if err := dest.Validate(); err != nil {
			return errors.Wrap(err, "destination")
		}
		if dest.Equals(w.address) && o.config.Policy != SignerSetPolicy {
			return errors.Wrap(errors.ErrUnauthorized, "wallet is managed by its owner")
		}
		seq := txSequence(w.name)
		n, err := seq.NextInt(o.db)
		if err != nil {
			return errors.Wrap(err, "cannot allocate transaction id")
		}
		id = n - 1
		return nil
	})
	if err != nil {
		return 0, err
	}

	err = w.update(ctx, func(o *op) error {
		tx := &Transaction{
			ID:          id,
			Destination: dest,
			Value:       value,
			Payload:     payload,
			Proposer:    actor,
		}
		if err := o.saveTx(tx); err != nil {
			return err
		}
		o.emit(Event{Kind: TransactionProposed, TxID: id, Actor: actor})
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "transaction %d", id)
	}
	msig.GetLogger(ctx).Info("transaction proposed",
		"wallet", w.name, "tx", id, "actor", actor, "destination", dest)
	return id, nil
}

// Transaction returns the transaction with given id.
func (w *Wallet) Transaction(id int64) (*Transaction, error) {
	var tx *Transaction
	err := w.view(func(db msig.ReadOnlyKVStore, c *Config) error {
		var err error
		tx, err = loadTx(db, w.name, id)
		return err
	})
	return tx, err
}

// TransactionCount returns the number of allocated transaction ids. Ids
// range from zero to count - 1.
func (w *Wallet) TransactionCount() (int64, error) {
	var n int64
	err := w.view(func(db msig.ReadOnlyKVStore, c *Config) error {
		seq := txSequence(w.name)
		var err error
		n, err = seq.Latest(db)
		return err
	})
	return n, err
}

// Confirmations returns the number of confirmations of given transaction
// that are counted towards the threshold, together with the threshold.
func (w *Wallet) Confirmations(id int64) (confirmed int, threshold uint32, err error) {
	err = w.view(func(db msig.ReadOnlyKVStore, c *Config) error {
		tx, err := loadTx(db, w.name, id)
		if err != nil {
			return err
		}
		confirmed = c.countSigners(tx.Confirmations)
		threshold = c.Threshold
		return nil
	})
	return confirmed, threshold, err
}
