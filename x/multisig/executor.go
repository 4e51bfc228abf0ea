package multisig

import (
	"context"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/store"
)

// execute performs the action of an approved transaction and marks it
// executed. It is reachable only from Confirm, inside the same savepoint,
// so a failure reverts the confirmation that triggered it.
func (w *Wallet) execute(ctx context.Context, o *op, tx *Transaction, actor msig.Address) error {
	logger := msig.GetLogger(ctx).With("wallet", w.name, "tx", tx.ID, "actor", actor)

	if err := w.dispatch(ctx, o, tx); err != nil {
		logger.Error("transaction execution failed", "destination", tx.Destination, "err", err)
		return errors.Wrapf(ErrExecutionFailed, "transaction %d: %s", tx.ID, err)
	}
	tx.Executed = true
	o.emit(Event{Kind: TransactionExecuted, TxID: tx.ID, Actor: actor})
	logger.Info("transaction executed", "destination", tx.Destination, "value", tx.Value)
	return nil
}

func (w *Wallet) dispatch(ctx context.Context, o *op, tx *Transaction) (err error) {
	defer errors.Recover(&err)

	if tx.Destination.Equals(w.address) {
		if o.config.Policy != SignerSetPolicy {
			return errors.Wrap(errors.ErrUnauthorized, "wallet is managed by its owner")
		}
		return o.manage(w.address, tx.Payload)
	}
	var h msig.Handler
	if w.router != nil {
		h = w.router.Route(tx.Destination)
	}
	if h == nil {
		return errors.Wrapf(errors.ErrNotFound, "no handler for destination %s", tx.Destination)
	}
	return h.Execute(ctx, DestinationStore(o.db, tx.Destination), msig.Action{
		Wallet:      w.name,
		TxID:        tx.ID,
		Destination: tx.Destination,
		Value:       tx.Value,
		Payload:     tx.Payload,
	})
}

// DestinationStore returns the part of db a destination handler may write
// to. Each destination address gets its own key space, disjoint from the
// wallet records.
func DestinationStore(db msig.KVStore, dest msig.Address) msig.KVStore {
	prefix := append([]byte("dest:"), dest...)
	return store.NewPrefixStore(db, append(prefix, ':'))
}
