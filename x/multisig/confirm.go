package multisig

import (
	"context"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// Confirm records the caller's confirmation of a pending transaction. If the
// number of confirming current signers reaches the threshold, the
// transaction is executed before Confirm returns. When the execution fails,
// nothing is recorded and an error wrapping ErrExecutionFailed is returned.
func (w *Wallet) Confirm(ctx context.Context, id int64) error {
	return w.lockedUpdate(ctx, func(o *op) error {
		actor, err := w.signer(ctx, o.config)
		if err != nil {
			return err
		}
		tx, err := o.loadTx(id)
		if err != nil {
			return err
		}
		if tx.Executed {
			return errors.Wrapf(ErrAlreadyExecuted, "transaction %d", id)
		}
		if tx.HasConfirmed(actor) {
			return errors.Wrapf(ErrDuplicateConfirmation, "transaction %d by %s", id, actor)
		}
		tx.Confirmations = append(tx.Confirmations, actor)
		o.emit(Event{Kind: TransactionConfirmed, TxID: id, Actor: actor})

		if o.config.countSigners(tx.Confirmations) >= int(o.config.Threshold) {
			if err := w.execute(ctx, o, tx, actor); err != nil {
				return err
			}
		}
		return o.saveTx(tx)
	})
}

// RevokeConfirmation withdraws the caller's confirmation of a pending
// transaction.
func (w *Wallet) RevokeConfirmation(ctx context.Context, id int64) error {
	return w.lockedUpdate(ctx, func(o *op) error {
		actor, err := w.signer(ctx, o.config)
		if err != nil {
			return err
		}
		tx, err := o.loadTx(id)
		if err != nil {
			return err
		}
		if tx.Executed {
			return errors.Wrapf(ErrAlreadyExecuted, "transaction %d", id)
		}
		i := indexOf(tx.Confirmations, actor)
		if i < 0 {
			return errors.Wrapf(ErrNotConfirmed, "transaction %d by %s", id, actor)
		}
		confs := make([]msig.Address, 0, len(tx.Confirmations)-1)
		confs = append(confs, tx.Confirmations[:i]...)
		tx.Confirmations = append(confs, tx.Confirmations[i+1:]...)
		if err := o.saveTx(tx); err != nil {
			return err
		}
		o.emit(Event{Kind: ConfirmationRevoked, TxID: id, Actor: actor})
		return nil
	})
}
