package multisig

import (
	"context"

	"github.com/iov-one/msig"
)

// AuthenticateFunc returns a context that authenticates the identity the
// auto confirmer acts as. It is called once per confirmation.
type AuthenticateFunc func(ctx context.Context, w *Wallet, txID int64) (context.Context, error)

// AutoConfirmer confirms every transaction proposed to a wallet on behalf of
// a single signer.
type AutoConfirmer struct {
	wallet       *Wallet
	authenticate AuthenticateFunc
	sub          *Subscription
}

// NewAutoConfirmer returns a confirmer for given wallet. Events are
// collected from now on. Call Run to process them.
func NewAutoConfirmer(w *Wallet, authenticate AuthenticateFunc) *AutoConfirmer {
	return &AutoConfirmer{
		wallet:       w,
		authenticate: authenticate,
		sub:          w.Subscribe(),
	}
}

// Run confirms proposals until the context is cancelled. Failures are
// logged and never retried. Run must be called at most once.
func (a *AutoConfirmer) Run(ctx context.Context) error {
	sub := a.sub
	defer sub.Close()

	logger := msig.GetLogger(ctx).With("wallet", a.wallet.Name(), "service", "autoconfirm")
	logger.Info("auto confirm started")
	for {
		select {
		case <-ctx.Done():
			logger.Info("auto confirm stopped")
			return ctx.Err()
		case e, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if e.Kind != TransactionProposed {
				continue
			}
			actx, err := a.authenticate(ctx, a.wallet, e.TxID)
			if err != nil {
				logger.Error("cannot authenticate", "tx", e.TxID, "err", err)
				continue
			}
			if err := a.wallet.Confirm(actx, e.TxID); err != nil {
				logger.Error("cannot confirm", "tx", e.TxID, "err", err)
				continue
			}
			logger.Info("transaction confirmed", "tx", e.TxID)
		}
	}
}
