package multisig

import (
	"context"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// AddSigner adds a principal to the signer set.
func (w *Wallet) AddSigner(ctx context.Context, signer msig.Address) error {
	return w.lockedUpdate(ctx, func(o *op) error {
		actor, err := w.admin(ctx, o.config)
		if err != nil {
			return err
		}
		return o.addSigner(actor, signer)
	})
}

// RemoveSigner removes a principal from the signer set. Removal is rejected
// if the remaining set would be smaller than the threshold.
func (w *Wallet) RemoveSigner(ctx context.Context, signer msig.Address) error {
	return w.lockedUpdate(ctx, func(o *op) error {
		actor, err := w.admin(ctx, o.config)
		if err != nil {
			return err
		}
		return o.removeSigner(actor, signer)
	})
}

// SetThreshold changes the number of confirmations required to execute a
// transaction. Pending transactions are not re-evaluated.
func (w *Wallet) SetThreshold(ctx context.Context, threshold uint32) error {
	return w.lockedUpdate(ctx, func(o *op) error {
		actor, err := w.admin(ctx, o.config)
		if err != nil {
			return err
		}
		return o.setThreshold(actor, threshold)
	})
}

// TransferOwnership hands the management of an owner policy wallet to
// another address.
func (w *Wallet) TransferOwnership(ctx context.Context, owner msig.Address) error {
	return w.lockedUpdate(ctx, func(o *op) error {
		actor, err := w.admin(ctx, o.config)
		if err != nil {
			return err
		}
		if err := owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
		o.config.Owner = owner
		if err := o.saveConfig(); err != nil {
			return err
		}
		o.emit(Event{Kind: OwnerChanged, Actor: actor, Subject: owner})
		return nil
	})
}

func (o *op) addSigner(actor, signer msig.Address) error {
	if err := signer.Validate(); err != nil {
		return errors.Wrap(err, "signer")
	}
	if o.config.IsSigner(signer) {
		return errors.Wrapf(ErrDuplicateSigner, "%s", signer)
	}
	if len(o.config.Signers) >= maxSigners {
		return errors.Wrap(errors.ErrInput, "too many signers")
	}
	o.config.Signers = append(o.config.Signers, signer)
	if err := o.saveConfig(); err != nil {
		return err
	}
	o.emit(Event{Kind: SignerAdded, Actor: actor, Subject: signer})
	return nil
}

func (o *op) removeSigner(actor, signer msig.Address) error {
	i := indexOf(o.config.Signers, signer)
	if i < 0 {
		return errors.Wrapf(ErrUnknownSigner, "%s", signer)
	}
	if left := len(o.config.Signers) - 1; left < int(o.config.Threshold) {
		return errors.Wrapf(ErrThresholdViolation,
			"%d signers left for threshold %d", left, o.config.Threshold)
	}
	signers := make([]msig.Address, 0, len(o.config.Signers)-1)
	signers = append(signers, o.config.Signers[:i]...)
	o.config.Signers = append(signers, o.config.Signers[i+1:]...)
	if err := o.saveConfig(); err != nil {
		return err
	}
	o.emit(Event{Kind: SignerRemoved, Actor: actor, Subject: signer})
	return nil
}

func (o *op) setThreshold(actor msig.Address, threshold uint32) error {
	if threshold < 1 || int(threshold) > len(o.config.Signers) {
		return errors.Wrapf(ErrThresholdViolation,
			"threshold %d must be between 1 and %d", threshold, len(o.config.Signers))
	}
	o.config.Threshold = threshold
	if err := o.saveConfig(); err != nil {
		return err
	}
	o.emit(Event{Kind: ThresholdChanged, Actor: actor, Threshold: threshold})
	return nil
}

// Config returns the current wallet configuration.
func (w *Wallet) Config() (*Config, error) {
	var res *Config
	err := w.view(func(db msig.ReadOnlyKVStore, c *Config) error {
		res = c
		return nil
	})
	return res, err
}

// IsSigner returns true if given address is a current signer.
func (w *Wallet) IsSigner(addr msig.Address) (bool, error) {
	c, err := w.Config()
	if err != nil {
		return false, err
	}
	return c.IsSigner(addr), nil
}

// Threshold returns the number of confirmations required for execution.
func (w *Wallet) Threshold() (uint32, error) {
	c, err := w.Config()
	if err != nil {
		return 0, err
	}
	return c.Threshold, nil
}

// SignerCount returns the size of the signer set.
func (w *Wallet) SignerCount() (int, error) {
	c, err := w.Config()
	if err != nil {
		return 0, err
	}
	return len(c.Signers), nil
}

// Signers returns the current signer set in the order signers were added.
func (w *Wallet) Signers() ([]msig.Address, error) {
	c, err := w.Config()
	if err != nil {
		return nil, err
	}
	return c.Signers, nil
}

// Owner returns the owner of an owner policy wallet, or nil.
func (w *Wallet) Owner() (msig.Address, error) {
	c, err := w.Config()
	if err != nil {
		return nil, err
	}
	return c.Owner, nil
}
