package multisig

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/orm"
)

// ManagementMsg changes the signer set of a wallet when executed as a
// transaction sent to the wallet address. Exactly one field must be set.
type ManagementMsg struct {
	AddSigner    msig.Address
	RemoveSigner msig.Address
	SetThreshold uint32
}

func (m *ManagementMsg) Validate() error {
	var set int
	if len(m.AddSigner) != 0 {
		set++
		if err := m.AddSigner.Validate(); err != nil {
			return errors.Field("AddSigner", err, "")
		}
	}
	if len(m.RemoveSigner) != 0 {
		set++
		if err := m.RemoveSigner.Validate(); err != nil {
			return errors.Field("RemoveSigner", err, "")
		}
	}
	if m.SetThreshold != 0 {
		set++
	}
	if set != 1 {
		return errors.Wrapf(errors.ErrMsg, "exactly one change required, got %d", set)
	}
	return nil
}

// Marshal returns the transaction payload of this message.
func (m *ManagementMsg) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return orm.Marshal(m)
}

// UnmarshalManagementMsg decodes a transaction payload.
func UnmarshalManagementMsg(raw []byte) (*ManagementMsg, error) {
	var m ManagementMsg
	if err := orm.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// AddSignerPayload is a shortcut for a management payload adding a signer.
func AddSignerPayload(signer msig.Address) ([]byte, error) {
	return (&ManagementMsg{AddSigner: signer}).Marshal()
}

// RemoveSignerPayload is a shortcut for a management payload removing a
// signer.
func RemoveSignerPayload(signer msig.Address) ([]byte, error) {
	return (&ManagementMsg{RemoveSigner: signer}).Marshal()
}

// SetThresholdPayload is a shortcut for a management payload changing the
// threshold.
func SetThresholdPayload(threshold uint32) ([]byte, error) {
	return (&ManagementMsg{SetThreshold: threshold}).Marshal()
}

// manage applies a management message as the wallet itself.
func (o *op) manage(actor msig.Address, payload []byte) error {
	m, err := UnmarshalManagementMsg(payload)
	if err != nil {
		return err
	}
	switch {
	case len(m.AddSigner) != 0:
		return o.addSigner(actor, m.AddSigner)
	case len(m.RemoveSigner) != 0:
		return o.removeSigner(actor, m.RemoveSigner)
	default:
		return o.setThreshold(actor, m.SetThreshold)
	}
}
