package sigs

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the javascript client. The greatest
// supported nonce value is
//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

// UserData stores the public key and the next expected sequence of a signer.
type UserData struct {
	Pubkey   []byte
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	if seq := u.Sequence; seq < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	} else if seq > 0 && len(u.Pubkey) == 0 {
		errs = errors.Append(errs, errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey"))
	}
	return errs
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

var users = orm.NewModelBucket(BucketName)

// loadUser returns the signer state for given address. Unknown signers start
// with sequence zero.
func loadUser(db msig.ReadOnlyKVStore, addr msig.Address) (*UserData, error) {
	var u UserData
	switch err := users.One(db, addr, &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{}, nil
	default:
		return nil, err
	}
}

// NextNonce returns the sequence value that should be used for the next
// signature of given signer.
func NextNonce(db msig.ReadOnlyKVStore, signer msig.Address) (int64, error) {
	u, err := loadUser(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "load user")
	}
	return u.Sequence, nil
}
