package orm

import (
	"github.com/iov-one/msig/errors"
	amino "github.com/tendermint/go-amino"
)

// schemaV1 is the first byte of every serialized model.
const schemaV1 byte = 1

// Codec serializes models. Concrete types that are stored behind an
// interface must be registered before use.
var Codec = amino.NewCodec()

// Marshal serializes given model using the amino binary encoding.
func Marshal(m interface{}) ([]byte, error) {
	raw, err := Codec.MarshalBinaryBare(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot serialize %T: %s", m, err)
	}
	return append([]byte{schemaV1}, raw...), nil
}

// Unmarshal loads serialized data into given destination. Destination must
// be a pointer.
func Unmarshal(raw []byte, dest interface{}) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no data")
	}
	if raw[0] != schemaV1 {
		return errors.Wrapf(errors.ErrModel, "unknown schema version %d", raw[0])
	}
	if err := Codec.UnmarshalBinaryBare(raw[1:], dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot deserialize %T: %s", dest, err)
	}
	return nil
}
