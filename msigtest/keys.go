package msigtest

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns a condition of a new random key.
func NewCondition() msig.Condition {
	return NewKey().PublicKey().Condition()
}

// SeedKey returns a private key derived from given number. The same number
// always produces the same key.
func SeedKey(n byte) *crypto.PrivateKey {
	seed := make([]byte, 32)
	seed[31] = n
	return crypto.PrivKeyEd25519FromSeed(seed)
}

// SeqCondition returns a condition that is the same for the same number.
func SeqCondition(n byte) msig.Condition {
	return msig.NewCondition("test", "seq", []byte{n})
}
