package sigs

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/binary"
	"sync"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// StdSignature is a signature of a request body.
type StdSignature struct {
	Pubkey    *crypto.PublicKey `json:"pubkey"`
	Sequence  int64             `json:"sequence"`
	Signature []byte            `json:"signature"`
}

// Validate ensures the signature is complete.
func (s *StdSignature) Validate() error {
	if s == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	var errs error
	if s.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	if s.Pubkey == nil {
		errs = errors.Append(errs, errors.Field("Pubkey", errors.ErrUnauthorized, "missing public key"))
	} else if err := s.Pubkey.Validate(); err != nil {
		errs = errors.AppendField(errs, "Pubkey", err)
	}
	if len(s.Signature) == 0 {
		errs = errors.Append(errs, errors.Field("Signature", errors.ErrUnauthorized, "missing signature"))
	}
	return errs
}

/*
BuildSignBytes combines the request body with the chain id and the sequence
using the following format:

version | len(chainID) | chainID      | nonce             | body
4bytes  | uint8        | ascii string | int64 (bigendian) | raw request body

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(body []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !msig.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	output := make([]byte, 0, 4+1+len(chainID)+8+len(body))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, nonce...)
	output = append(output, body...)

	// constant length input for eddsa
	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// Sign creates a signature of given body.
func Sign(key *crypto.PrivateKey, body []byte, chainID string, seq int64) (*StdSignature, error) {
	toSign, err := BuildSignBytes(body, chainID, seq)
	if err != nil {
		return nil, err
	}
	raw, err := key.Sign(toSign)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    key.PublicKey(),
		Sequence:  seq,
		Signature: raw,
	}, nil
}

// VerifySignature checks one signature against the body and updates the
// signer sequence in the store. It returns the condition of the signer.
func VerifySignature(db msig.KVStore, sig *StdSignature, body []byte, chainID string) (msig.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	addr := sig.Pubkey.Address()
	user, err := loadUser(db, addr)
	if err != nil {
		return nil, err
	}
	if len(user.Pubkey) != 0 && !bytes.Equal(user.Pubkey, sig.Pubkey.Ed25519) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "public key mismatch")
	}

	toSign, err := BuildSignBytes(body, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	user.Pubkey = sig.Pubkey.Ed25519
	if err := users.Put(db, addr, user); err != nil {
		return nil, errors.Wrap(err, "cannot save user")
	}
	return sig.Pubkey.Condition(), nil
}

// Verifier authenticates signed requests against a store shared by request
// handlers. Verification of one signature is serialized so that two requests
// with the same sequence cannot both pass.
type Verifier struct {
	mu      sync.Mutex
	db      msig.CacheableKVStore
	chainID string
}

// NewVerifier returns a verifier that keeps the signer sequences in given
// store.
func NewVerifier(db msig.CacheableKVStore, chainID string) *Verifier {
	return &Verifier{db: db, chainID: chainID}
}

// ChainID returns the chain id that all signatures must be made for.
func (v *Verifier) ChainID() string {
	return v.chainID
}

// Verify checks the signature and returns a context that authenticates the
// signer. Sequence change is persisted before returning.
func (v *Verifier) Verify(ctx context.Context, body []byte, sig *StdSignature) (context.Context, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.verify(ctx, body, sig)
}

// SignAndVerify signs body with given key using the next sequence of that
// key and verifies it. It is used by services that act on their own behalf.
func (v *Verifier) SignAndVerify(ctx context.Context, key *crypto.PrivateKey, body []byte) (context.Context, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	seq, err := NextNonce(v.db, key.PublicKey().Address())
	if err != nil {
		return ctx, err
	}
	sig, err := Sign(key, body, v.chainID, seq)
	if err != nil {
		return ctx, err
	}
	return v.verify(ctx, body, sig)
}

func (v *Verifier) verify(ctx context.Context, body []byte, sig *StdSignature) (context.Context, error) {
	cache := v.db.CacheWrap()
	cond, err := VerifySignature(cache, sig, body, v.chainID)
	if err != nil {
		cache.Discard()
		return ctx, err
	}
	if err := cache.Write(); err != nil {
		return ctx, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if c, ok := v.db.(msig.CommitKVStore); ok {
		if _, err := c.Commit(); err != nil {
			return ctx, err
		}
	}
	return withSigners(ctx, []msig.Condition{cond}), nil
}

// NextNonce returns the sequence that given signer should use next.
func (v *Verifier) NextNonce(addr msig.Address) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return NextNonce(v.db, addr)
}
