package sigs

import "github.com/iov-one/msig/errors"

var (
	// ErrInvalidSequence is returned when a signature sequence does not
	// match the next expected value for that key.
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
