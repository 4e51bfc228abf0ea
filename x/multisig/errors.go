package multisig

import "github.com/iov-one/msig/errors"

// multisig takes 1090-1099
var (
	ErrUnknownSigner         = errors.Register(1090, "unknown signer")
	ErrDuplicateSigner       = errors.Register(1091, "duplicate signer")
	ErrThresholdViolation    = errors.Register(1092, "threshold violation")
	ErrUnknownTransaction    = errors.Register(1093, "unknown transaction")
	ErrDuplicateConfirmation = errors.Register(1094, "duplicate confirmation")
	ErrAlreadyExecuted       = errors.Register(1095, "transaction already executed")
	ErrExecutionFailed       = errors.Register(1096, "execution failed")
	ErrNotConfirmed          = errors.Register(1097, "transaction not confirmed by signer")
	ErrUnknownWallet         = errors.Register(1098, "unknown wallet")
)
