package multisig

import (
	"regexp"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/orm"
)

// Admin policies decide who can change the signer set of a wallet.
const (
	// OwnerPolicy allows a single owner address to manage the wallet.
	OwnerPolicy = "owner"
	// SignerSetPolicy requires management to be approved by the signers
	// as a transaction sent to the wallet address.
	SignerSetPolicy = "signers"
)

const (
	// MaxPayloadSize is the greatest transaction payload accepted.
	MaxPayloadSize = 64 * 1024

	maxSigners = 128
)

var isWalletName = regexp.MustCompile(`^[a-z0-9_\-]{3,32}$`).MatchString

// WalletAddress returns the address of a wallet with given name. A
// transaction with this destination carries a management message.
func WalletAddress(name string) msig.Address {
	return msig.NewCondition("multisig", "wallet", []byte(name)).Address()
}

// Config is the signer set of a wallet together with its threshold and
// admin policy.
type Config struct {
	Name      string
	Signers   []msig.Address
	Threshold uint32
	Policy    string
	Owner     msig.Address
}

var _ orm.Model = (*Config)(nil)

func (c *Config) Validate() error {
	var errs error
	if !isWalletName(c.Name) {
		errs = errors.Append(errs, errors.Field("Name", errors.ErrInput, "invalid wallet name %q", c.Name))
	}
	switch n := len(c.Signers); {
	case n == 0:
		errs = errors.Append(errs, errors.Field("Signers", errors.ErrEmpty, "at least one signer required"))
	case n > maxSigners:
		errs = errors.Append(errs, errors.Field("Signers", errors.ErrInput, "too many signers"))
	}
	for i, s := range c.Signers {
		if err := s.Validate(); err != nil {
			errs = errors.AppendField(errs, "Signers", errors.Wrapf(err, "signer %d", i))
			continue
		}
		for _, prev := range c.Signers[:i] {
			if prev.Equals(s) {
				errs = errors.AppendField(errs, "Signers", errors.Wrapf(ErrDuplicateSigner, "signer %d", i))
				break
			}
		}
	}
	if c.Threshold < 1 || int(c.Threshold) > len(c.Signers) {
		errs = errors.Append(errs, errors.Field("Threshold", ErrThresholdViolation,
			"threshold %d must be between 1 and %d", c.Threshold, len(c.Signers)))
	}
	switch c.Policy {
	case OwnerPolicy:
		if err := c.Owner.Validate(); err != nil {
			errs = errors.AppendField(errs, "Owner", err)
		}
	case SignerSetPolicy:
		if len(c.Owner) != 0 {
			errs = errors.Append(errs, errors.Field("Owner", errors.ErrInput, "signer set policy wallet has no owner"))
		}
	default:
		errs = errors.Append(errs, errors.Field("Policy", errors.ErrInput, "unknown policy %q", c.Policy))
	}
	return errs
}

// IsSigner returns true if given address belongs to the signer set.
func (c *Config) IsSigner(addr msig.Address) bool {
	return indexOf(c.Signers, addr) >= 0
}

// countSigners returns how many of given addresses are current signers.
func (c *Config) countSigners(addrs []msig.Address) int {
	var n int
	for _, a := range addrs {
		if c.IsSigner(a) {
			n++
		}
	}
	return n
}

// Transaction is a proposed action together with the signers that
// confirmed it.
type Transaction struct {
	ID            int64
	Destination   msig.Address
	Value         uint64
	Payload       []byte
	Proposer      msig.Address
	Executed      bool
	Confirmations []msig.Address
}

var _ orm.Model = (*Transaction)(nil)

func (t *Transaction) Validate() error {
	var errs error
	if t.ID < 0 {
		errs = errors.Append(errs, errors.Field("ID", errors.ErrInput, "negative"))
	}
	errs = errors.AppendField(errs, "Destination", t.Destination.Validate())
	errs = errors.AppendField(errs, "Proposer", t.Proposer.Validate())
	if len(t.Payload) > MaxPayloadSize {
		errs = errors.Append(errs, errors.Field("Payload", errors.ErrInput,
			"payload of %d bytes exceeds %d", len(t.Payload), MaxPayloadSize))
	}
	for i, c := range t.Confirmations {
		if indexOf(t.Confirmations[:i], c) >= 0 {
			errs = errors.AppendField(errs, "Confirmations", errors.Wrapf(ErrDuplicateConfirmation, "confirmation %d", i))
		}
	}
	if t.Executed && len(t.Confirmations) == 0 {
		errs = errors.Append(errs, errors.Field("Executed", errors.ErrState, "executed without confirmations"))
	}
	return errs
}

// HasConfirmed returns true if given signer confirmed this transaction.
func (t *Transaction) HasConfirmed(signer msig.Address) bool {
	return indexOf(t.Confirmations, signer) >= 0
}

// Status returns a human readable transaction state.
func (t *Transaction) Status() string {
	if t.Executed {
		return "executed"
	}
	return "pending"
}

func indexOf(addrs []msig.Address, a msig.Address) int {
	for i, x := range addrs {
		if x.Equals(a) {
			return i
		}
	}
	return -1
}

var (
	configs      = orm.NewModelBucket("multisig/wallets")
	transactions = orm.NewModelBucket("multisig/txs")
)

func txKey(wallet string, id int64) []byte {
	return append([]byte(wallet+":"), orm.EncodeSequence(id)...)
}

func txSequence(wallet string) orm.Sequence {
	return orm.NewSequence("multisig", wallet)
}

// CreateWallet stores a new wallet configuration. It fails if a wallet with
// the same name already exists.
func CreateWallet(db msig.KVStore, c *Config) error {
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "invalid wallet")
	}
	switch ok, err := configs.Has(db, []byte(c.Name)); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(errors.ErrDuplicate, "wallet %q", c.Name)
	}
	return configs.Put(db, []byte(c.Name), c)
}

// LoadConfig returns the configuration of the named wallet.
func LoadConfig(db msig.ReadOnlyKVStore, name string) (*Config, error) {
	if !isWalletName(name) {
		return nil, errors.Wrapf(ErrUnknownWallet, "invalid name %q", name)
	}
	var c Config
	switch err := configs.One(db, []byte(name), &c); {
	case err == nil:
		return &c, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrUnknownWallet, "%q", name)
	default:
		return nil, err
	}
}
