package multisig

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// GenesisWallet is the genesis representation of a wallet.
type GenesisWallet struct {
	Name      string         `json:"name"`
	Signers   []msig.Address `json:"signers"`
	Threshold uint32         `json:"threshold"`
	Policy    string         `json:"policy"`
	Owner     msig.Address   `json:"owner,omitempty"`
}

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ msig.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial wallets from genesis and save them in the
// database.
func (*Initializer) FromGenesis(opts msig.Options, kv msig.KVStore) error {
	var wallets []GenesisWallet
	if err := opts.ReadOptions("multisig", &wallets); err != nil {
		return err
	}
	for i, w := range wallets {
		policy := w.Policy
		if policy == "" {
			policy = SignerSetPolicy
			if len(w.Owner) != 0 {
				policy = OwnerPolicy
			}
		}
		c := Config{
			Name:      w.Name,
			Signers:   w.Signers,
			Threshold: w.Threshold,
			Policy:    policy,
			Owner:     w.Owner,
		}
		if err := CreateWallet(kv, &c); err != nil {
			return errors.Wrapf(err, "cannot create #%d wallet", i)
		}
	}
	return nil
}

// WalletNames returns the names of all wallets defined in the genesis.
func WalletNames(opts msig.Options) ([]string, error) {
	var wallets []GenesisWallet
	if err := opts.ReadOptions("multisig", &wallets); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(wallets))
	for _, w := range wallets {
		names = append(names, w.Name)
	}
	return names, nil
}
