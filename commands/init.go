package commands

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/x/multisig"
	"github.com/iov-one/msig/x/webhook"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagChainID = "chain-id"
	flagWebhook = "webhook"
)

type initArgs struct {
	chainID string
	webhook string
}

func parseInitArgs(args []string) (initArgs, error) {
	var res initArgs
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.StringVar(&res.chainID, flagChainID, "msig-local", "chain id all signatures are bound to")
	initFlags.StringVar(&res.webhook, flagWebhook, "", "URL that receives executed transactions of the sample destination")
	err := initFlags.Parse(args)
	return res, err
}

// InitCmd creates the daemon key and two signer keys in the home directory
// and writes a genesis with two sample wallets: "standard" (2 of 2) and
// "bank" (3 of 3). The daemon key is a signer of both and auto confirms
// transactions proposed to "bank".
func InitCmd(logger log.Logger, home string, args []string) error {
	flags, err := parseInitArgs(args)
	if err != nil {
		return err
	}
	if !msig.IsValidChainID(flags.chainID) {
		return errors.Wrapf(errors.ErrInput, "invalid chain id %q", flags.chainID)
	}
	genPath := GenesisPath(home)
	if _, err := os.Stat(genPath); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "genesis file %s exists", genPath)
	}

	keys := make([]*crypto.PrivateKey, 3)
	paths := []string{
		KeyPath(home),
		filepath.Join(home, "keys", "signer-1.json"),
		filepath.Join(home, "keys", "signer-2.json"),
	}
	for i, p := range paths {
		keys[i] = crypto.GenPrivKeyEd25519()
		if err := SaveKey(p, keys[i]); err != nil {
			return err
		}
		logger.Info("Generated key", "path", p, "address", keys[i].PublicKey().Address())
	}

	gen, err := SampleGenesis(flags.chainID, keys, flags.webhook)
	if err != nil {
		return err
	}
	if err := gen.Save(genPath); err != nil {
		return err
	}
	logger.Info("Generated genesis", "path", genPath, "chain_id", gen.ChainID)
	return nil
}

// SampleDestination is the destination that the sample genesis routes to
// the configured webhook.
var SampleDestination = msig.NewCondition("webhook", "sample", []byte("payout")).Address()

// SampleGenesis returns a genesis with the "standard" and "bank" wallets.
// The first key belongs to the daemon. If webhookURL is not empty,
// SampleDestination is routed to it.
func SampleGenesis(chainID string, keys []*crypto.PrivateKey, webhookURL string) (*msig.Genesis, error) {
	if len(keys) < 3 {
		return nil, errors.Wrapf(errors.ErrInput, "three keys required, got %d", len(keys))
	}
	addrs := make([]msig.Address, len(keys))
	for i, k := range keys {
		addrs[i] = k.PublicKey().Address()
	}
	wallets := []multisig.GenesisWallet{
		{
			Name:      "standard",
			Signers:   addrs[:2],
			Threshold: 2,
			Policy:    multisig.SignerSetPolicy,
		},
		{
			Name:      "bank",
			Signers:   addrs[:3],
			Threshold: 3,
			Policy:    multisig.SignerSetPolicy,
		},
	}
	var routes []webhook.Route
	if webhookURL != "" {
		routes = append(routes, webhook.Route{Destination: SampleDestination, URL: webhookURL})
	}

	state := make(msig.Options)
	for key, value := range map[string]interface{}{
		"multisig":    wallets,
		"webhooks":    routes,
		"autoconfirm": []string{"bank"},
	} {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot encode %s", key)
		}
		state[key] = raw
	}
	return &msig.Genesis{ChainID: chainID, AppState: state}, nil
}
