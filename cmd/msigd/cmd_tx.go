package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/msig/client"
	"github.com/iov-one/msig/x/multisig"
)

func cmdPropose(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("propose", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Propose a new transaction to a wallet and print its id.

Use one of -add-signer, -remove-signer or -threshold to propose a change of
the signer set instead. Such a transaction is sent to the wallet itself and
is applied once enough signers confirmed it.
`)
	var (
		urlFl       = flURL(fl)
		keyPathFl   = flKey(fl)
		walletFl    = fl.String("wallet", "", "Name of the wallet.")
		destFl      = flAddress(fl, "dest", "Destination address of the transaction.")
		valueFl     = fl.Uint64("value", 0, "Value passed to the destination.")
		payloadFl   = flHex(fl, "payload", "Hex encoded payload passed to the destination.")
		addSigner   = flAddress(fl, "add-signer", "Propose adding this signer.")
		rmSigner    = flAddress(fl, "remove-signer", "Propose removing this signer.")
		thresholdFl = fl.Uint("threshold", 0, "Propose changing the threshold.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if *walletFl == "" {
		return fmt.Errorf("wallet name is required")
	}

	dest, payload := *destFl, *payloadFl
	var err error
	switch {
	case len(*addSigner) != 0:
		payload, err = multisig.AddSignerPayload(*addSigner)
		dest = multisig.WalletAddress(*walletFl)
	case len(*rmSigner) != 0:
		payload, err = multisig.RemoveSignerPayload(*rmSigner)
		dest = multisig.WalletAddress(*walletFl)
	case *thresholdFl != 0:
		payload, err = multisig.SetThresholdPayload(uint32(*thresholdFl))
		dest = multisig.WalletAddress(*walletFl)
	case len(dest) == 0:
		return fmt.Errorf("destination is required")
	}
	if err != nil {
		return err
	}

	c, err := signingClient(*urlFl, *keyPathFl)
	if err != nil {
		return err
	}
	id, err := c.Propose(context.Background(), *walletFl, dest, payload, *valueFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, id)
	return err
}

func cmdConfirm(input io.Reader, output io.Writer, args []string) error {
	return txCommand("confirm", `
Confirm a transaction. The transaction is executed by the confirmation that
reaches the wallet threshold.
`, args, output, func(c *client.Client, wallet string, id int64) error {
		return c.Confirm(context.Background(), wallet, id)
	})
}

func cmdRevoke(input io.Reader, output io.Writer, args []string) error {
	return txCommand("revoke", `
Revoke your confirmation of a transaction that was not executed yet.
`, args, output, func(c *client.Client, wallet string, id int64) error {
		return c.Revoke(context.Background(), wallet, id)
	})
}

func txCommand(name, description string, args []string, output io.Writer, fn func(*client.Client, string, int64) error) error {
	fl := flag.NewFlagSet(name, flag.ContinueOnError)
	fl.Usage = usage(fl, description)
	var (
		urlFl     = flURL(fl)
		keyPathFl = flKey(fl)
		walletFl  = fl.String("wallet", "", "Name of the wallet.")
		txFl      = fl.Int64("tx", -1, "Transaction id.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if *walletFl == "" {
		return fmt.Errorf("wallet name is required")
	}
	if *txFl < 0 {
		return fmt.Errorf("transaction id is required")
	}
	c, err := signingClient(*urlFl, *keyPathFl)
	if err != nil {
		return err
	}
	if err := fn(c, *walletFl, *txFl); err != nil {
		return err
	}
	return printStatus(c, output, *walletFl, *txFl)
}

func printStatus(c *client.Client, output io.Writer, wallet string, id int64) error {
	tx, err := c.Transaction(context.Background(), wallet, id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%s/%d %s %d/%d\n", wallet, id, tx.Status, tx.Confirmed, tx.Threshold)
	return err
}

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("show", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Print wallets or transactions as JSON.

Without -wallet all wallets are listed. With -tx a single transaction of
the wallet is shown.
`)
	var (
		urlFl    = flURL(fl)
		walletFl = fl.String("wallet", "", "Name of the wallet.")
		txFl     = fl.Int64("tx", -1, "Transaction id.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	c := client.NewClient(*urlFl, nil)
	var (
		res interface{}
		err error
	)
	switch {
	case *walletFl == "":
		res, err = c.Wallets(ctx)
	case *txFl < 0:
		res, err = c.Wallet(ctx, *walletFl)
	default:
		res, err = c.Transaction(ctx, *walletFl, *txFl)
	}
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(res, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}
