package main

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/iov-one/msig/x/multisig"
)

func cmdAddress(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("address", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Print the address of each named wallet.

Wallet addresses are derived from the name only. Use them as the destination
of management transactions, or to refer to a wallet in a genesis file before
it exists.

Usage: address [-header] <wallet name>...
`)
	headerFl := fl.Bool("header", true, "Display header")
	if err := fl.Parse(args); err != nil {
		return err
	}
	if fl.NArg() == 0 {
		return fmt.Errorf("at least one wallet name is required")
	}

	tw := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	if *headerFl {
		fmt.Fprintln(tw, "NAME\tADDRESS\tHEX")
	}
	for _, name := range fl.Args() {
		addr := multisig.WalletAddress(name)
		fmt.Fprintf(tw, "%s\t%s\t%X\n", name, addr, []byte(addr))
	}
	return tw.Flush()
}
