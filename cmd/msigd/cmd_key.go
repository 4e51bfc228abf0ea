package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/msig/commands"
	"github.com/iov-one/msig/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Generate a new private key and print its address.

This command fails if the private key file already exists.
`)
	keyPathFl := flKey(fl)
	if err := fl.Parse(args); err != nil {
		return err
	}

	key := crypto.GenPrivKeyEd25519()
	if err := commands.SaveKey(*keyPathFl, key); err != nil {
		return err
	}
	_, err := fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("keyaddr", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Print out the address associated with your private key.
`)
	keyPathFl := flKey(fl)
	if err := fl.Parse(args); err != nil {
		return err
	}

	key, err := commands.LoadKey(*keyPathFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, key.PublicKey().Address())
	return err
}
