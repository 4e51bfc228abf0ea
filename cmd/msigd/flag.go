package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/client"
	"github.com/iov-one/msig/commands"
)

// flAddress returns an address that is set from a command line argument in
// any format accepted by msig.ParseAddress.
func flAddress(fl *flag.FlagSet, name, usage string) *msig.Address {
	var a msig.Address
	fl.Var((*addressValue)(&a), name, usage)
	return &a
}

type addressValue msig.Address

func (a *addressValue) String() string {
	if a == nil || len(*a) == 0 {
		return ""
	}
	return msig.Address(*a).String()
}

func (a *addressValue) Set(raw string) error {
	addr, err := msig.ParseAddress(raw)
	if err != nil {
		return err
	}
	if err := addr.Validate(); err != nil {
		return err
	}
	*a = addressValue(addr)
	return nil
}

// flHex returns a byte slice that is set from a hex encoded command line
// argument.
func flHex(fl *flag.FlagSet, name, usage string) *[]byte {
	var b []byte
	fl.Var((*hexValue)(&b), name, usage)
	return &b
}

type hexValue []byte

func (h *hexValue) String() string {
	if h == nil {
		return ""
	}
	return hex.EncodeToString(*h)
}

func (h *hexValue) Set(raw string) error {
	b, err := hex.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("cannot decode hex: %s", err)
	}
	*h = b
	return nil
}

func flURL(fl *flag.FlagSet) *string {
	return fl.String("url", env("MSIGD_URL", "http://localhost:8480"),
		"API address of the daemon. You can use MSIGD_URL environment variable to set it.")
}

func flKey(fl *flag.FlagSet) *string {
	return fl.String("key", env("MSIGD_KEY", commands.KeyPath(*flagHome)),
		"Path to the private key file that requests are signed with. You can use MSIGD_KEY environment variable to set it.")
}

// signingClient returns a client that signs with the key under given path.
func signingClient(url, keyPath string) (*client.Client, error) {
	key, err := commands.LoadKey(keyPath)
	if err != nil {
		return nil, err
	}
	return client.NewClient(url, key), nil
}

// usage returns a flag set usage function printing given description
// followed by the flag defaults.
func usage(fl *flag.FlagSet, description string) func() {
	return func() {
		fmt.Fprint(os.Stderr, description)
		fl.PrintDefaults()
	}
}
