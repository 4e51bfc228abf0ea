package msigtest

import (
	"testing"

	"github.com/iov-one/msig"
)

// ParseAddress takes an address in a human readable format and returns its
// binary representation. This function is a test helper that is using
// msig.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) msig.Address {
	t.Helper()

	addr, err := msig.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
