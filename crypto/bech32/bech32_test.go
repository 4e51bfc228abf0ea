package bech32

import (
	"bytes"
	"testing"

	"github.com/iov-one/msig/errors"
)

func TestEncodeDecode(t *testing.T) {
	payload := []byte("a twenty byte string")

	enc, err := Encode("msig", payload)
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}
	if !bytes.HasPrefix(enc, []byte("msig1")) {
		t.Fatalf("unexpected encoding: %s", enc)
	}

	hrp, got, err := Decode(string(enc))
	if err != nil {
		t.Fatalf("cannot decode: %s", err)
	}
	if hrp != "msig" {
		t.Fatalf("unexpected human readable part: %q", hrp)
	}
	if !bytes.Equal(payload, got) {
		t.Fatalf("unexpected payload: %q", got)
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, _, err := Decode("msig1notachecksum"); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}
