package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
)

const (
	keyFile     = "key.json"
	genesisFile = "genesis.json"
	dbName      = "msig"
)

// KeyPath returns the path of the daemon key in given home directory.
func KeyPath(home string) string {
	return filepath.Join(home, keyFile)
}

// GenesisPath returns the path of the genesis file in given home directory.
func GenesisPath(home string) string {
	return filepath.Join(home, genesisFile)
}

// LoadKey reads a private key file.
func LoadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read key: %s", err)
	}
	var key crypto.PrivateKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, errors.Wrapf(err, "key file %s", path)
	}
	return &key, nil
}

// SaveKey writes a private key file readable only by the owner. An existing
// file is never overwritten.
func SaveKey(path string, key *crypto.PrivateKey) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "key file %s exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create directory: %s", err)
	}
	raw, err := json.Marshal(key)
	if err != nil {
		return errors.Wrap(err, "cannot encode key")
	}
	if err := ioutil.WriteFile(path, raw, 0600); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot write key: %s", err)
	}
	return nil
}
