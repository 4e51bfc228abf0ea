package commands

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/store/iavl"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind = "bind"

	shutdownTimeout = 10 * time.Second
)

func parseStartArgs(args []string) (string, error) {
	var addr string
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&addr, flagBind, "localhost:8480", "address the HTTP API listens on")
	err := startFlags.Parse(args)
	return addr, err
}

// StartCmd loads the genesis and the persisted state from the home
// directory and serves the wallets until the process is interrupted.
func StartCmd(logger log.Logger, home string, args []string) error {
	bind, err := parseStartArgs(args)
	if err != nil {
		return err
	}

	gen, err := msig.LoadGenesis(GenesisPath(home))
	if err != nil {
		return err
	}
	var key *crypto.PrivateKey
	if _, err := os.Stat(KeyPath(home)); err == nil {
		if key, err = LoadKey(KeyPath(home)); err != nil {
			return err
		}
	}

	cs, err := iavl.NewCommitStore(home, dbName)
	if err != nil {
		return err
	}
	defer cs.Close()
	if err := cs.LoadLatestVersion(); err != nil {
		return err
	}
	logger.Info("Loaded state", "version", cs.LatestVersion().Version)

	a, err := NewApp(logger, gen, cs, key)
	if err != nil {
		return errors.Wrap(err, "cannot create app")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sigc
		logger.Info("Received signal", "signal", s)
		cancel()
	}()
	return a.Run(ctx, bind)
}
