package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/app"
	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/server"
	"github.com/iov-one/msig/store"
	"github.com/iov-one/msig/x/multisig"
	"github.com/iov-one/msig/x/sigs"
	"github.com/iov-one/msig/x/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
)

// App is a fully wired daemon: wallets over a shared store, the HTTP API
// and the auto confirm services.
type App struct {
	Wallets  []*multisig.Wallet
	Verifier *sigs.Verifier
	Handler  http.Handler

	logger      log.Logger
	db          *store.Synced
	autoconfirm []*multisig.AutoConfirmer
}

// NewApp wires wallets defined in the genesis over given store. If the store
// was never committed, the genesis is applied first. Key is the daemon
// identity used by the auto confirm services and may be nil when none are
// configured.
func NewApp(logger log.Logger, gen *msig.Genesis, kv msig.CommitKVStore, key *crypto.PrivateKey) (*App, error) {
	db := store.NewSynced(kv)
	if db.LatestVersion().Version == 0 {
		inits := msig.ChainInitializers(&multisig.Initializer{})
		if err := inits.FromGenesis(gen.AppState, db); err != nil {
			return nil, errors.Wrap(err, "genesis")
		}
		if _, err := db.Commit(); err != nil {
			return nil, errors.Wrap(err, "cannot commit genesis")
		}
		logger.Info("Genesis applied", "chain_id", gen.ChainID)
	}

	router := app.NewRouter()
	n, err := webhook.RegisterRoutes(router, gen.AppState)
	if err != nil {
		return nil, errors.Wrap(err, "webhooks")
	}
	logger.Info("Webhooks registered", "count", n)

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	metrics, err := multisig.NewMetrics(reg)
	if err != nil {
		return nil, errors.Wrap(err, "metrics")
	}

	names, err := multisig.WalletNames(gen.AppState)
	if err != nil {
		return nil, err
	}
	a := &App{
		Verifier: sigs.NewVerifier(db, gen.ChainID),
		logger:   logger,
		db:       db,
	}
	auth := msig.ChainAuth(sigs.Authenticate{})
	byName := make(map[string]*multisig.Wallet, len(names))
	for _, name := range names {
		w, err := multisig.Open(db, name, auth, router)
		if err != nil {
			return nil, errors.Wrapf(err, "wallet %q", name)
		}
		w.Observe(metrics)
		a.Wallets = append(a.Wallets, w)
		byName[name] = w
	}

	var auto []string
	if err := gen.AppState.ReadOptions("autoconfirm", &auto); err != nil {
		return nil, err
	}
	if len(auto) != 0 && key == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "auto confirm requires the daemon key")
	}
	for _, name := range auto {
		w, ok := byName[name]
		if !ok {
			return nil, errors.Wrapf(multisig.ErrUnknownWallet, "auto confirm of %q", name)
		}
		a.autoconfirm = append(a.autoconfirm, multisig.NewAutoConfirmer(w, signedBy(a.Verifier, key)))
	}

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	a.Handler = server.New(a.Wallets, a.Verifier, handler, logger)
	return a, nil
}

// signedBy authenticates the auto confirm service the same way a confirm
// request of given key is authenticated, consuming one of its sequences.
func signedBy(v *sigs.Verifier, key *crypto.PrivateKey) multisig.AuthenticateFunc {
	return func(ctx context.Context, w *multisig.Wallet, txID int64) (context.Context, error) {
		body, err := json.Marshal(server.TransactionRequest{Wallet: w.Name(), TxID: txID})
		if err != nil {
			return ctx, errors.Wrap(err, "cannot encode confirmation")
		}
		return v.SignAndVerify(ctx, key, body)
	}
}

// Run starts the auto confirm services and serves the API on given address
// until the context is cancelled.
func (a *App) Run(ctx context.Context, bind string) error {
	ctx = msig.WithLogger(ctx, a.logger)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, ac := range a.autoconfirm {
		wg.Add(1)
		go func(ac *multisig.AutoConfirmer) {
			defer wg.Done()
			_ = ac.Run(ctx)
		}(ac)
	}

	srv := server.NewHTTPServer(bind, a.Handler)
	errc := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", "bind", bind)
		errc <- srv.ListenAndServe()
	}()

	var err error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down")
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		err = srv.Shutdown(shutdownCtx)
		done()
	case err = <-errc:
		err = errors.Wrapf(errors.ErrNetwork, "http server: %s", err)
	}
	cancel()
	wg.Wait()
	return err
}
