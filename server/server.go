package server

import (
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/iov-one/msig/x/multisig"
	"github.com/iov-one/msig/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

// Server is the HTTP API of a set of wallets.
type Server struct {
	wallets  map[string]*multisig.Wallet
	names    []string
	verifier *sigs.Verifier
	logger   log.Logger
	router   *mux.Router
}

var _ http.Handler = (*Server)(nil)

// New returns a server for given wallets. Signed requests are authenticated
// with the verifier. If metrics is not nil, it is mounted under /metrics.
func New(wallets []*multisig.Wallet, verifier *sigs.Verifier, metrics http.Handler, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	s := &Server{
		wallets:  make(map[string]*multisig.Wallet, len(wallets)),
		verifier: verifier,
		logger:   logger.With("module", "server"),
		router:   mux.NewRouter(),
	}
	for _, w := range wallets {
		s.wallets[w.Name()] = w
		s.names = append(s.names, w.Name())
	}
	sort.Strings(s.names)

	r := s.router
	r.Use(s.logRequests)
	r.NotFoundHandler = http.HandlerFunc(s.notFound)
	r.HandleFunc("/info", s.info).Methods("GET")
	r.HandleFunc("/nonce/{address}", s.nonce).Methods("GET")
	r.HandleFunc("/wallets", s.listWallets).Methods("GET")

	wr := r.PathPrefix("/wallets/{name}").Subrouter()
	wr.HandleFunc("", s.walletDetails).Methods("GET")
	wr.HandleFunc("/transactions", s.propose).Methods("POST")
	wr.HandleFunc("/transactions/{id:[0-9]+}", s.transactionDetails).Methods("GET")
	wr.HandleFunc("/transactions/{id:[0-9]+}/confirm", s.confirm).Methods("POST")
	wr.HandleFunc("/transactions/{id:[0-9]+}/revoke", s.revoke).Methods("POST")
	wr.HandleFunc("/signers", s.addSigner).Methods("POST")
	wr.HandleFunc("/signers/{address}", s.removeSigner).Methods("DELETE")
	wr.HandleFunc("/threshold", s.setThreshold).Methods("POST")
	wr.HandleFunc("/owner", s.transferOwnership).Methods("POST")

	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// statusWriter records the response code for logging.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.code,
			"took", time.Since(start))
	})
}

// NewHTTPServer returns an http.Server serving the API on given address,
// with the timeouts set.
func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
}
