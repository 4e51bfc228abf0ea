package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/x/multisig"
	"github.com/iov-one/msig/x/sigs"
)

// WalletResponse describes the configuration of a wallet.
type WalletResponse struct {
	Name         string         `json:"name"`
	Address      msig.Address   `json:"address"`
	Signers      []msig.Address `json:"signers"`
	Threshold    uint32         `json:"threshold"`
	Policy       string         `json:"policy"`
	Owner        msig.Address   `json:"owner,omitempty"`
	Transactions int64          `json:"transactions"`
}

// TransactionResponse describes a single transaction of a wallet.
type TransactionResponse struct {
	ID            int64          `json:"id"`
	Destination   msig.Address   `json:"destination"`
	Value         uint64         `json:"value"`
	Payload       hexbytes       `json:"payload"`
	Proposer      msig.Address   `json:"proposer"`
	Executed      bool           `json:"executed"`
	Status        string         `json:"status"`
	Confirmations []msig.Address `json:"confirmations"`
	Confirmed     int            `json:"confirmed"`
	Threshold     uint32         `json:"threshold"`
}

// ProposeRequest is the signed body of a new transaction.
type ProposeRequest struct {
	Wallet      string       `json:"wallet"`
	Destination msig.Address `json:"destination"`
	Value       uint64       `json:"value"`
	Payload     hexbytes     `json:"payload,omitempty"`
}

// ProposeResponse returns the id of a created transaction.
type ProposeResponse struct {
	ID int64 `json:"id"`
}

// TransactionRequest is the signed body of a confirmation or revocation.
type TransactionRequest struct {
	Wallet string `json:"wallet"`
	TxID   int64  `json:"tx"`
}

// SignerRequest is the signed body of adding or removing a signer.
type SignerRequest struct {
	Wallet string       `json:"wallet"`
	Signer msig.Address `json:"signer"`
}

// ThresholdRequest is the signed body of a threshold change.
type ThresholdRequest struct {
	Wallet    string `json:"wallet"`
	Threshold uint32 `json:"threshold"`
}

// OwnerRequest is the signed body of an ownership transfer.
type OwnerRequest struct {
	Wallet string       `json:"wallet"`
	Owner  msig.Address `json:"owner"`
}

// NonceResponse returns the sequence a signer must use next.
type NonceResponse struct {
	Address  msig.Address `json:"address"`
	Sequence int64        `json:"sequence"`
}

// InfoResponse describes the service.
type InfoResponse struct {
	ChainID string `json:"chain_id"`
	Version string `json:"version"`
}

// StatusResponse is returned by operations that produce no other result.
type StatusResponse struct {
	Status string `json:"status"`
}

var statusOK = StatusResponse{Status: "ok"}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	JSONErr(s.logger, w, errors.Wrapf(errors.ErrNotFound, "path %s", r.URL.Path))
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	JSONResp(s.logger, w, http.StatusOK, InfoResponse{
		ChainID: s.verifier.ChainID(),
		Version: msig.Version(),
	})
}

func (s *Server) nonce(w http.ResponseWriter, r *http.Request) {
	addr, err := msig.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	if err := addr.Validate(); err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	seq, err := s.verifier.NextNonce(addr)
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	JSONResp(s.logger, w, http.StatusOK, NonceResponse{Address: addr, Sequence: seq})
}

func (s *Server) listWallets(w http.ResponseWriter, r *http.Request) {
	resp := make([]WalletResponse, 0, len(s.names))
	for _, name := range s.names {
		wr, err := describeWallet(s.wallets[name])
		if err != nil {
			JSONErr(s.logger, w, err)
			return
		}
		resp = append(resp, *wr)
	}
	JSONResp(s.logger, w, http.StatusOK, resp)
}

func (s *Server) walletDetails(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.wallet(r)
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	resp, err := describeWallet(wallet)
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	JSONResp(s.logger, w, http.StatusOK, resp)
}

func describeWallet(w *multisig.Wallet) (*WalletResponse, error) {
	c, err := w.Config()
	if err != nil {
		return nil, err
	}
	count, err := w.TransactionCount()
	if err != nil {
		return nil, err
	}
	return &WalletResponse{
		Name:         c.Name,
		Address:      w.Address(),
		Signers:      c.Signers,
		Threshold:    c.Threshold,
		Policy:       c.Policy,
		Owner:        c.Owner,
		Transactions: count,
	}, nil
}

func (s *Server) transactionDetails(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.wallet(r)
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	id, err := txID(r)
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	tx, err := wallet.Transaction(id)
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	confirmed, threshold, err := wallet.Confirmations(id)
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	confirmations := tx.Confirmations
	if confirmations == nil {
		confirmations = []msig.Address{}
	}
	JSONResp(s.logger, w, http.StatusOK, TransactionResponse{
		ID:            tx.ID,
		Destination:   tx.Destination,
		Value:         tx.Value,
		Payload:       tx.Payload,
		Proposer:      tx.Proposer,
		Executed:      tx.Executed,
		Status:        tx.Status(),
		Confirmations: confirmations,
		Confirmed:     confirmed,
		Threshold:     threshold,
	})
}

func (s *Server) propose(w http.ResponseWriter, r *http.Request) {
	var req ProposeRequest
	ctx, wallet, err := s.authenticate(r, &req, func() binding { return binding{wallet: req.Wallet, tx: -1} })
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	id, err := wallet.Propose(ctx, req.Destination, req.Payload, req.Value)
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	JSONResp(s.logger, w, http.StatusCreated, ProposeResponse{ID: id})
}

func (s *Server) confirm(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	ctx, wallet, err := s.authenticate(r, &req, func() binding { return binding{wallet: req.Wallet, tx: req.TxID} })
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	if err := wallet.Confirm(ctx, req.TxID); err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	JSONResp(s.logger, w, http.StatusOK, statusOK)
}

func (s *Server) revoke(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	ctx, wallet, err := s.authenticate(r, &req, func() binding { return binding{wallet: req.Wallet, tx: req.TxID} })
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	if err := wallet.RevokeConfirmation(ctx, req.TxID); err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	JSONResp(s.logger, w, http.StatusOK, statusOK)
}

func (s *Server) addSigner(w http.ResponseWriter, r *http.Request) {
	var req SignerRequest
	ctx, wallet, err := s.authenticate(r, &req, func() binding { return binding{wallet: req.Wallet, tx: -1} })
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	if err := wallet.AddSigner(ctx, req.Signer); err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	JSONResp(s.logger, w, http.StatusOK, statusOK)
}

func (s *Server) removeSigner(w http.ResponseWriter, r *http.Request) {
	addr, err := msig.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	var req SignerRequest
	ctx, wallet, err := s.authenticate(r, &req, func() binding {
		return binding{wallet: req.Wallet, tx: -1, signer: req.Signer, pathSigner: addr}
	})
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	if err := wallet.RemoveSigner(ctx, req.Signer); err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	JSONResp(s.logger, w, http.StatusOK, statusOK)
}

func (s *Server) setThreshold(w http.ResponseWriter, r *http.Request) {
	var req ThresholdRequest
	ctx, wallet, err := s.authenticate(r, &req, func() binding { return binding{wallet: req.Wallet, tx: -1} })
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	if err := wallet.SetThreshold(ctx, req.Threshold); err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	JSONResp(s.logger, w, http.StatusOK, statusOK)
}

func (s *Server) transferOwnership(w http.ResponseWriter, r *http.Request) {
	var req OwnerRequest
	ctx, wallet, err := s.authenticate(r, &req, func() binding { return binding{wallet: req.Wallet, tx: -1} })
	if err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	if err := wallet.TransferOwnership(ctx, req.Owner); err != nil {
		JSONErr(s.logger, w, err)
		return
	}
	JSONResp(s.logger, w, http.StatusOK, statusOK)
}

func (s *Server) wallet(r *http.Request) (*multisig.Wallet, error) {
	name := mux.Vars(r)["name"]
	w, ok := s.wallets[name]
	if !ok {
		return nil, errors.Wrapf(multisig.ErrUnknownWallet, "%q", name)
	}
	return w, nil
}

func txID(r *http.Request) (int64, error) {
	raw, ok := mux.Vars(r)["id"]
	if !ok {
		return -1, errors.Wrap(errors.ErrHuman, "no id in path")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return -1, errors.Wrapf(multisig.ErrUnknownTransaction, "id %q", raw)
	}
	return id, nil
}

// binding names the resources a signed body applies to. A negative tx
// means the request is not bound to a transaction. When pathSigner is set,
// signer must be equal to it.
type binding struct {
	wallet     string
	tx         int64
	signer     msig.Address
	pathSigner msig.Address
}

// authenticate reads a signed envelope, decodes its body into dest and
// verifies the signature. The binding returned by target, read after
// decoding, must match the request path.
//
// The signer sequence is consumed only if all checks before the signature
// verification pass.
func (s *Server) authenticate(r *http.Request, dest interface{}, target func() binding) (context.Context, *multisig.Wallet, error) {
	wallet, err := s.wallet(r)
	if err != nil {
		return nil, nil, err
	}
	env, err := readEnvelope(r)
	if err != nil {
		return nil, nil, err
	}
	if err := json.Unmarshal(env.Body, dest); err != nil {
		return nil, nil, errors.Wrapf(errors.ErrInput, "cannot decode body: %s", err)
	}
	b := target()
	if b.wallet != wallet.Name() {
		return nil, nil, errors.Wrapf(errors.ErrInput, "body is signed for wallet %q", b.wallet)
	}
	if b.tx >= 0 {
		pathID, err := txID(r)
		if err != nil {
			return nil, nil, err
		}
		if pathID != b.tx {
			return nil, nil, errors.Wrapf(errors.ErrInput, "body is signed for transaction %d", b.tx)
		}
	}
	if b.pathSigner != nil && !b.pathSigner.Equals(b.signer) {
		return nil, nil, errors.Wrapf(errors.ErrInput, "body is signed for signer %s", b.signer)
	}
	ctx := msig.WithLogger(r.Context(), s.logger)
	ctx = msig.WithLogInfo(ctx, "method", r.Method, "path", r.URL.Path)
	ctx, err = s.verifier.Verify(ctx, env.Body, env.Signature)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("request authenticated",
		"wallet", wallet.Name(),
		"signer", msig.MainSigner(ctx, sigs.Authenticate{}).Address())
	return ctx, wallet, nil
}
