/*
Package client is an HTTP client of the msig API. Requests that change wallet
state are signed with the private key the client was created with. The
signer sequence is fetched from the server before every signed request.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/server"
	"github.com/iov-one/msig/x/sigs"
)

// DefaultTimeout is used for every request if no other was configured.
const DefaultTimeout = 15 * time.Second

// Client talks to a single msig server.
type Client struct {
	apiURL string
	cli    *http.Client
	key    *crypto.PrivateKey

	// signMu serializes signed requests so that two of them never use
	// the same sequence.
	signMu  sync.Mutex
	chainID string
}

// NewClient returns a client of the API under given URL. Key may be nil if
// only read requests are made.
func NewClient(apiURL string, key *crypto.PrivateKey) *Client {
	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		cli:    &http.Client{Timeout: DefaultTimeout},
		key:    key,
	}
}

// Info returns the chain id and the version of the server.
func (c *Client) Info(ctx context.Context) (*server.InfoResponse, error) {
	var info server.InfoResponse
	if err := c.do(ctx, "GET", "/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Nonce returns the sequence that given signer must use next.
func (c *Client) Nonce(ctx context.Context, addr msig.Address) (int64, error) {
	var resp server.NonceResponse
	if err := c.do(ctx, "GET", "/nonce/"+addr.String(), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Sequence, nil
}

// Wallets lists all wallets served.
func (c *Client) Wallets(ctx context.Context) ([]server.WalletResponse, error) {
	var resp []server.WalletResponse
	if err := c.do(ctx, "GET", "/wallets", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Wallet returns the configuration of the named wallet.
func (c *Client) Wallet(ctx context.Context, name string) (*server.WalletResponse, error) {
	var resp server.WalletResponse
	if err := c.do(ctx, "GET", "/wallets/"+name, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transaction returns a single transaction of the named wallet.
func (c *Client) Transaction(ctx context.Context, wallet string, id int64) (*server.TransactionResponse, error) {
	var resp server.TransactionResponse
	if err := c.do(ctx, "GET", fmt.Sprintf("/wallets/%s/transactions/%d", wallet, id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Propose submits a new transaction and returns its id.
func (c *Client) Propose(ctx context.Context, wallet string, dest msig.Address, payload []byte, value uint64) (int64, error) {
	body := server.ProposeRequest{
		Wallet:      wallet,
		Destination: dest,
		Value:       value,
		Payload:     payload,
	}
	var resp server.ProposeResponse
	if err := c.signed(ctx, "POST", "/wallets/"+wallet+"/transactions", body, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// Confirm confirms a transaction as the client key.
func (c *Client) Confirm(ctx context.Context, wallet string, id int64) error {
	body := server.TransactionRequest{Wallet: wallet, TxID: id}
	return c.signed(ctx, "POST", fmt.Sprintf("/wallets/%s/transactions/%d/confirm", wallet, id), body, nil)
}

// Revoke withdraws a confirmation made by the client key.
func (c *Client) Revoke(ctx context.Context, wallet string, id int64) error {
	body := server.TransactionRequest{Wallet: wallet, TxID: id}
	return c.signed(ctx, "POST", fmt.Sprintf("/wallets/%s/transactions/%d/revoke", wallet, id), body, nil)
}

// AddSigner adds a signer to a wallet managed by the client key.
func (c *Client) AddSigner(ctx context.Context, wallet string, signer msig.Address) error {
	body := server.SignerRequest{Wallet: wallet, Signer: signer}
	return c.signed(ctx, "POST", "/wallets/"+wallet+"/signers", body, nil)
}

// RemoveSigner removes a signer from a wallet managed by the client key.
func (c *Client) RemoveSigner(ctx context.Context, wallet string, signer msig.Address) error {
	body := server.SignerRequest{Wallet: wallet, Signer: signer}
	return c.signed(ctx, "DELETE", "/wallets/"+wallet+"/signers/"+signer.String(), body, nil)
}

// SetThreshold changes the threshold of a wallet managed by the client key.
func (c *Client) SetThreshold(ctx context.Context, wallet string, threshold uint32) error {
	body := server.ThresholdRequest{Wallet: wallet, Threshold: threshold}
	return c.signed(ctx, "POST", "/wallets/"+wallet+"/threshold", body, nil)
}

// TransferOwnership hands a wallet managed by the client key to a new owner.
func (c *Client) TransferOwnership(ctx context.Context, wallet string, owner msig.Address) error {
	body := server.OwnerRequest{Wallet: wallet, Owner: owner}
	return c.signed(ctx, "POST", "/wallets/"+wallet+"/owner", body, nil)
}

// signed wraps body in an envelope signed with the client key.
func (c *Client) signed(ctx context.Context, method, path string, body, dest interface{}) error {
	if c.key == nil {
		return errors.Wrap(errors.ErrUnauthorized, "client has no key")
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	c.signMu.Lock()
	defer c.signMu.Unlock()

	if c.chainID == "" {
		info, err := c.Info(ctx)
		if err != nil {
			return errors.Wrap(err, "chain id")
		}
		c.chainID = info.ChainID
	}
	seq, err := c.Nonce(ctx, c.key.PublicKey().Address())
	if err != nil {
		return errors.Wrap(err, "nonce")
	}
	sig, err := sigs.Sign(c.key, raw, c.chainID, seq)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	env := struct {
		Body      json.RawMessage    `json:"body"`
		Signature *sigs.StdSignature `json:"signature"`
	}{
		Body:      raw,
		Signature: sig,
	}
	return c.do(ctx, method, path, env, dest)
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.apiURL+path, body)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "create http request")
	}
	req = req.WithContext(ctx)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.cli.Do(req)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "do request: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1e7)).Decode(dest); err != nil {
		return errors.Wrapf(errors.ErrNetwork, "decode response: %s", err)
	}
	return nil
}

// decodeError rebuilds the error returned by the server. Registered codes
// are mapped back to their root errors.
func decodeError(resp *http.Response) error {
	b, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 1e5))
	var e server.ErrorResponse
	if err := json.Unmarshal(b, &e); err != nil || e.Code == 0 {
		return errors.Wrapf(errors.ErrNetwork, "bad response: %d %s", resp.StatusCode, string(b))
	}
	if root := errors.Lookup(e.Code); root != nil {
		return errors.Wrap(root, e.Log)
	}
	return errors.Wrapf(errors.ErrNetwork, "code %d: %s", e.Code, e.Log)
}
