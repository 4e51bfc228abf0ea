package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// DefaultTimeout is used when no timeout was configured.
const DefaultTimeout = 10 * time.Second

// Notification is the request body sent to the endpoint.
type Notification struct {
	Wallet      string       `json:"wallet"`
	TxID        int64        `json:"tx"`
	Destination msig.Address `json:"destination"`
	Value       uint64       `json:"value"`
	Payload     []byte       `json:"payload"`
}

// Handler delivers actions to a single URL.
type Handler struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

var _ msig.Handler = (*Handler)(nil)

// NewHandler returns a handler that posts to given URL. A zero timeout
// means DefaultTimeout.
func NewHandler(url string, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Handler{
		url:     url,
		timeout: timeout,
		client:  &http.Client{},
	}
}

func (h *Handler) Execute(ctx context.Context, db msig.KVStore, a msig.Action) error {
	body, err := json.Marshal(Notification{
		Wallet:      a.Wallet,
		TxID:        a.TxID,
		Destination: a.Destination,
		Value:       a.Value,
		Payload:     a.Payload,
	})
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequest("POST", h.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create request: %s", err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "post %s: %s", h.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 1e4))
		return errors.Wrapf(errors.ErrNetwork, "post %s: %d %s", h.url, resp.StatusCode, bytes.TrimSpace(b))
	}
	msig.GetLogger(ctx).Debug("webhook delivered", "url", h.url, "wallet", a.Wallet, "tx", a.TxID)
	return nil
}

func (h *Handler) String() string {
	return fmt.Sprintf("webhook %s", h.url)
}
