package server

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/x/multisig"
	"github.com/iov-one/msig/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

// maxBodySize limits the size of a request body. It must fit the largest
// transaction payload hex encoded together with the envelope.
const maxBodySize = 3 * multisig.MaxPayloadSize

// ErrorResponse is the JSON representation of a failed request.
type ErrorResponse struct {
	Code uint32 `json:"code"`
	Log  string `json:"log"`
}

// JSONResp write content as JSON encoded response.
func JSONResp(logger log.Logger, w http.ResponseWriter, code int, content interface{}) {
	b, err := json.MarshalIndent(content, "", "\t")
	if err != nil {
		logger.Error("cannot JSON serialize response", "err", err)
		code = http.StatusInternalServerError
		b = []byte(`{"code":1,"log":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

// JSONErr write an error as JSON encoded response. Errors that are not
// registered are redacted.
func JSONErr(logger log.Logger, w http.ResponseWriter, err error) {
	code, msg := errors.Info(err, false)
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
	}
	JSONResp(logger, w, status, ErrorResponse{Code: code, Log: msg})
}

// httpStatus maps root errors to HTTP response codes.
func httpStatus(err error) int {
	switch {
	case multisig.ErrExecutionFailed.Is(err):
		return http.StatusBadGateway
	case errors.ErrUnauthorized.Is(err), sigs.ErrInvalidSequence.Is(err):
		return http.StatusUnauthorized
	case multisig.ErrUnknownWallet.Is(err),
		multisig.ErrUnknownTransaction.Is(err),
		multisig.ErrUnknownSigner.Is(err),
		errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case multisig.ErrDuplicateSigner.Is(err),
		multisig.ErrDuplicateConfirmation.Is(err),
		multisig.ErrAlreadyExecuted.Is(err),
		multisig.ErrThresholdViolation.Is(err),
		multisig.ErrNotConfirmed.Is(err),
		errors.ErrDuplicate.Is(err):
		return http.StatusConflict
	case errors.ErrPanic.Is(err), errors.ErrDatabase.Is(err), errors.Code(err) == errors.InternalCode:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// envelope is a signed request.
type envelope struct {
	Body      json.RawMessage    `json:"body"`
	Signature *sigs.StdSignature `json:"signature"`
}

func readEnvelope(r *http.Request) (*envelope, error) {
	raw, err := ioutil.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot read body")
	}
	if len(raw) > maxBodySize {
		return nil, errors.Wrap(errors.ErrInput, "request body too big")
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode envelope: %s", err)
	}
	if len(env.Body) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "body")
	}
	if env.Signature == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return &env, nil
}

// hexbytes is a byte slice that is represented in JSON as a hex string.
type hexbytes []byte

func (b hexbytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(b))
}

func (b *hexbytes) UnmarshalJSON(enc []byte) error {
	var s string
	if err := json.Unmarshal(enc, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "hex string expected")
	}
	val, err := hex.DecodeString(s)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "cannot decode hex")
	}
	*b = val
	return nil
}
