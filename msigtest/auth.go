package msigtest

import (
	"context"
	"fmt"

	"github.com/iov-one/msig"
)

// Auth is a mock implementing msig.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer msig.Condition

	// Signers represents an authentication of multiple signers.
	Signers []msig.Condition
}

var _ msig.Authenticator = (*Auth)(nil)

func (a *Auth) GetConditions(context.Context) []msig.Condition {
	if a.Signer != nil {
		return append([]msig.Condition{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx context.Context, addr msig.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing msig.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convinience only string type keys are allowed.
	Key string
}

var _ msig.Authenticator = (*CtxAuth)(nil)

type ctxAuthKey string

// SetConditions returns a context that authenticates given conditions.
func (a *CtxAuth) SetConditions(ctx context.Context, conds ...msig.Condition) context.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx context.Context) []msig.Condition {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	conds, ok := val.([]msig.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []msig.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx context.Context, addr msig.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
