package msig

import "context"

// Action is an approved transaction handed over to its destination for
// execution.
type Action struct {
	// Wallet is the name of the wallet that approved the action.
	Wallet string
	// TxID is the sequence number of the approved transaction.
	TxID        int64
	Destination Address
	Value       uint64
	Payload     []byte
}

// Handler performs actions sent to a destination. Any state change made
// using given store is written only if the whole confirming call succeeds.
type Handler interface {
	Execute(ctx context.Context, db KVStore, a Action) error
}

// HandlerFunc is an adapter that allows to use a plain function as a Handler.
type HandlerFunc func(ctx context.Context, db KVStore, a Action) error

// Execute calls fn(ctx, db, a).
func (fn HandlerFunc) Execute(ctx context.Context, db KVStore, a Action) error {
	return fn(ctx, db, a)
}

// Router returns the handler responsible for given destination, or nil if
// there is none.
type Router interface {
	Route(dest Address) Handler
}
