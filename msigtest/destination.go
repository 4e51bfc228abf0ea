package msigtest

import (
	"context"
	"sync"

	"github.com/iov-one/msig"
)

// Destination is a handler mock that records every action it is asked to
// execute. Set Err to make the execution fail. When Key is set, the action
// payload is written under that key so that tests can check that the write
// was reverted together with a failed call.
type Destination struct {
	mu      sync.Mutex
	calls   int
	actions []msig.Action

	Err error
	Key []byte
}

var _ msig.Handler = (*Destination)(nil)

func (d *Destination) Execute(ctx context.Context, db msig.KVStore, a msig.Action) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if len(d.Key) > 0 {
		if err := db.Set(d.Key, a.Payload); err != nil {
			return err
		}
	}
	if d.Err != nil {
		return d.Err
	}
	d.actions = append(d.actions, a)
	return nil
}

// SetErr changes the result of all following executions.
func (d *Destination) SetErr(err error) {
	d.mu.Lock()
	d.Err = err
	d.mu.Unlock()
}

// CallCount returns the number of execution attempts, including failed ones.
func (d *Destination) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// Executed returns all successfully executed actions in execution order.
func (d *Destination) Executed() []msig.Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]msig.Action(nil), d.actions...)
}

// Router is a msig.Router backed by a map. It is handy when a test needs
// a router without the app package.
type Router map[string]msig.Handler

var _ msig.Router = Router(nil)

func (r Router) Route(dest msig.Address) msig.Handler {
	return r[string(dest)]
}

// Add registers a handler and returns the router for chaining.
func (r Router) Add(dest msig.Address, h msig.Handler) Router {
	r[string(dest)] = h
	return r
}
