package app

import (
	"fmt"

	"github.com/iov-one/msig"
)

// Router maps destination addresses to handlers.
type Router struct {
	routes map[string]msig.Handler
}

var _ msig.Router = (*Router)(nil)

// NewRouter returns a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]msig.Handler),
	}
}

// Handle registers a handler for given destination. It panics when the
// address is invalid or a handler for it was already registered.
func (r *Router) Handle(dest msig.Address, h msig.Handler) {
	if err := dest.Validate(); err != nil {
		panic(fmt.Sprintf("invalid destination %q: %s", dest, err))
	}
	key := string(dest)
	if _, ok := r.routes[key]; ok {
		panic(fmt.Sprintf("re-registering route: %s", dest))
	}
	r.routes[key] = h
}

// Route returns the handler registered for given destination or nil.
func (r *Router) Route(dest msig.Address) msig.Handler {
	return r.routes[string(dest)]
}
