package webhook

import (
	"encoding/json"
	"time"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// Route binds a destination address to an endpoint.
type Route struct {
	Destination msig.Address `json:"destination"`
	URL         string       `json:"url"`
	Timeout     Duration     `json:"timeout,omitempty"`
}

// Registry is implemented by routers that webhooks can be added to.
type Registry interface {
	msig.Router
	Handle(dest msig.Address, h msig.Handler)
}

// RegisterRoutes reads the "webhooks" genesis section and registers a
// handler for each configured destination. Nothing is registered if any
// route is invalid or its destination already has a handler.
func RegisterRoutes(r Registry, opts msig.Options) (int, error) {
	var routes []Route
	if err := opts.ReadOptions("webhooks", &routes); err != nil {
		return 0, err
	}
	seen := make(map[string]int, len(routes))
	for i, rt := range routes {
		if err := rt.Destination.Validate(); err != nil {
			return 0, errors.Wrapf(err, "webhook #%d destination", i)
		}
		if rt.URL == "" {
			return 0, errors.Wrapf(errors.ErrEmpty, "webhook #%d url", i)
		}
		if j, ok := seen[string(rt.Destination)]; ok {
			return 0, errors.Wrapf(errors.ErrDuplicate, "webhook #%d destination %s, first used by #%d", i, rt.Destination, j)
		}
		if r.Route(rt.Destination) != nil {
			return 0, errors.Wrapf(errors.ErrDuplicate, "webhook #%d destination %s is already routed", i, rt.Destination)
		}
		seen[string(rt.Destination)] = i
	}
	for _, rt := range routes {
		r.Handle(rt.Destination, NewHandler(rt.URL, time.Duration(rt.Timeout)))
	}
	return len(routes), nil
}

// Duration is a time.Duration that is represented in JSON as a string, for
// example "1.5s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "duration must be a string")
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "invalid duration %q", s)
	}
	*d = Duration(v)
	return nil
}
