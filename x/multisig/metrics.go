package multisig

import (
	"github.com/iov-one/msig/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is an observer that exposes wallet activity as prometheus
// counters.
type Metrics struct {
	events   *prometheus.CounterVec
	executed *prometheus.CounterVec
}

var _ Observer = (*Metrics)(nil)

// NewMetrics creates the wallet collectors and registers them with given
// registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "msig",
			Subsystem: "wallet",
			Name:      "events_total",
			Help:      "Number of wallet events by kind.",
		}, []string{"wallet", "kind"}),
		executed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "msig",
			Subsystem: "wallet",
			Name:      "executed_transactions_total",
			Help:      "Number of executed transactions.",
		}, []string{"wallet"}),
	}
	for _, c := range []prometheus.Collector{m.events, m.executed} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(errors.ErrState, "cannot register collector: %s", err)
		}
	}
	return m, nil
}

func (m *Metrics) Notify(e Event) {
	m.events.WithLabelValues(e.Wallet, string(e.Kind)).Inc()
	if e.Kind == TransactionExecuted {
		m.executed.WithLabelValues(e.Wallet).Inc()
	}
}
