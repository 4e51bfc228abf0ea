package multisig

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	// Collectors cannot be registered twice.
	_, err = NewMetrics(reg)
	assert.Error(t, err)

	f := newFixture(t, 2, 1, SignerSetPolicy)
	f.wallet.Observe(m)
	id := f.propose(t, 1, "metered")
	require.NoError(t, f.wallet.Confirm(f.as(1), id))

	families, err := reg.Gather()
	require.NoError(t, err)
	got := make(map[string]float64)
	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			got[fam.GetName()+"/"+labels(metric)] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), got["msig_wallet_events_total/transaction_proposed/treasury"])
	assert.Equal(t, float64(1), got["msig_wallet_events_total/transaction_executed/treasury"])
	assert.Equal(t, float64(1), got["msig_wallet_executed_transactions_total/treasury"])
}

// labels joins label values, which prometheus orders by label name.
func labels(m *dto.Metric) string {
	var s string
	for i, l := range m.GetLabel() {
		if i > 0 {
			s += "/"
		}
		s += l.GetValue()
	}
	return s
}
