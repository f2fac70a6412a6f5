package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportStartRecordsOutcome(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewTransport(reg)

	finish := m.Start("GET")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.inFlight))
	finish(OutcomeResponse)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", OutcomeResponse)))
}

func TestNewTransportReusesRegisteredCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	first := NewTransport(reg)
	second := NewTransport(reg)

	second.Start("POST")(OutcomeNetworkFail)
	assert.Equal(t, float64(1), testutil.ToFloat64(first.requests.WithLabelValues("POST", OutcomeNetworkFail)))
}

func TestSnapshotFlattensFamilies(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewTransport(reg)
	m.Start("GET")(OutcomeResponse)

	samples, err := Snapshot(reg)
	require.NoError(t, err)

	names := make([]string, 0, len(samples))
	for _, s := range samples {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, `fin_transport_requests_total{method="GET",outcome="response"}`)
	assert.Contains(t, names, `fin_transport_request_duration_seconds_count{method="GET"}`)
	assert.Contains(t, names, "fin_transport_inflight_requests")
}

func TestNilTransportIsNoop(t *testing.T) {
	t.Parallel()

	var m *Transport
	assert.NotPanics(t, func() { m.Start("GET")(OutcomeResponse) })
}
