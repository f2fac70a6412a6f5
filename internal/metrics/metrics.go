// Package metrics holds the client's Prometheus collectors. They live on a
// private registry; `fin debug metrics` and the TUI debug line read it.
package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "fin"

// Outcome labels for finished requests.
const (
	OutcomeResponse    = "response"
	OutcomeOpenFailed  = "open_failed"
	OutcomeNetworkFail = "network_failed"
	OutcomeDecodeFail  = "decode_failed"
)

type Transport struct {
	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewTransport registers the transport collectors on reg. Registering twice
// on the same registry reuses the existing collectors.
func NewTransport(reg prometheus.Registerer) *Transport {
	m := &Transport{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "inflight_requests",
			Help:      "Requests sent and not yet completed.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "requests_total",
			Help:      "Completed requests by method and outcome.",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "request_duration_seconds",
			Help:      "Time from send to terminal callback.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method"}),
	}

	if reg == nil {
		return m
	}
	m.inFlight = register(reg, m.inFlight).(prometheus.Gauge)
	m.requests = register(reg, m.requests).(*prometheus.CounterVec)
	m.duration = register(reg, m.duration).(*prometheus.HistogramVec)
	return m
}

func register(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector
		}
		panic(err)
	}
	return c
}

// Start marks a request in flight and returns the function that records
// its outcome.
func (m *Transport) Start(method string) func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	started := time.Now()
	m.inFlight.Inc()
	return func(outcome string) {
		m.inFlight.Dec()
		m.requests.WithLabelValues(method, outcome).Inc()
		m.duration.WithLabelValues(method).Observe(time.Since(started).Seconds())
	}
}

type Sample struct {
	Name  string
	Value float64
}

func (s Sample) String() string {
	return fmt.Sprintf("%s %g", s.Name, s.Value)
}

// Snapshot flattens everything g gathers into name{labels} value pairs.
// Histograms contribute their _count and _sum.
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var samples []Sample
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			name := family.GetName() + labelString(metric.GetLabel())
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				samples = append(samples, Sample{Name: name, Value: metric.GetCounter().GetValue()})
			case dto.MetricType_GAUGE:
				samples = append(samples, Sample{Name: name, Value: metric.GetGauge().GetValue()})
			case dto.MetricType_HISTOGRAM:
				h := metric.GetHistogram()
				samples = append(samples,
					Sample{Name: family.GetName() + "_count" + labelString(metric.GetLabel()), Value: float64(h.GetSampleCount())},
					Sample{Name: family.GetName() + "_sum" + labelString(metric.GetLabel()), Value: h.GetSampleSum()},
				)
			}
		}
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}

func labelString(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", label.GetName(), label.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
