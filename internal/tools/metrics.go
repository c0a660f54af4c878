package tools

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-tool call counts and latency.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the tool collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toogle",
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool name and outcome.",
		}, []string{"tool", "is_error"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "toogle",
			Name:      "tool_call_duration_seconds",
			Help:      "Time spent in tool handlers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
	for _, c := range []prometheus.Collector{m.calls, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// observe is nil-safe so a Registry built without metrics skips recording.
func (m *Metrics) observe(tool string, isError bool, d time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(tool, strconv.FormatBool(isError)).Inc()
	m.duration.WithLabelValues(tool).Observe(d.Seconds())
}
