// control/metrics_sink.go
//
// Sink decorator that tallies events by class before forwarding them.

package control

import (
	"strings"

	"github.com/kevinmiles/wsflood/api"
)

// MetricsSink counts every recorded event under its class — the first
// space-delimited token, e.g. "connect-ok" — and forwards it to the next
// sink. Safe for concurrent use when next is.
type MetricsSink struct {
	next api.Sink
	reg  *MetricsRegistry
}

// NewMetricsSink wraps next with counting into reg. A nil next discards the
// events after counting.
func NewMetricsSink(next api.Sink, reg *MetricsRegistry) *MetricsSink {
	if next == nil {
		next = api.NopSink()
	}
	return &MetricsSink{next: next, reg: reg}
}

func (s *MetricsSink) Record(event string) {
	class := event
	if i := strings.IndexByte(event, ' '); i >= 0 {
		class = event[:i]
	}
	s.reg.Inc(class)
	s.next.Record(event)
}
