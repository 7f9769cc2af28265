package wconsole

import (
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wconsole"

// metrics groups the console's delivery counters.
type metrics struct {
	Envelopes        *prometheus.CounterVec
	Delivered        *prometheus.CounterVec
	Failed           *prometheus.CounterVec
	Dropped          prometheus.Counter
	InFlight         prometheus.Gauge
	DeliveryDuration prometheus.Histogram
}

func newMetrics() metrics {
	subsystem := "console"

	return metrics{
		Envelopes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "envelopes_total",
			Help:      "Envelopes built, by level.",
		}, []string{"level"}),
		Delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "delivered_total",
			Help:      "Envelopes accepted by the transport, by level.",
		}, []string{"level"}),
		Failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "failed_total",
			Help:      "Envelopes the transport failed to deliver, by level.",
		}, []string{"level"}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dropped_total",
			Help:      "Envelopes discarded because the console was closed.",
		}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inflight",
			Help:      "Deliveries currently in progress.",
		}),
		DeliveryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "delivery_duration_seconds",
			Help:      "Histogram of time spent delivering one envelope.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// collectorsFromFields returns every exported field of v that is a
// prometheus.Collector.
func collectorsFromFields(v any) []prometheus.Collector {
	rv := reflect.Indirect(reflect.ValueOf(v))
	out := make([]prometheus.Collector, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		if !rv.Type().Field(i).IsExported() {
			continue
		}
		if c, ok := rv.Field(i).Interface().(prometheus.Collector); ok {
			out = append(out, c)
		}
	}
	return out
}
