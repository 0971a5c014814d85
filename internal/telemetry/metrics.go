// Package telemetry exposes the small set of Prometheus metrics this
// engine cares about: how many books and orders exist, and how many
// input records get rejected. It is a scaled-down version of the much
// larger metrics collector in the retrieved perp-dex pack entry, cut
// down to the handful of gauges a pure order-book process needs.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds every metric this process registers, built once via
// NewCollector and shared by the registry package and cmd/bookd.
type Collector struct {
	BooksOpen     prometheus.Gauge
	OrdersResting *prometheus.GaugeVec
	RecordsTotal  *prometheus.CounterVec
}

var (
	once      sync.Once
	singleton *Collector
)

// NewCollector registers the book-engine metrics against reg and
// returns the collector. Calling it more than once against the same
// registerer panics on duplicate registration, matching the pack's singleton pattern for process-wide
// collectors.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		BooksOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "limitbook",
			Name:      "books_open",
			Help:      "Number of ticker symbols with an open order book.",
		}),
		OrdersResting: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "limitbook",
			Name:      "orders_resting",
			Help:      "Number of resting orders per ticker and side.",
		}, []string{"ticker", "side"}),
		RecordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "limitbook",
			Name:      "records_total",
			Help:      "Number of input records processed, labeled by action and outcome.",
		}, []string{"action", "outcome"}),
	}

	reg.MustRegister(c.BooksOpen, c.OrdersResting, c.RecordsTotal)
	return c
}

// Default returns a process-wide Collector registered against the
// default Prometheus registry, creating it on first call.
func Default() *Collector {
	once.Do(func() {
		singleton = NewCollector(prometheus.DefaultRegisterer)
	})
	return singleton
}
