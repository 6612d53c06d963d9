// Package metrics holds the Prometheus collectors of the dashboard.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "exposure_dashboard"

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	uploads     *prometheus.CounterVec
	sheetRows   *prometheus.GaugeVec
	dropped     prometheus.Counter
	deliveries  *prometheus.CounterVec
	aggregation *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. Pass
// prometheus.NewRegistry() in tests to keep them isolated.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Workbook uploads by result",
		}, []string{"result"}),
		sheetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows of the current dataset per sheet",
		}, []string{"sheet"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_rows_total",
			Help:      "Rows dropped at ingestion for an invalid identification timestamp",
		}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Report and export deliveries by channel and result",
		}, []string{"channel", "result"}),
		aggregation: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Time spent computing a dashboard view or report",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"view"}),
		gatherer: reg,
	}

	reg.MustRegister(m.uploads, m.sheetRows, m.dropped, m.deliveries, m.aggregation)
	return m
}

// Handler serves the registered collectors
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveUpload counts one upload attempt
func (m *Metrics) ObserveUpload(err error) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result(err)).Inc()
}

// SetSheetRows replaces the per-sheet row gauges with the given counts
func (m *Metrics) SetSheetRows(rows map[string]int, dropped int) {
	if m == nil {
		return
	}
	m.sheetRows.Reset()
	for sheet, n := range rows {
		m.sheetRows.WithLabelValues(sheet).Set(float64(n))
	}
	m.dropped.Add(float64(dropped))
}

// ObserveDelivery counts one attempt on a notification channel
func (m *Metrics) ObserveDelivery(channel string, err error) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(channel, result(err)).Inc()
}

// ObserveAggregation records how long view took since start
func (m *Metrics) ObserveAggregation(view string, start time.Time) {
	if m == nil {
		return
	}
	m.aggregation.WithLabelValues(view).Observe(time.Since(start).Seconds())
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
