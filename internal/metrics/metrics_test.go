package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveUpload(nil)
	m.ObserveUpload(errors.New("bad sheet"))
	m.ObserveUpload(nil)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.uploads.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("failure")))

	m.SetSheetRows(map[string]int{"Telegram": 3, "InfringingUrls": 10}, 2)
	m.SetSheetRows(map[string]int{"Telegram": 4}, 1)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.sheetRows.WithLabelValues("Telegram")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.sheetRows))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dropped))

	m.ObserveDelivery("relay", nil)
	m.ObserveDelivery("smtp", errors.New("dial"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("smtp", "failure")))

	m.ObserveAggregation("dashboard", time.Now())
	assert.Equal(t, 1, testutil.CollectAndCount(m.aggregation))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpload(nil)
		m.SetSheetRows(map[string]int{"Telegram": 1}, 0)
		m.ObserveDelivery("relay", nil)
		m.ObserveAggregation("report", time.Now())
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveUpload(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `exposure_dashboard_uploads_total{result="success"} 1`)
}
