package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.Observe("GET", "/pet/{id}/edit", 200, 120*time.Millisecond)
	metrics.Observe("GET", "/pet/{id}/edit", 200, 80*time.Millisecond)
	metrics.Observe("POST", "", 500, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	labels := map[string]string{"method": "GET", "route": "/pet/{id}/edit", "status": "200"}
	if got, err := fetchCounterValue(mfs, "http_requests_total", labels); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 requests, got %f", got)
	}

	unknown := map[string]string{"method": "POST", "route": "unknown", "status": "500"}
	if got, err := fetchCounterValue(mfs, "http_requests_total", unknown); err != nil {
		t.Fatalf("fetch unknown route: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 unrouted request, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", map[string]string{"method": "GET", "route": "/pet/{id}/edit"}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestAuthAndListingMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	auth := NewAuthMetrics(reg)
	listings := NewListingMetrics(reg)

	auth.Inc("login", OutcomeFailure)
	auth.Inc("login", OutcomeFailure)
	auth.Inc("login", OutcomeSuccess)
	listings.Inc("create")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "auth_events_total", map[string]string{"event": "login", "outcome": OutcomeFailure}); err != nil {
		t.Fatalf("fetch auth failures: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 failures, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pet_listing_mutations_total", map[string]string{"action": "create"}); err != nil {
		t.Fatalf("fetch listing mutations: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 create, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Millisecond)
	NewAuthMetrics(nil).Inc("login", OutcomeSuccess)
	NewListingMetrics(nil).Inc("delete")

	var m *HTTPMetrics
	m.Observe("GET", "/", 200, time.Millisecond)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if value, ok := want[pair.GetName()]; ok {
			if pair.GetValue() != value {
				return false
			}
			matched++
		}
	}
	return matched == len(want)
}
