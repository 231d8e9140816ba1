package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func findMetric(t *testing.T, c *Collector, name string) []*dto.Metric {
	t.Helper()
	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() == name {
			return family.GetMetric()
		}
	}
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, pair := range m.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}

func TestObserveRequestCountsByRouteAndStatus(t *testing.T) {
	c := New()
	c.ObserveRequest("GET", "/api/posts", 200, 10*time.Millisecond)
	c.ObserveRequest("GET", "/api/posts", 200, 5*time.Millisecond)
	c.ObserveRequest("GET", "/api/posts/{slug}", 404, time.Millisecond)

	metrics := findMetric(t, c, "portfolio_http_requests_total")
	if len(metrics) != 2 {
		t.Fatalf("expected two label sets, got %d", len(metrics))
	}
	for _, m := range metrics {
		switch labelValue(m, "route") {
		case "/api/posts":
			if m.GetCounter().GetValue() != 2 {
				t.Fatalf("expected 2 requests, got %v", m.GetCounter().GetValue())
			}
		case "/api/posts/{slug}":
			if labelValue(m, "status") != "404" {
				t.Fatalf("expected status 404, got %q", labelValue(m, "status"))
			}
		default:
			t.Fatalf("unexpected route label %q", labelValue(m, "route"))
		}
	}
}

func TestObserveCommandRecordsHistogram(t *testing.T) {
	c := New()
	c.ObserveCommand("portfolio.markdown.render", "success", 20*time.Millisecond)

	metrics := findMetric(t, c, "portfolio_command_duration_seconds")
	if len(metrics) != 1 {
		t.Fatalf("expected one histogram, got %d", len(metrics))
	}
	if metrics[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected one sample, got %d", metrics[0].GetHistogram().GetSampleCount())
	}
}

func TestCollectorsAreIsolated(t *testing.T) {
	a := New()
	b := New()
	a.ObserveContact("accepted")

	if got := findMetric(t, b, "portfolio_contact_submissions_total"); len(got) != 0 {
		t.Fatalf("expected isolated registry, got %v", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.ObserveRequest("GET", "/", 200, time.Millisecond)
	c.ObserveCommand("x", "success", time.Millisecond)
	c.ObserveContact("accepted")
	c.ObserveRender(10)
	c.SetRateLimitBuckets(3)
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.SetRateLimitBuckets(4)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "portfolio_contact_rate_limit_buckets 4") {
		t.Fatalf("expected gauge in exposition, got %s", body)
	}
}
