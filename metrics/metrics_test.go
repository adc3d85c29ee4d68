package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.HTTPRequestsTotal == nil || r.RendersTotal == nil || r.PathsStored == nil {
		t.Error("collectors not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("GET", "/api/paths", "200", 10*time.Millisecond)
	r.RecordHTTPRequest("GET", "/api/paths", "200", 20*time.Millisecond)

	counter, err := r.HTTPRequestsTotal.GetMetricWithLabelValues("GET", "/api/paths", "200")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("Counter value = %v, want 2", metric.Counter.GetValue())
	}
}

func TestRecordRender(t *testing.T) {
	r := NewRegistry()
	r.RecordRender("static", time.Millisecond, nil)
	r.RecordRender("static", time.Millisecond, errors.New("boom"))

	for _, status := range []string{"success", "error"} {
		var metric dto.Metric
		if err := r.RendersTotal.WithLabelValues("static", status).Write(&metric); err != nil {
			t.Fatalf("Failed to write metric: %v", err)
		}
		if metric.Counter.GetValue() != 1 {
			t.Errorf("%s renders = %v, want 1", status, metric.Counter.GetValue())
		}
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.SetPathsStored(3)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "velograph_paths_stored 3") {
		t.Errorf("metrics output missing paths gauge:\n%s", body)
	}
}
