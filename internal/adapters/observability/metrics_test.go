package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRegistryExposesMetrics(t *testing.T) {
	reg := InitRegistry()

	ObserveHTTP("/v1/chat", http.MethodPost, 200, 12*time.Millisecond)
	ObserveExternal("ollama:llama3.2:1b", "generate", 200, 80*time.Millisecond)
	ObserveCache("redis", "hit")

	rec := httptest.NewRecorder()
	MetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"frontdesk_http_requests_total",
		"frontdesk_http_request_duration_seconds",
		"frontdesk_external_requests_total",
		"frontdesk_cache_events_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
