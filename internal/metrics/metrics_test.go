package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_CountsFetchOutcomes(t *testing.T) {
	r := NewRecorder(nil)

	r.FetchStarted()
	r.FetchStarted()
	if got := testutil.ToFloat64(r.inFlight); got != 2 {
		t.Fatalf("in flight = %v, want 2", got)
	}

	r.FetchSettled(OutcomeSuccess, 120*time.Millisecond)
	r.FetchSettled(OutcomeNetwork, time.Second)

	if got := testutil.ToFloat64(r.inFlight); got != 0 {
		t.Fatalf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(r.fetchesTotal.WithLabelValues(OutcomeSuccess)); got != 1 {
		t.Fatalf("success fetches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.fetchesTotal.WithLabelValues(OutcomeNetwork)); got != 1 {
		t.Fatalf("network fetches = %v, want 1", got)
	}
	if testutil.CollectAndCount(r.fetchDuration) == 0 {
		t.Fatal("expected fetch_duration_seconds to be collected")
	}
}

func TestRecorder_QueryChangesAndCoalescing(t *testing.T) {
	r := NewRecorder(nil)

	r.QueryChanged(false)
	r.QueryChanged(true)
	r.QueryChanged(true)
	r.StaleDropped()
	r.ResultsApplied(7)

	if got := testutil.ToFloat64(r.keystrokes); got != 3 {
		t.Fatalf("query changes = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.coalescedTotal); got != 2 {
		t.Fatalf("coalesced = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.staleDropped); got != 1 {
		t.Fatalf("stale dropped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.resultsLast); got != 7 {
		t.Fatalf("last result count = %v, want 7", got)
	}
}

func TestRouter_ServesMetricsAndHealth(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.FetchStarted()
	r.FetchSettled(OutcomeParsing, 10*time.Millisecond)

	handler := Router(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d, want 200", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), `coinsearch_fetches_total{outcome="parsing"} 1`) {
		t.Fatalf("metrics body missing parsing counter:\n%s", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("GET /healthz = %d %q, want 200 ok", rr.Code, rr.Body.String())
	}
}
