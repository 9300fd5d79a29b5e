package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecordsLifecycle(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordPoolCreated("utoken", 1000)
	c.RecordContribution("pool-a", 50)
	c.RecordContribution("pool-a", 25)
	c.RecordFinalize("pool-a", 75)
	c.RecordClaim("pool-a", 75)
	c.RecordRejection("claim", "entitlement")
	c.RecordWindowClosed("pool-a")

	if got := testutil.ToFloat64(c.SupplyEscrowed.WithLabelValues("utoken")); got != 1000 {
		t.Errorf("expected 1000 escrowed, got %v", got)
	}
	if got := testutil.ToFloat64(c.Contributions.WithLabelValues("pool-a")); got != 2 {
		t.Errorf("expected 2 contributions, got %v", got)
	}
	if got := testutil.ToFloat64(c.ContributedAmount.WithLabelValues("pool-a")); got != 75 {
		t.Errorf("expected 75 contributed, got %v", got)
	}
	if got := testutil.ToFloat64(c.RaisedSwept); got != 75 {
		t.Errorf("expected 75 swept, got %v", got)
	}
	if got := testutil.ToFloat64(c.Rejections.WithLabelValues("claim", "entitlement")); got != 1 {
		t.Errorf("expected 1 rejection, got %v", got)
	}
	if got := testutil.ToFloat64(c.WindowsClosed); got != 1 {
		t.Errorf("expected 1 closed window, got %v", got)
	}
}

func TestUpdateBlockMetrics(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.UpdateBlockMetrics(42, 3, 1.5)

	if got := testutil.ToFloat64(c.BlockHeight); got != 42 {
		t.Errorf("expected height 42, got %v", got)
	}
	if got := testutil.ToFloat64(c.PendingWindows); got != 3 {
		t.Errorf("expected 3 pending windows, got %v", got)
	}
}

func TestHandlerServesDefaultRegistry(t *testing.T) {
	GetCollector().RecordInvariantBroken("conservation")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "launchpad_chain_invariants_broken_total") {
		t.Errorf("expected launchpad metrics in handler output")
	}
}

func TestTimerElapsed(t *testing.T) {
	timer := NewTimer()
	time.Sleep(2 * time.Millisecond)

	first := timer.ElapsedMs()
	if first < 2 {
		t.Errorf("expected at least 2ms elapsed, got %v", first)
	}
	if second := timer.ElapsedMs(); second < first {
		t.Errorf("elapsed time went backwards: %v < %v", second, first)
	}
}
