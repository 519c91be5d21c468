package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndSnapshot(t *testing.T) {
	c := New()
	c.Record("/api/v1/policies", http.MethodGet, 200, 10*time.Millisecond)
	c.Record("/api/v1/policies", http.MethodGet, 500, 30*time.Millisecond)
	c.Record("", http.MethodPost, 429, 0)

	snap := c.Snapshot()
	assert.Equal(t, uint64(3), snap["requestsTotal"])
	assert.Equal(t, uint64(1), snap["errorsTotal"])
	assert.Equal(t, uint64(1), snap["rateLimitedTotal"])
	assert.InDelta(t, 40.0/3.0, snap["avgDurationMs"], 0.001)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("/api/v1/policies", "GET", "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("unmatched", "POST", "429")))
}

func TestDomainCounters(t *testing.T) {
	c := New()
	c.LeaveTransition("Pending")
	c.LeaveTransition("Pending")
	c.LeaveTransition("Approved")
	c.PolicySearch(3)
	c.PolicyReload(nil)
	c.PolicyReload(errors.New("bad yaml"))
	c.JobRun("policy_resync", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.leaveTransitions.WithLabelValues("Pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.policySearches))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.policyReloads.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.jobRuns.WithLabelValues("policy_resync", "success")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.LeaveTransition("Rejected")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `leavedesk_leave_requests_total{status="Rejected"} 1`)
}
