package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.ObserveTransition("submit", "completed")
	m.ObserveTransition("submit", "completed")
	m.ObservePromotion("approved")
	m.ObservePublishFailure("skilltree.progress")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LedgerTransitions.WithLabelValues("submit", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PromotionOutcomes.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventPublishFailures.WithLabelValues("skilltree.progress")))
}

func TestObserveOperation(t *testing.T) {
	m := NewMetrics()

	err := errors.New("boom")
	m.ObserveOperation("review", time.Now(), &err)
	m.ObserveOperation("review", time.Now(), nil)

	assert.Equal(t, 2, testutil.CollectAndCount(m.OperationDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTransition("unlock", "unlocked")
		m.ObservePromotion("rejected")
		m.ObserveOperation("x", time.Now(), nil)
		m.ObservePublishFailure("t")
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.Push(context.Background(), "http://unused", "job"))
}

func TestPush(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/metrics/job/skilltree") {
			hits.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewMetrics()
	m.ObservePromotion("approved")

	require.NoError(t, m.Push(context.Background(), server.URL, "skilltree"))
	assert.Equal(t, int32(1), hits.Load())

	assert.NoError(t, m.Push(context.Background(), "", "skilltree"))
}
