package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the service collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	LedgerTransitions    *prometheus.CounterVec
	PromotionOutcomes    *prometheus.CounterVec
	OperationDuration    *prometheus.HistogramVec
	EventPublishFailures *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		LedgerTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skilltree_ledger_transitions_total",
				Help: "Ledger writes by transition and resulting status",
			},
			[]string{"transition", "status"},
		),
		PromotionOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skilltree_promotion_outcomes_total",
				Help: "Promotion workflow outcomes",
			},
			[]string{"outcome"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skilltree_operation_duration_seconds",
				Help:    "Duration of service operations",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation", "result"},
		),
		EventPublishFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skilltree_event_publish_failures_total",
				Help: "Domain events that could not be published",
			},
			[]string{"topic"},
		),
	}

	m.registry.MustRegister(m.LedgerTransitions, m.PromotionOutcomes, m.OperationDuration, m.EventPublishFailures)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveTransition(transition, status string) {
	if m == nil {
		return
	}
	m.LedgerTransitions.WithLabelValues(transition, status).Inc()
}

func (m *Metrics) ObservePromotion(outcome string) {
	if m == nil {
		return
	}
	m.PromotionOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObservePublishFailure(topic string) {
	if m == nil {
		return
	}
	m.EventPublishFailures.WithLabelValues(topic).Inc()
}

// ObserveOperation records the time since start. Use with defer:
//
//	defer metrics.ObserveOperation("submit_node", time.Now(), &err)
func (m *Metrics) ObserveOperation(operation string, start time.Time, errp *error) {
	if m == nil {
		return
	}
	result := "ok"
	if errp != nil && *errp != nil {
		result = "error"
	}
	m.OperationDuration.WithLabelValues(operation, result).Observe(time.Since(start).Seconds())
}

// Push sends the registry to a Prometheus Pushgateway. CLI runs are too
// short lived to be scraped.
func (m *Metrics) Push(ctx context.Context, gatewayURL, job string) error {
	if m == nil || gatewayURL == "" {
		return nil
	}
	if err := push.New(gatewayURL, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
