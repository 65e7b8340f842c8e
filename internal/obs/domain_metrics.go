package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ordersCreatedTotal counts successfully committed orders.
	ordersCreatedTotal prometheus.Counter
	// ordersRejectedTotal counts rejected commits by failure reason.
	ordersRejectedTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ordersCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Count of committed orders.",
		})
		ordersRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Count of rejected order commits by reason.",
		}, []string{"reason"})

		mustRegisterCollector(reg, ordersCreatedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				ordersCreatedTotal = v
			}
		})
		mustRegisterCollector(reg, ordersRejectedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ordersRejectedTotal = v
			}
		})
	})
}

// OrderCreated increments the committed-order counter, if metrics are registered.
func OrderCreated() {
	if ordersCreatedTotal != nil {
		ordersCreatedTotal.Inc()
	}
}

// OrderRejected increments the rejection counter for the given reason code.
func OrderRejected(reason string) {
	if ordersRejectedTotal != nil {
		ordersRejectedTotal.WithLabelValues(reason).Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
