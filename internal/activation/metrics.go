package activation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wasteportal"

var (
	activationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "activation",
			Name:      "runs_total",
			Help:      "Total activation runs by trigger source",
		},
		[]string{"source"},
	)

	subscriptionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "activation",
			Name:      "subscriptions_created_total",
			Help:      "Total subscriptions created from pending selections",
		},
	)

	itemsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "activation",
			Name:      "items_failed_total",
			Help:      "Total selections that failed to activate, by reason",
		},
		[]string{"reason"},
	)

	selectionsRestored = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "activation",
			Name:      "selections_restored_total",
			Help:      "Total selections returned to pending storage by compensation",
		},
	)
)

func recordRun(source string) {
	activationRuns.WithLabelValues(source).Inc()
}

func recordItemActivated() {
	subscriptionsCreated.Inc()
}

func recordItemFailed(reason string) {
	itemsFailed.WithLabelValues(reason).Inc()
}

func recordSelectionsRestored(count int) {
	selectionsRestored.Add(float64(count))
}
