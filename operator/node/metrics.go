package node

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	observed  *prometheus.CounterVec
	submitted *prometheus.CounterVec
	declined  *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		observed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "operator_tasks_observed_total",
			Help: "New tasks discovered by the watcher.",
		}, []string{"kind"}),
		submitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "operator_responses_submitted_total",
			Help: "Responses accepted by the ledger.",
		}, []string{"kind"}),
		declined: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "operator_tasks_declined_total",
			Help: "Tasks the decision function refused to approve.",
		}, []string{"kind"}),
		failed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "operator_task_failures_total",
			Help: "Task attempts that ended in an error.",
		}, []string{"kind"}),
	}
}
