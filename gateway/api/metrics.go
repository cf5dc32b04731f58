package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registry *prometheus.Registry

	TasksCreated      *prometheus.CounterVec
	ResponsesAccepted *prometheus.CounterVec
	ResponsesRejected *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		TasksCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_tasks_created_total",
			Help: "Tasks opened on the ledger.",
		}, []string{"kind"}),
		ResponsesAccepted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_responses_accepted_total",
			Help: "Operator responses committed.",
		}, []string{"kind"}),
		ResponsesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_responses_rejected_total",
			Help: "Operator responses rejected by the state machine.",
		}, []string{"kind", "reason"}),
	}
}
