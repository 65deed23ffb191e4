package vm

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring VM executions.
var (
	//executions prometheus metric.
	executions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of finished executions by the final VM state",
			Name:      "executions_total",
			Namespace: "neovm",
		},
		[]string{"state"},
	)
	//executedOpcodes prometheus metric.
	executedOpcodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of executed instructions by opcode",
			Name:      "opcodes_total",
			Namespace: "neovm",
		},
		[]string{"opcode"},
	)
	//faults prometheus metric.
	faults = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of VM faults",
			Name:      "faults_total",
			Namespace: "neovm",
		},
	)
)

func init() {
	prometheus.MustRegister(
		executions,
		executedOpcodes,
		faults,
	)
}

func updateOpcodeMetric(op string) {
	executedOpcodes.WithLabelValues(op).Inc()
}

func updateExecutionsMetric(s State) {
	executions.WithLabelValues(s.String()).Inc()
}

func updateFaultsMetric() {
	faults.Inc()
}
