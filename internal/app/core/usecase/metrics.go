package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ledgerOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "bank_ledger",
		Name:      "operations_total",
		Help:      "Total number of ledger operations by operation and result.",
	},
	[]string{"operation", "result"},
)
