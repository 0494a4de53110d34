// Package metrics exposes Prometheus instrumentation for client operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Throughput metrics - track operation volume
var (
	TransactionsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soroban_transactions_submitted_total",
		Help: "Total number of transactions submitted to the network",
	})

	TransactionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soroban_transactions_failed_total",
		Help: "Total number of transactions that reached a FAILED terminal state",
	})

	SimulationsPerformed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soroban_simulations_total",
		Help: "Total number of transaction simulations performed",
	})

	ContractsDeployed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soroban_contracts_deployed_total",
		Help: "Total number of contracts deployed",
	})

	ContractInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soroban_contract_invocations_total",
			Help: "Total number of contract function invocations by function name",
		},
		[]string{"function"},
	)

	WasmUploads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soroban_wasm_uploads_total",
		Help: "Total number of contract WASM uploads",
	})
)

// Performance metrics - track latency
var (
	SubmissionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "soroban_transaction_submission_duration_seconds",
		Help:    "Time from submission until a terminal transaction state",
		Buckets: prometheus.DefBuckets,
	})

	SimulationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "soroban_simulation_duration_seconds",
		Help:    "Time taken to simulate a transaction",
		Buckets: prometheus.DefBuckets,
	})
)

// EventsStreamed counts events delivered by the event streamer.
var EventsStreamed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "soroban_events_streamed_total",
	Help: "Total number of contract events delivered by the event streamer",
})
