package fsm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// transitionsTotal counts applied transitions by machine and state names.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entitystate_transitions_total",
		Help: "Total number of applied state transitions by machine, from_state and to_state",
	}, []string{"machine", "from_state", "to_state"})

	// transitionsAborted counts transitions abandoned because an exit hook
	// removed the entity, its machine or its state.
	transitionsAborted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entitystate_transitions_aborted_total",
		Help: "Total number of transitions abandoned after exit hooks by machine, from_state and to_state",
	}, []string{"machine", "from_state", "to_state"})

	contractViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entitystate_contract_violations_total",
		Help: "Total number of entities whose evaluation was aborted by a contract violation, by reason",
	}, []string{"reason"})

	evaluateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "entitystate_evaluate_duration_seconds",
		Help:    "Duration of one evaluation pass over every entity with a state machine",
		Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.004, 0.008, 0.016, 0.05},
	})
)
