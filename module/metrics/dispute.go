package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/onflow/dispute-client/module"
)

// DisputeCollector implements all metrics interfaces of the dispute client.
type DisputeCollector struct {
	// Reactor
	eventsReceived   *prometheus.CounterVec // contract events decoded, by event
	eventsIgnored    *prometheus.CounterVec // events concerning other nodes, by event
	responsesSent    *prometheus.CounterVec // responses sent, by contract method
	responsesFailed  *prometheus.CounterVec // responses that could not be computed or sent
	activeChallenges prometheus.Gauge
	queuedEvents     prometheus.Gauge
	lastBlock        prometheus.Gauge       // consumer checkpoint of the event stream

	// Dispatcher
	txSubmitted *prometheus.HistogramVec
	txFailed    *prometheus.CounterVec
	txRetried   *prometheus.CounterVec
	txReverted  *prometheus.CounterVec

	// Executor
	engineCalls     *prometheus.HistogramVec
	stepCacheHits   prometheus.Counter
	stepCacheMisses prometheus.Counter

	// Solver
	tasksSolved    *prometheus.CounterVec
	solvedSteps    prometheus.Histogram
	tasksFinalized prometheus.Counter
}

var _ module.ChallengeMetrics = (*DisputeCollector)(nil)
var _ module.TransactionMetrics = (*DisputeCollector)(nil)
var _ module.ExecutionMetrics = (*DisputeCollector)(nil)
var _ module.SolverMetrics = (*DisputeCollector)(nil)

func NewDisputeCollector(registerer prometheus.Registerer) *DisputeCollector {
	dc := &DisputeCollector{
		eventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "events_received_total",
			Namespace: namespaceDispute,
			Subsystem: subsystemReactor,
			Help:      "total number of contract events received by the reactor",
		}, []string{LabelEvent}),
		eventsIgnored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "events_ignored_total",
			Namespace: namespaceDispute,
			Subsystem: subsystemReactor,
			Help:      "total number of contract events that did not concern this node",
		}, []string{LabelEvent}),
		responsesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "responses_sent_total",
			Namespace: namespaceDispute,
			Subsystem: subsystemReactor,
			Help:      "total number of challenge responses sent",
		}, []string{LabelMethod}),
		responsesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "responses_failed_total",
			Namespace: namespaceDispute,
			Subsystem: subsystemReactor,
			Help:      "total number of challenge responses that failed",
		}, []string{LabelMethod}),
		activeChallenges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      "active_challenges",
			Namespace: namespaceDispute,
			Subsystem: subsystemReactor,
			Help:      "number of challenges currently tracked",
		}),
		queuedEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      "queued_events",
			Namespace: namespaceDispute,
			Subsystem: subsystemReactor,
			Help:      "number of events waiting in per-challenge queues",
		}),
		lastBlock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      "last_processed_block",
			Namespace: namespaceDispute,
			Subsystem: subsystemReactor,
			Help:      "block height up to which all events have been processed",
		}),
		txSubmitted: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "transaction_submission_seconds",
			Namespace: namespaceDispute,
			Subsystem: subsystemDispatcher,
			Help:      "duration of successful transaction submissions",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{LabelMethod}),
		txFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "transactions_failed_total",
			Namespace: namespaceDispute,
			Subsystem: subsystemDispatcher,
			Help:      "total number of transactions that could not be submitted",
		}, []string{LabelMethod}),
		txRetried: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "transactions_retried_total",
			Namespace: namespaceDispute,
			Subsystem: subsystemDispatcher,
			Help:      "total number of retried submission attempts",
		}, []string{LabelMethod}),
		txReverted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "dry_runs_reverted_total",
			Namespace: namespaceDispute,
			Subsystem: subsystemDispatcher,
			Help:      "total number of dry runs that reported a revert",
		}, []string{LabelMethod}),
		engineCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "engine_call_seconds",
			Namespace: namespaceDispute,
			Subsystem: subsystemExecutor,
			Help:      "duration of execution engine invocations",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{LabelCommand}),
		stepCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "step_cache_hits_total",
			Namespace: namespaceDispute,
			Subsystem: subsystemExecutor,
			Help:      "total number of step proofs served from cache",
		}),
		stepCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "step_cache_misses_total",
			Namespace: namespaceDispute,
			Subsystem: subsystemExecutor,
			Help:      "total number of step proofs computed by the engine",
		}),
		tasksSolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "tasks_solved_total",
			Namespace: namespaceDispute,
			Subsystem: subsystemSolver,
			Help:      "total number of submitted task solutions",
		}, []string{LabelOutcome}),
		solvedSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:      "solved_steps",
			Namespace: namespaceDispute,
			Subsystem: subsystemSolver,
			Help:      "number of execution steps of solved tasks",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 16),
		}),
		tasksFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "tasks_finalized_total",
			Namespace: namespaceDispute,
			Subsystem: subsystemSolver,
			Help:      "total number of finalized tasks",
		}),
	}

	registerer.MustRegister(
		// reactor
		dc.eventsReceived,
		dc.eventsIgnored,
		dc.responsesSent,
		dc.responsesFailed,
		dc.activeChallenges,
		dc.queuedEvents,
		dc.lastBlock,

		// dispatcher
		dc.txSubmitted,
		dc.txFailed,
		dc.txRetried,
		dc.txReverted,

		// executor
		dc.engineCalls,
		dc.stepCacheHits,
		dc.stepCacheMisses,

		// solver
		dc.tasksSolved,
		dc.solvedSteps,
		dc.tasksFinalized,
	)

	return dc
}

func (dc *DisputeCollector) OnEventReceived(event string) {
	dc.eventsReceived.WithLabelValues(event).Inc()
}

func (dc *DisputeCollector) OnEventIgnored(event string) {
	dc.eventsIgnored.WithLabelValues(event).Inc()
}

func (dc *DisputeCollector) OnResponseSent(method string) {
	dc.responsesSent.WithLabelValues(method).Inc()
}

func (dc *DisputeCollector) OnResponseFailed(method string) {
	dc.responsesFailed.WithLabelValues(method).Inc()
}

func (dc *DisputeCollector) ActiveChallenges(count uint) {
	dc.activeChallenges.Set(float64(count))
}

func (dc *DisputeCollector) QueuedEvents(count uint) {
	dc.queuedEvents.Set(float64(count))
}

func (dc *DisputeCollector) LastProcessedBlock(height uint64) {
	dc.lastBlock.Set(float64(height))
}

func (dc *DisputeCollector) TransactionSubmitted(method string, duration time.Duration) {
	dc.txSubmitted.WithLabelValues(method).Observe(duration.Seconds())
}

func (dc *DisputeCollector) TransactionFailed(method string) {
	dc.txFailed.WithLabelValues(method).Inc()
}

func (dc *DisputeCollector) TransactionRetried(method string) {
	dc.txRetried.WithLabelValues(method).Inc()
}

func (dc *DisputeCollector) DryRunReverted(method string) {
	dc.txReverted.WithLabelValues(method).Inc()
}

func (dc *DisputeCollector) EngineCallFinished(command string, duration time.Duration) {
	dc.engineCalls.WithLabelValues(command).Observe(duration.Seconds())
}

func (dc *DisputeCollector) StepCacheHit() {
	dc.stepCacheHits.Inc()
}

func (dc *DisputeCollector) StepCacheMiss() {
	dc.stepCacheMisses.Inc()
}

func (dc *DisputeCollector) TaskSolved(steps uint64, degraded bool) {
	outcome := OutcomeClean
	if degraded {
		outcome = OutcomeDegraded
	}
	dc.tasksSolved.WithLabelValues(outcome).Inc()
	dc.solvedSteps.Observe(float64(steps))
}

func (dc *DisputeCollector) TaskFinalized() {
	dc.tasksFinalized.Inc()
}
