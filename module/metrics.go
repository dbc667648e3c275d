package module

import (
	"time"
)

// ChallengeMetrics tracks the event reactor and the challenge registry.
type ChallengeMetrics interface {
	// OnEventReceived is called for every decoded contract event, by event name.
	OnEventReceived(event string)

	// OnEventIgnored is called for events that do not concern this node.
	OnEventIgnored(event string)

	// OnResponseSent is called once a response transaction was sent, by contract method.
	OnResponseSent(method string)

	// OnResponseFailed is called when computing or sending a response failed.
	OnResponseFailed(method string)

	// ActiveChallenges reports the number of challenges held by the registry.
	ActiveChallenges(count uint)

	// QueuedEvents reports the number of events waiting in per-challenge queues.
	QueuedEvents(count uint)

	// LastProcessedBlock reports the consumer checkpoint of the event stream.
	LastProcessedBlock(height uint64)
}

// TransactionMetrics tracks contract submissions.
type TransactionMetrics interface {
	// TransactionSubmitted records a successful submission and the time it took.
	TransactionSubmitted(method string, duration time.Duration)

	// TransactionFailed records a submission that failed after all attempts.
	TransactionFailed(method string)

	// TransactionRetried records one retried attempt.
	TransactionRetried(method string)

	// DryRunReverted records a dry run that reported a revert.
	DryRunReverted(method string)
}

// ExecutionMetrics tracks calls into the execution engine.
type ExecutionMetrics interface {
	// EngineCallFinished records the duration of one interpreter invocation.
	EngineCallFinished(command string, duration time.Duration)

	// StepCacheHit is called when a step proof was served from the cache.
	StepCacheHit()

	// StepCacheMiss is called when a step proof had to be computed.
	StepCacheMiss()
}

// SolverMetrics tracks the task orchestrator.
type SolverMetrics interface {
	// TaskSolved records a submitted solution.
	TaskSolved(steps uint64, degraded bool)

	// TaskFinalized records a finalized task.
	TaskFinalized()
}
