package metrics

import (
	"time"

	"github.com/onflow/dispute-client/module"
)

type NoopCollector struct{}

var _ module.ChallengeMetrics = (*NoopCollector)(nil)
var _ module.TransactionMetrics = (*NoopCollector)(nil)
var _ module.ExecutionMetrics = (*NoopCollector)(nil)
var _ module.SolverMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) OnEventReceived(event string)                               {}
func (nc *NoopCollector) OnEventIgnored(event string)                                {}
func (nc *NoopCollector) OnResponseSent(method string)                               {}
func (nc *NoopCollector) OnResponseFailed(method string)                             {}
func (nc *NoopCollector) ActiveChallenges(count uint)                                {}
func (nc *NoopCollector) QueuedEvents(count uint)                                    {}
func (nc *NoopCollector) LastProcessedBlock(height uint64)                           {}
func (nc *NoopCollector) TransactionSubmitted(method string, duration time.Duration) {}
func (nc *NoopCollector) TransactionFailed(method string)                            {}
func (nc *NoopCollector) TransactionRetried(method string)                           {}
func (nc *NoopCollector) DryRunReverted(method string)                               {}
func (nc *NoopCollector) EngineCallFinished(command string, duration time.Duration)  {}
func (nc *NoopCollector) StepCacheHit()                                              {}
func (nc *NoopCollector) StepCacheMiss()                                             {}
func (nc *NoopCollector) TaskSolved(steps uint64, degraded bool)                     {}
func (nc *NoopCollector) TaskFinalized()                                             {}
