package metrics

const (
	LabelEvent   = "event"
	LabelMethod  = "method"
	LabelCommand = "command"
	LabelOutcome = "outcome"
)

const (
	OutcomeClean    = "clean"
	OutcomeDegraded = "degraded"
)
