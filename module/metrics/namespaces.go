package metrics

// Prometheus metric namespaces
const (
	namespaceDispute = "dispute"
)

// Dispute subsystems
const (
	subsystemReactor    = "reactor"
	subsystemDispatcher = "dispatcher"
	subsystemExecutor   = "executor"
	subsystemSolver     = "solver"
)
